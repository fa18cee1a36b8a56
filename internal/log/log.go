package log

import (
	"sync"

	"github.com/nettelescope/reportcore/internal/config"
)

// Logger is the logging facade used throughout the Report core. It mirrors
// logrus.FieldLogger's surface so call sites read as
// "log.GetLogger().WithField(...).Infof(...)" everywhere, while keeping
// the concrete logging library swappable.
type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the global logger. Init must be called first; in
// tests that don't call Init, a bare logrus logger at Info level is
// lazily installed so GetLogger() never returns nil.
func GetLogger() Logger {
	if logger == nil {
		_ = initByConfig(config.LogConfig{Level: "info"})
	}
	return logger
}

// Init installs the global logger from cfg. Only the first call takes
// effect within a process.
func Init(cfg config.LogConfig) error {
	var err error
	once.Do(func() {
		err = initByConfig(cfg)
	})
	return err
}
