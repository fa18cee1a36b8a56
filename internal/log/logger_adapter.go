// Package log implements structured logging on top of logrus, with
// pluggable output appenders (console, rotating file, Kafka).
package log

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/nettelescope/reportcore/internal/config"
)

type logrusAdapter struct {
	entry *logrus.Entry
}

// initByConfig builds the global logger from a config.LogConfig: selects a
// formatter (a custom %pattern formatter, or logrus-prefixed-formatter as
// an alternate), and fans output out to stdout plus whatever file/Kafka
// appenders the config declares.
func initByConfig(cfg config.LogConfig) error {
	l := logrus.New()

	switch cfg.Formatter {
	case "prefixed":
		l.SetFormatter(&prefixed.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: cfg.Time,
		})
	default:
		pattern := cfg.Pattern
		if pattern == "" {
			pattern = "%time [%level] %field %msg\n"
		}
		timeLayout := cfg.Time
		if timeLayout == "" {
			timeLayout = "2006-01-02T15:04:05.000Z07:00"
		}
		l.SetFormatter(&formatter{pattern: pattern, time: timeLayout})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	writer := NewMultiWriter().Add(os.Stdout)
	for i, appender := range cfg.Appenders {
		switch appender.Type {
		case "file":
			opt, err := decodeFileAppenderOpt(appender.Options)
			if err != nil {
				return fmt.Errorf("appender[%d] (file): %w", i, err)
			}
			writer.AddFileAppender(opt)
		case "kafka":
			opt, err := decodeKafkaAppenderOpt(appender.Options)
			if err != nil {
				return fmt.Errorf("appender[%d] (kafka): %w", i, err)
			}
			writer.AddKafkaAppender(opt)
		default:
			return fmt.Errorf("appender[%d]: unsupported type %q", i, appender.Type)
		}
	}
	l.SetOutput(writer)

	logger = &logrusAdapter{entry: logrus.NewEntry(l)}
	return nil
}

func (l *logrusAdapter) Print(args ...interface{})                 { l.entry.Print(args...) }
func (l *logrusAdapter) Printf(format string, args ...interface{}) { l.entry.Printf(format, args...) }

func (l *logrusAdapter) Trace(args ...interface{})                 { l.entry.Trace(args...) }
func (l *logrusAdapter) Tracef(format string, args ...interface{}) { l.entry.Tracef(format, args...) }

func (l *logrusAdapter) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logrusAdapter) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

func (l *logrusAdapter) Info(args ...interface{})                 { l.entry.Info(args...) }
func (l *logrusAdapter) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }

func (l *logrusAdapter) Warn(args ...interface{})                 { l.entry.Warn(args...) }
func (l *logrusAdapter) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

func (l *logrusAdapter) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logrusAdapter) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusAdapter) Fatal(args ...interface{})                 { l.entry.Fatal(args...) }
func (l *logrusAdapter) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *logrusAdapter) Panic(args ...interface{})                 { l.entry.Panic(args...) }
func (l *logrusAdapter) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }

func (l *logrusAdapter) WithField(field string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(field, value)}
}
func (l *logrusAdapter) WithFields(fields map[string]interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}
func (l *logrusAdapter) WithError(err error) Logger {
	return &logrusAdapter{entry: l.entry.WithError(err)}
}

func (l *logrusAdapter) IsTraceEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.TraceLevel)
}
func (l *logrusAdapter) IsDebugEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}
func (l *logrusAdapter) IsInfoEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.InfoLevel)
}
