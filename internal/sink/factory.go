package sink

import (
	"fmt"

	"github.com/nettelescope/reportcore/internal/config"
)

// New builds the configured Sink, defaulting to Console.
func New(cfg config.SinkConfig) (Sink, error) {
	switch cfg.Type {
	case "", "console":
		return NewConsole(), nil
	case "kafka":
		return NewKafka(cfg.Config)
	default:
		return nil, fmt.Errorf("sink: unsupported type %q", cfg.Type)
	}
}
