package config

import "time"

// LogConfig configures the logrus-based logger (internal/log).
type LogConfig struct {
	Level     string           `mapstructure:"level"`
	Pattern   string           `mapstructure:"pattern"`
	Time      string           `mapstructure:"time"`
	Formatter string           `mapstructure:"formatter"` // "pattern" (default) or "prefixed"
	Appenders []AppenderConfig `mapstructure:"appenders"`

	BufferSize    int           `mapstructure:"buffer_size,omitempty"`
	FlushInterval time.Duration `mapstructure:"flush_interval,omitempty"`
}

// AppenderConfig configures one log output destination.
type AppenderConfig struct {
	Type    string                 `mapstructure:"type"` // "file" | "kafka"
	Options map[string]interface{} `mapstructure:"options,omitempty"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// SinkConfig configures the ResultRow output sink — a collaborator
// boundary; this just selects and parameterizes a swappable sink
// implementation rather than owning serialization itself.
type SinkConfig struct {
	Type   string         `mapstructure:"type"` // "console" | "kafka"
	Config map[string]any `mapstructure:"config"`
}

func (s *SinkConfig) validate() error {
	switch s.Type {
	case "", "console", "kafka":
		if s.Type == "" {
			s.Type = "console"
		}
		return nil
	default:
		return &unsupportedSinkError{s.Type}
	}
}

type unsupportedSinkError struct{ sinkType string }

func (e *unsupportedSinkError) Error() string {
	return "sink.type must be console or kafka, got " + e.sinkType
}
