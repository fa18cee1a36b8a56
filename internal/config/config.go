// Package config loads and validates Report core configuration using
// viper, following a Load/setDefaults/ValidateAndApplyDefaults shape.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nettelescope/reportcore/internal/tag"
)

// IPCountingMethod selects how a Tracker deduplicates unique IPs for a
// direction (src or dst).
type IPCountingMethod string

const (
	CountAll       IPCountingMethod = "ALL"
	CountPrefixAgg IPCountingMethod = "PREFIXAGG"
	CountSample    IPCountingMethod = "SAMPLE"
)

// FloorToInterval rounds ts down to the start of the interval_seconds
// window it falls in, so a per-record timestamp and a wall-clock tick
// that land in the same window resolve to the identical interval key.
func FloorToInterval(ts uint32, intervalSeconds int) uint32 {
	if intervalSeconds <= 0 {
		return ts
	}
	step := uint32(intervalSeconds)
	return (ts / step) * step
}

// IPCountingConfig configures one direction's unique-IP counting strategy.
type IPCountingConfig struct {
	Method     IPCountingMethod `mapstructure:"method"`
	PrefixBits int              `mapstructure:"prefix_bits"`
}

func (c *IPCountingConfig) validate(direction string) error {
	switch c.Method {
	case CountAll, CountPrefixAgg, CountSample:
	case "":
		c.Method = CountAll
	default:
		return fmt.Errorf("%s_ip_counting: unknown method %q (must be ALL, PREFIXAGG, or SAMPLE)", direction, c.Method)
	}
	if c.PrefixBits == 0 {
		c.PrefixBits = 32
	}
	if c.PrefixBits < 1 || c.PrefixBits > 32 {
		return fmt.Errorf("%s_ip_counting.prefix_bits must be in [1,32], got %d", direction, c.PrefixBits)
	}
	return nil
}

// GeoMode controls how much geo detail the Processor expands per packet.
type GeoMode string

const (
	GeoLite GeoMode = "LITE" // continent + country only
	GeoFull GeoMode = "FULL" // continent + country + region + pfx-asn + couplet
)

// Config is the top-level, immutable-after-Load Report core configuration.
type Config struct {
	TrackerCount    int `mapstructure:"tracker_count"`
	ProcessorCount  int `mapstructure:"processor_count"`
	IntervalSeconds int `mapstructure:"interval_seconds"`

	// AllowedMetricClasses is a bitmask over tag.AllClasses() indices; 0
	// means all classes are enabled.
	AllowedMetricClasses uint32 `mapstructure:"allowed_metric_classes"`

	TCPSrcPortRanges []PortRange `mapstructure:"tcp_src_port_range"`
	TCPDstPortRanges []PortRange `mapstructure:"tcp_dst_port_range"`
	UDPSrcPortRanges []PortRange `mapstructure:"udp_src_port_range"`
	UDPDstPortRanges []PortRange `mapstructure:"udp_dst_port_range"`

	GeoMode GeoMode `mapstructure:"geo_mode"`

	SrcIPCounting IPCountingConfig `mapstructure:"src_ip_counting"`
	DstIPCounting IPCountingConfig `mapstructure:"dst_ip_counting"`

	InternalHWM int `mapstructure:"internal_hwm"`

	QueryTaggerLabels bool `mapstructure:"query_tagger_labels"`

	GeoAsnWhitelistFile string `mapstructure:"geoasn_whitelist_file"`

	OutputRowLabel string `mapstructure:"output_row_label"`

	// BatchThreshold is the per-Processor IP-update batch flush threshold;
	// default 10,000.
	BatchThreshold int `mapstructure:"batch_threshold"`

	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Sink    SinkConfig    `mapstructure:"sink"`

	// derived
	tcpSrcBitmap PortBitmap
	tcpDstBitmap PortBitmap
	udpSrcBitmap PortBitmap
	udpDstBitmap PortBitmap
}

// TCPSrcPorts returns the compiled TCP source-port bitmap.
func (c *Config) TCPSrcPorts() *PortBitmap { return &c.tcpSrcBitmap }

// TCPDstPorts returns the compiled TCP destination-port bitmap.
func (c *Config) TCPDstPorts() *PortBitmap { return &c.tcpDstBitmap }

// UDPSrcPorts returns the compiled UDP source-port bitmap.
func (c *Config) UDPSrcPorts() *PortBitmap { return &c.udpSrcBitmap }

// UDPDstPorts returns the compiled UDP destination-port bitmap.
func (c *Config) UDPDstPorts() *PortBitmap { return &c.udpDstBitmap }

// ClassAllowed reports whether c is enabled under AllowedMetricClasses.
func (cfg *Config) ClassAllowed(c tag.Class) bool {
	if cfg.AllowedMetricClasses == 0 {
		return true
	}
	idx := tag.Index(c)
	if idx < 0 || idx >= 32 {
		return false
	}
	return cfg.AllowedMetricClasses&(1<<uint(idx)) != 0
}

// Load reads configuration from path, applies defaults, and validates it.
// Configuration errors are returned rather than panicking: the core never
// runs with a rejected configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix("report_core")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tracker_count", 4)
	v.SetDefault("processor_count", 2)
	v.SetDefault("interval_seconds", 60)
	v.SetDefault("allowed_metric_classes", 0)
	v.SetDefault("geo_mode", string(GeoLite))
	v.SetDefault("src_ip_counting.method", string(CountAll))
	v.SetDefault("src_ip_counting.prefix_bits", 32)
	v.SetDefault("dst_ip_counting.method", string(CountAll))
	v.SetDefault("dst_ip_counting.prefix_bits", 32)
	v.SetDefault("internal_hwm", 30)
	v.SetDefault("query_tagger_labels", false)
	v.SetDefault("output_row_label", "report-core")
	v.SetDefault("batch_threshold", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pattern", "%time [%level] %field %msg\n")
	v.SetDefault("log.time", "2006-01-02T15:04:05.000Z07:00")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen", ":9106")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("sink.type", "console")
}

// ValidateAndApplyDefaults validates the configuration and fills in
// derived, immutable-after-finalize fields (the compiled port bitmaps).
func (cfg *Config) ValidateAndApplyDefaults() error {
	if cfg.TrackerCount < 1 || cfg.TrackerCount > 32 {
		return fmt.Errorf("tracker_count must be in [1,32], got %d", cfg.TrackerCount)
	}
	if cfg.ProcessorCount < 1 {
		return fmt.Errorf("processor_count must be >= 1, got %d", cfg.ProcessorCount)
	}
	if cfg.IntervalSeconds < 1 {
		return fmt.Errorf("interval_seconds must be >= 1, got %d", cfg.IntervalSeconds)
	}
	if cfg.BatchThreshold < 1 {
		cfg.BatchThreshold = 10000
	}
	if cfg.InternalHWM < 1 {
		return fmt.Errorf("internal_hwm must be >= 1, got %d", cfg.InternalHWM)
	}

	switch cfg.GeoMode {
	case GeoLite, GeoFull:
	case "":
		cfg.GeoMode = GeoLite
	default:
		return fmt.Errorf("geo_mode must be LITE or FULL, got %q", cfg.GeoMode)
	}

	if err := cfg.SrcIPCounting.validate("src"); err != nil {
		return err
	}
	if err := cfg.DstIPCounting.validate("dst"); err != nil {
		return err
	}

	cfg.tcpSrcBitmap = BuildPortBitmap(cfg.TCPSrcPortRanges)
	cfg.tcpDstBitmap = BuildPortBitmap(cfg.TCPDstPortRanges)
	cfg.udpSrcBitmap = BuildPortBitmap(cfg.UDPSrcPortRanges)
	cfg.udpDstBitmap = BuildPortBitmap(cfg.UDPDstPortRanges)

	if cfg.OutputRowLabel == "" {
		cfg.OutputRowLabel = "report-core"
	}

	if err := cfg.Sink.validate(); err != nil {
		return err
	}

	return nil
}
