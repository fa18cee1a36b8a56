package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named preset that overrides a subset of Config fields —
// the shape an operator hand-tunes per deployment (a small edge box might
// run tracker_count: 2, a collector box tracker_count: 32).
type Profile struct {
	Name            string            `yaml:"name"`
	TrackerCount    int               `yaml:"tracker_count"`
	ProcessorCount  int               `yaml:"processor_count"`
	IntervalSeconds int               `yaml:"interval_seconds"`
	SrcIPCounting   *IPCountingConfig `yaml:"src_ip_counting,omitempty"`
	DstIPCounting   *IPCountingConfig `yaml:"dst_ip_counting,omitempty"`
}

// LoadProfile parses a YAML profile file and returns it unvalidated; call
// Apply to merge it onto a base Config before validating.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile %s: name is required", path)
	}
	return &p, nil
}

// Apply merges non-zero profile fields onto cfg in place.
func (p *Profile) Apply(cfg *Config) {
	if p.TrackerCount > 0 {
		cfg.TrackerCount = p.TrackerCount
	}
	if p.ProcessorCount > 0 {
		cfg.ProcessorCount = p.ProcessorCount
	}
	if p.IntervalSeconds > 0 {
		cfg.IntervalSeconds = p.IntervalSeconds
	}
	if p.SrcIPCounting != nil {
		cfg.SrcIPCounting = *p.SrcIPCounting
	}
	if p.DstIPCounting != nil {
		cfg.DstIPCounting = *p.DstIPCounting
	}
}
