package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTmpConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeTmpConfig(t, `tracker_count: 4
processor_count: 2
interval_seconds: 60
`))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.TrackerCount)
	assert.Equal(t, GeoLite, cfg.GeoMode)
	assert.Equal(t, CountAll, cfg.SrcIPCounting.Method)
	assert.Equal(t, 32, cfg.SrcIPCounting.PrefixBits)
	assert.Equal(t, 10000, cfg.BatchThreshold)
	assert.Equal(t, "console", cfg.Sink.Type)
}

func TestLoad_RejectsBadTrackerCount(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `tracker_count: 0
processor_count: 1
interval_seconds: 60
`))
	assert.Error(t, err)
}

func TestLoad_RejectsBadSinkType(t *testing.T) {
	_, err := Load(writeTmpConfig(t, `tracker_count: 1
processor_count: 1
interval_seconds: 60
sink:
  type: carrier-pigeon
`))
	assert.Error(t, err)
}

func TestPortBitmap_EmptyAllowsEverything(t *testing.T) {
	var b PortBitmap
	assert.True(t, b.Allows(80))
	assert.True(t, b.Allows(65535))
}

func TestPortBitmap_SetRange(t *testing.T) {
	b := BuildPortBitmap([]PortRange{{Lo: 8000, Hi: 8080}})
	assert.True(t, b.Allows(8000))
	assert.True(t, b.Allows(8080))
	assert.False(t, b.Allows(7999))
	assert.False(t, b.Allows(8081))
}

func TestConfig_ClassAllowed_ZeroMaskAllowsAll(t *testing.T) {
	cfg := &Config{AllowedMetricClasses: 0}
	assert.True(t, cfg.ClassAllowed(0))
}
