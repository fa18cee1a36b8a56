package countmode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nettelescope/reportcore/internal/config"
)

func TestMaskKey_All(t *testing.T) {
	cfg := config.IPCountingConfig{Method: config.CountAll, PrefixBits: 32}
	ip := uint32(0xC0A80101) // 192.168.1.1
	assert.Equal(t, ip, MaskKey(ip, cfg))
}

func TestMaskKey_PrefixAgg(t *testing.T) {
	cfg := config.IPCountingConfig{Method: config.CountPrefixAgg, PrefixBits: 24}
	a := uint32(0xC0A80101) // 192.168.1.1
	b := uint32(0xC0A801FE) // 192.168.1.254
	assert.Equal(t, MaskKey(a, cfg), MaskKey(b, cfg))

	c := uint32(0xC0A80201) // 192.168.2.1, different /24
	assert.NotEqual(t, MaskKey(a, cfg), MaskKey(c, cfg))
}

func TestMaskKey_Sample_SameMaskAsPrefixAgg(t *testing.T) {
	prefixCfg := config.IPCountingConfig{Method: config.CountPrefixAgg, PrefixBits: 16}
	sampleCfg := config.IPCountingConfig{Method: config.CountSample, PrefixBits: 16}
	ip := uint32(0xC0A80101)
	assert.Equal(t, MaskKey(ip, prefixCfg), MaskKey(ip, sampleCfg))
}

func TestMaskKey_ZeroPrefixBits(t *testing.T) {
	cfg := config.IPCountingConfig{Method: config.CountPrefixAgg, PrefixBits: 0}
	assert.Equal(t, uint32(0), MaskKey(0xC0A80101, cfg))
}
