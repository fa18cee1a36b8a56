package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/tag"
)

func baseConfig() *config.Config {
	return &config.Config{
		GeoMode:         config.GeoLite,
		TrackerCount:    1,
		ProcessorCount:  1,
		IntervalSeconds: 60,
		InternalHWM:     1,
	}
}

func TestExpand_CombinedAlwaysPresent(t *testing.T) {
	obs := &observation.PacketObservation{Protocol: 6}
	tags := Expand(obs, baseConfig(), nil)
	assert.Equal(t, tag.Combined, tags[0].Tag.Class, "combined must always be first")
}

func TestExpand_TCPPorts(t *testing.T) {
	obs := &observation.PacketObservation{
		Protocol:          6,
		SrcPortOrICMPType: 443,
		DstPortOrICMPCode: 51234,
	}
	tags := Expand(obs, baseConfig(), nil)
	classes := classSet(tags)
	assert.Contains(t, classes, tag.TCPSrcPort)
	assert.Contains(t, classes, tag.TCPDstPort)
	assert.NotContains(t, classes, tag.UDPSrcPort)
}

func TestExpand_PortBitmapRestricts(t *testing.T) {
	cfg := baseConfig()
	cfg.TCPDstPortRanges = []config.PortRange{{Lo: 80, Hi: 80}}
	require.NoError(t, cfg.ValidateAndApplyDefaults())

	allowed := &observation.PacketObservation{Protocol: 6, DstPortOrICMPCode: 80}
	denied := &observation.PacketObservation{Protocol: 6, DstPortOrICMPCode: 443}

	assert.Contains(t, classSet(Expand(allowed, cfg, nil)), tag.TCPDstPort)
	assert.NotContains(t, classSet(Expand(denied, cfg, nil)), tag.TCPDstPort)
}

func TestExpand_GeoLiteSkipsRegionAndCouplet(t *testing.T) {
	obs := &observation.PacketObservation{Protocol: 6}
	obs.Geo[tag.Maxmind] = observation.ProviderGeo{Present: true, Country: tagPackCC('U', 'S'), AsnKnown: true, Asn: 15169}
	tags := Expand(obs, baseConfig(), nil)
	classes := classSet(tags)
	assert.Contains(t, classes, tag.GeoCountry.WithProvider(tag.Maxmind))
	assert.NotContains(t, classes, tag.GeoRegion.WithProvider(tag.Maxmind))
	assert.NotContains(t, classes, tag.GeoAsnCouplet.WithProvider(tag.Maxmind))
}

func TestExpand_GeoFullEmitsCoupletWithAssociatedTags(t *testing.T) {
	cfg := baseConfig()
	cfg.GeoMode = config.GeoFull
	obs := &observation.PacketObservation{Protocol: 6}
	obs.Geo[tag.Maxmind] = observation.ProviderGeo{Present: true, Country: tagPackCC('U', 'S'), AsnKnown: true, Asn: 15169}

	tags := Expand(obs, cfg, nil)
	var found *ExpandedTag
	for i := range tags {
		if tags[i].Tag.Class == tag.GeoAsnCouplet.WithProvider(tag.Maxmind) {
			found = &tags[i]
		}
	}
	if assert.NotNil(t, found) {
		assert.Len(t, found.Associated, 2)
	}
}

func TestExpand_GeoAsnCoupletRespectsWhitelist(t *testing.T) {
	cfg := baseConfig()
	cfg.GeoMode = config.GeoFull
	obs := &observation.PacketObservation{Protocol: 6}
	obs.Geo[tag.Maxmind] = observation.ProviderGeo{Present: true, Country: tagPackCC('U', 'S'), AsnKnown: true, Asn: 15169}

	wl := &GeoAsnWhitelist{allowed: map[uint32]struct{}{}} // empty: allows nothing
	tags := Expand(obs, cfg, wl)
	assert.NotContains(t, classSet(tags), tag.GeoAsnCouplet.WithProvider(tag.Maxmind))
}

func classSet(tags []ExpandedTag) map[tag.Class]bool {
	out := make(map[tag.Class]bool)
	for _, et := range tags {
		out[et.Tag.Class] = true
	}
	return out
}

func tagPackCC(a, b byte) uint32 { return tag.PackCC(a, b) }
