package expand

import (
	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/tag"
)

func init() {
	Register(geoExpander{})
	Register(pfxAsnExpander{})
	Register(geoAsnCoupletExpander{})
}

// geoExpander emits geo_continent/geo_country/geo_region tags for every
// provider present on the observation. Region is skipped in GeoLite mode.
type geoExpander struct{}

func (geoExpander) Priority() int { return 40 }

func (geoExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	for i := 0; i < tag.ProviderCount; i++ {
		g := obs.Geo[i]
		if !g.Present {
			continue
		}
		p := tag.Provider(i)

		if cls := tag.GeoContinent.WithProvider(p); cfg.ClassAllowed(cls) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: cls, Value: g.Continent}})
		}
		if cls := tag.GeoCountry.WithProvider(p); cfg.ClassAllowed(cls) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: cls, Value: g.Country}})
		}
		if cfg.GeoMode != config.GeoFull {
			continue
		}
		if cls := tag.GeoRegion.WithProvider(p); cfg.ClassAllowed(cls) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: cls, Value: g.Region}})
		}
	}
	return dst
}

// pfxAsnExpander emits pfx_to_asn tags mapping the source prefix's
// announced ASN, per provider. FULL geo mode only.
type pfxAsnExpander struct{}

func (pfxAsnExpander) Priority() int { return 50 }

func (pfxAsnExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if cfg.GeoMode != config.GeoFull {
		return dst
	}
	for i := 0; i < tag.ProviderCount; i++ {
		g := obs.Geo[i]
		if !g.Present || !g.AsnKnown {
			continue
		}
		p := tag.Provider(i)
		if cls := tag.PfxAsn.WithProvider(p); cfg.ClassAllowed(cls) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: cls, Value: g.Asn}})
		}
	}
	return dst
}

// geoAsnCoupletExpander emits geo_asn tags pairing a provider's country
// with its ASN, subject to the geoasn whitelist. The couplet tally's
// AssociatedTags record the underlying country and ASN so a consumer can
// de-aggregate without re-deriving them from the packed value.
type geoAsnCoupletExpander struct{}

func (geoAsnCoupletExpander) Priority() int { return 60 }

func (geoAsnCoupletExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if cfg.GeoMode != config.GeoFull {
		return dst
	}
	for i := 0; i < tag.ProviderCount; i++ {
		g := obs.Geo[i]
		if !g.Present || !g.AsnKnown {
			continue
		}
		if !wl.Allows(g.Country, g.Asn) {
			continue
		}
		p := tag.Provider(i)
		cls := tag.GeoAsnCouplet.WithProvider(p)
		if !cfg.ClassAllowed(cls) {
			continue
		}
		dst = append(dst, ExpandedTag{
			Tag: tag.Tag{Class: cls, Value: tag.PackGeoAsn(g.Country, g.Asn)},
			Associated: []tag.Ref{
				{Class: tag.GeoCountry.WithProvider(p), Value: g.Country},
				{Class: tag.PfxAsn.WithProvider(p), Value: g.Asn},
			},
		})
	}
	return dst
}
