// Package tag implements the metric-class tag model shared by every stage
// of the Report core: class/value pairs, their 64-bit key encoding, and the
// small set of provider-scoped classes used for geo/ASN tagging.
package tag

// Provider identifies which upstream geolocation/ASN provider produced a
// provider-scoped tag value.
type Provider uint8

const (
	Maxmind Provider = iota
	IP2Location
	Netacuity

	ProviderCount = 3
)

func (p Provider) String() string {
	switch p {
	case Maxmind:
		return "maxmind"
	case IP2Location:
		return "ip2location"
	case Netacuity:
		return "netacuity"
	default:
		return "unknown"
	}
}

// Class enumerates the metric-class dimension of a Tag. Provider-scoped
// base classes (geoContinentBase..geoAsnCoupletBase) are combined with a
// Provider at encode time: Class = base + int(provider), where each base is
// a multiple of 8. The spacing of 8 leaves headroom for a 4th provider
// without renumbering the non-provider classes below it.
type Class uint32

const (
	Combined Class = iota
	IPProtocol
	TCPSrcPort
	TCPDstPort
	UDPSrcPort
	UDPDstPort
	ICMPTypeCode
	FilterCriteria
)

// Provider-scoped base classes. Never used directly as a wire Class; always
// combined with a Provider via WithProvider. Each family reserves a block of
// 8 class ids (only ProviderCount are ever populated), so adding a 4th
// provider later doesn't renumber anything.
const (
	geoContinentBase Class = 8 * (iota + 2)
	geoCountryBase
	geoRegionBase
	pfxAsnBase
	geoAsnCoupletBase
)

// WithProvider returns the concrete, wire-level Class for a provider-scoped
// base class and a provider index.
func (c Class) WithProvider(p Provider) Class {
	return c + Class(p)
}

// Base strips the provider offset, returning which provider-scoped family a
// concrete class belongs to. Returns (0, false) for non-provider-scoped
// classes.
func (c Class) Base() (Class, Provider, bool) {
	switch {
	case c >= geoContinentBase && c < geoContinentBase+ProviderCount:
		return geoContinentBase, Provider(c - geoContinentBase), true
	case c >= geoCountryBase && c < geoCountryBase+ProviderCount:
		return geoCountryBase, Provider(c - geoCountryBase), true
	case c >= geoRegionBase && c < geoRegionBase+ProviderCount:
		return geoRegionBase, Provider(c - geoRegionBase), true
	case c >= pfxAsnBase && c < pfxAsnBase+ProviderCount:
		return pfxAsnBase, Provider(c - pfxAsnBase), true
	case c >= geoAsnCoupletBase && c < geoAsnCoupletBase+ProviderCount:
		return geoAsnCoupletBase, Provider(c - geoAsnCoupletBase), true
	default:
		return 0, 0, false
	}
}

// Provider-scoped class families, exported as the base identifiers callers
// combine with a Provider via WithProvider.
const (
	GeoContinent  = geoContinentBase
	GeoCountry    = geoCountryBase
	GeoRegion     = geoRegionBase
	PfxAsn        = pfxAsnBase
	GeoAsnCouplet = geoAsnCoupletBase
)

var baseNames = map[Class]string{
	Combined:          "combined",
	IPProtocol:        "ip_protocol",
	TCPSrcPort:        "tcp_src_port",
	TCPDstPort:        "tcp_dst_port",
	UDPSrcPort:        "udp_src_port",
	UDPDstPort:        "udp_dst_port",
	ICMPTypeCode:      "icmp_typecode",
	FilterCriteria:    "filter_criteria",
	geoContinentBase:  "geo_continent",
	geoCountryBase:    "geo_country",
	geoRegionBase:     "geo_region",
	pfxAsnBase:        "pfx_to_asn",
	geoAsnCoupletBase: "geo_asn",
}

// String renders a human-readable label, qualifying provider-scoped classes
// with their provider (e.g. "geo_country/maxmind").
func (c Class) String() string {
	if base, p, ok := c.Base(); ok {
		return baseNames[base] + "/" + p.String()
	}
	if name, ok := baseNames[c]; ok {
		return name
	}
	return "unknown_class"
}
