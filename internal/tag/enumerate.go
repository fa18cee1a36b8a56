package tag

// allClasses is the canonical, stable ordering of every emittable wire
// Class. Its index (not the Class id itself, which has gaps reserved for
// provider slots) is what config.AllowedMetricClasses bitmask bits refer
// to, so the mask fits comfortably in a uint32 regardless of how much
// headroom the Class id space reserves per provider family.
var allClasses = buildAllClasses()

func buildAllClasses() []Class {
	classes := []Class{
		Combined, IPProtocol, TCPSrcPort, TCPDstPort, UDPSrcPort, UDPDstPort,
		ICMPTypeCode, FilterCriteria,
	}
	for _, base := range []Class{GeoContinent, GeoCountry, GeoRegion, PfxAsn, GeoAsnCouplet} {
		for p := Provider(0); p < ProviderCount; p++ {
			classes = append(classes, base.WithProvider(p))
		}
	}
	return classes
}

// AllClasses returns the canonical ordered list of every wire Class.
func AllClasses() []Class {
	out := make([]Class, len(allClasses))
	copy(out, allClasses)
	return out
}

// Index returns the position of c in the canonical ordering used by
// allow-mask bitmaps, or -1 if c isn't a recognized class.
func Index(c Class) int {
	for i, cc := range allClasses {
		if cc == c {
			return i
		}
	}
	return -1
}
