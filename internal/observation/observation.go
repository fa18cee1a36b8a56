// Package observation defines the PacketObservation handed to the Report
// core by the external tagger. Capture, decode, and geo/ASN lookup are all
// performed upstream and out of scope here.
package observation

// ProviderGeo carries one provider's geo/ASN lookup result for a packet.
// Present is false when that provider had no data for this packet, in
// which case only the basic+combined tags are emitted for it.
type ProviderGeo struct {
	Present   bool
	Continent uint32 // packed 2-letter code, tag.PackCC
	Country   uint32 // packed 2-letter code, tag.PackCC
	Region    uint32 // packed 2-letter code or numeric region id
	Asn       uint32
	AsnKnown  bool
}

// PacketObservation is the in-memory handoff from the external tagger to
// the Processor.
type PacketObservation struct {
	SrcIP  uint32
	DstIP  uint32
	SrcASN uint32

	IPBytes  uint16
	Protocol uint8 // IANA protocol number

	// Valid when Protocol is TCP/UDP: src/dst port. Valid when Protocol is
	// ICMP: SrcPortOrICMPType holds the ICMP type, DstPortOrICMPCode the code.
	SrcPortOrICMPType uint16
	DstPortOrICMPCode uint16

	// ProviderMask has bit i set when Geo[i].Present carries real data;
	// kept alongside Geo for cheap "any provider present" checks without
	// scanning the array.
	ProviderMask uint32
	Geo          [3]ProviderGeo // indexed by tag.Provider

	FilterBits uint32
}

// IsTCP reports whether Protocol is TCP (6).
func (p *PacketObservation) IsTCP() bool { return p.Protocol == 6 }

// IsUDP reports whether Protocol is UDP (17).
func (p *PacketObservation) IsUDP() bool { return p.Protocol == 17 }

// IsICMP reports whether Protocol is ICMP (1).
func (p *PacketObservation) IsICMP() bool { return p.Protocol == 1 }
