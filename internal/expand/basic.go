package expand

import (
	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/tag"
)

func init() {
	Register(ipProtocolExpander{})
	Register(portExpander{})
	Register(icmpExpander{})
	Register(filterCriteriaExpander{})
}

type ipProtocolExpander struct{}

func (ipProtocolExpander) Priority() int { return 10 }

func (ipProtocolExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if !cfg.ClassAllowed(tag.IPProtocol) {
		return dst
	}
	return append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.IPProtocol, Value: uint32(obs.Protocol)}})
}

// portExpander emits tcp_src_port/tcp_dst_port/udp_src_port/udp_dst_port
// tags, gated by both the global class allow-mask and the per-direction
// port bitmap (an empty bitmap allows every port).
type portExpander struct{}

func (portExpander) Priority() int { return 20 }

func (portExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	switch {
	case obs.IsTCP():
		if cfg.ClassAllowed(tag.TCPSrcPort) && cfg.TCPSrcPorts().Allows(obs.SrcPortOrICMPType) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.TCPSrcPort, Value: uint32(obs.SrcPortOrICMPType)}})
		}
		if cfg.ClassAllowed(tag.TCPDstPort) && cfg.TCPDstPorts().Allows(obs.DstPortOrICMPCode) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.TCPDstPort, Value: uint32(obs.DstPortOrICMPCode)}})
		}
	case obs.IsUDP():
		if cfg.ClassAllowed(tag.UDPSrcPort) && cfg.UDPSrcPorts().Allows(obs.SrcPortOrICMPType) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.UDPSrcPort, Value: uint32(obs.SrcPortOrICMPType)}})
		}
		if cfg.ClassAllowed(tag.UDPDstPort) && cfg.UDPDstPorts().Allows(obs.DstPortOrICMPCode) {
			dst = append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.UDPDstPort, Value: uint32(obs.DstPortOrICMPCode)}})
		}
	}
	return dst
}

type icmpExpander struct{}

func (icmpExpander) Priority() int { return 30 }

func (icmpExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if !obs.IsICMP() || !cfg.ClassAllowed(tag.ICMPTypeCode) {
		return dst
	}
	value := uint32(obs.SrcPortOrICMPType)<<8 | uint32(obs.DstPortOrICMPCode&0xFF)
	return append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.ICMPTypeCode, Value: value}})
}

type filterCriteriaExpander struct{}

func (filterCriteriaExpander) Priority() int { return 90 }

func (filterCriteriaExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if obs.FilterBits == 0 || !cfg.ClassAllowed(tag.FilterCriteria) {
		return dst
	}
	return append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.FilterCriteria, Value: obs.FilterBits}})
}
