// Package tracker implements the per-tag metric tallies a Tracker worker
// accumulates for one hash-partition slice of IP space.
package tracker

import (
	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/countmode"
	"github.com/nettelescope/reportcore/internal/tag"
	"github.com/nettelescope/reportcore/internal/wire"
)

// MetricTally is the running total for one (class, value) tag within one
// interval. Bytes/packets are charged only from SRC-role updates;
// SrcUnique/DstUnique dedup IPs at most once per interval per
// (ip, tag, role), masked according to the configured counting mode
// (ALL/PREFIXAGG/SAMPLE).
type MetricTally struct {
	Tag            tag.Tag
	Bytes          uint64
	Packets        uint64
	SrcUnique      map[uint32]struct{}
	DstUnique      map[uint32]struct{}
	SrcAsnUnique   map[uint32]struct{}
	AssociatedTags []tag.Ref
}

func newTally(t tag.Tag) *MetricTally {
	return &MetricTally{Tag: t}
}

// Apply folds one IPUpdate's contribution for this tag into the tally.
func (m *MetricTally) Apply(ip uint32, srcASN uint32, bytes uint32, packets uint32, role wire.Role, cfg *config.Config) {
	if role&wire.RoleSrc != 0 {
		m.Bytes += uint64(bytes)
		m.Packets += uint64(packets)
		if m.SrcUnique == nil {
			m.SrcUnique = make(map[uint32]struct{})
		}
		m.SrcUnique[countmode.MaskKey(ip, cfg.SrcIPCounting)] = struct{}{}
		if m.SrcAsnUnique == nil {
			m.SrcAsnUnique = make(map[uint32]struct{})
		}
		m.SrcAsnUnique[srcASN] = struct{}{}
	}
	if role&wire.RoleDst != 0 {
		if m.DstUnique == nil {
			m.DstUnique = make(map[uint32]struct{})
		}
		m.DstUnique[countmode.MaskKey(ip, cfg.DstIPCounting)] = struct{}{}
	}
}

// SrcIPCount returns the number of unique src IPs seen for this tag.
func (m *MetricTally) SrcIPCount() int { return len(m.SrcUnique) }

// DstIPCount returns the number of unique dst IPs seen for this tag.
func (m *MetricTally) DstIPCount() int { return len(m.DstUnique) }

// SrcAsnCount returns the number of unique source ASNs seen for this tag.
// Approximate once summed across trackers: the same ASN can appear on
// multiple trackers via different source IPs.
func (m *MetricTally) SrcAsnCount() int { return len(m.SrcAsnUnique) }
