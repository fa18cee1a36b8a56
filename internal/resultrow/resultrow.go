// Package resultrow defines the Merger's output row shape,
// kept in its own package so both the merger and every sink implementation
// can depend on it without a cycle through the report wiring package.
package resultrow

import "github.com/nettelescope/reportcore/internal/tag"

// ResultRow is one finalized (interval, tag) metric total.
type ResultRow struct {
	Timestamp uint32
	Label     string // config OutputRowLabel, identifies the producing deployment

	Class tag.Class
	Value uint32

	Bytes         uint64
	Packets       uint64
	UniqueSrcIPs  uint64
	UniqueDstIPs  uint64
	// UniqueSrcASNs is approximate once summed across trackers: the same
	// ASN can surface via source IPs partitioned to different trackers
	// a deliberate, documented limitation.
	UniqueSrcASNs uint64

	AssociatedTags []tag.Ref

	// SeqLoss is the largest cumulative sequence-number gap count (counted
	// since tracker start, not reset per interval) among the trackers that
	// contributed to this row — a data-quality hint, not a hard error. An interval where any tracker finalized early due
	// to a processor halt is suppressed by the Merger entirely rather
	// than emitted with an undercount, so no row reaching this type is
	// ever partial.
	SeqLoss uint32
}
