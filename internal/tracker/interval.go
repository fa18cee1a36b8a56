package tracker

import "github.com/nettelescope/reportcore/internal/tag"

// intervalSlot accumulates every tag tally reported by any processor for
// one interval timestamp, plus which processors have declared it done.
type intervalSlot struct {
	Timestamp    uint32
	Tallies      map[tag.Key]*MetricTally
	reported     map[uint8]bool
	seqLoss      uint32
}

func newIntervalSlot(ts uint32) *intervalSlot {
	return &intervalSlot{
		Timestamp: ts,
		Tallies:   make(map[tag.Key]*MetricTally),
		reported:  make(map[uint8]bool),
	}
}

func (s *intervalSlot) tallyFor(t tag.Key, make2 func() tag.Tag) *MetricTally {
	m, ok := s.Tallies[t]
	if !ok {
		m = newTally(make2())
		s.Tallies[t] = m
	}
	return m
}

func (s *intervalSlot) markReported(processor uint8) {
	s.reported[processor] = true
}

// allReported reports whether every processor (excluding those that have
// permanently halted) has declared this interval done.
func (s *intervalSlot) allReported(processorCount int, halted map[uint8]bool) bool {
	count := 0
	for p := uint8(0); int(p) < processorCount; p++ {
		if halted[p] {
			continue
		}
		if !s.reported[p] {
			return false
		}
		count++
	}
	return count > 0 || processorCount == len(halted)
}

// FinalizedInterval is a tracker's published, read-only snapshot of one
// fully-reported interval — safe for the merger to read without copying,
// since the tracker never mutates a slot again once finalized.
type FinalizedInterval struct {
	Timestamp uint32
	Tallies   map[tag.Key]*MetricTally
	SeqLoss   uint32
	Partial   bool // true if finalized early due to processor halts
}
