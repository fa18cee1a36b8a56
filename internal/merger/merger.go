// Package merger implements the Merger: it polls every tracker for freshly
// finalized intervals, sums their per-tag tallies into ResultRows, and
// hands completed intervals to the configured sink.
package merger

import (
	"go.uber.org/multierr"

	"github.com/nettelescope/reportcore/internal/log"
	"github.com/nettelescope/reportcore/internal/metrics"
	"github.com/nettelescope/reportcore/internal/resultrow"
	"github.com/nettelescope/reportcore/internal/sink"
	"github.com/nettelescope/reportcore/internal/tag"
	"github.com/nettelescope/reportcore/internal/tracker"
)

// TrackerHandle is the subset of *tracker.Tracker the merger depends on,
// narrowed for testability.
type TrackerHandle interface {
	ID() int
	Halted() bool
	TryTakeComplete() (*tracker.FinalizedInterval, bool)
}

// Merger combines per-tracker finalized intervals into ResultRows.
type Merger struct {
	trackers    []TrackerHandle
	sink        sink.Sink
	outputLabel string

	pending map[uint32]map[int]*tracker.FinalizedInterval
}

// New creates a merger over the given trackers.
func New(trackers []TrackerHandle, sk sink.Sink, outputLabel string) *Merger {
	return &Merger{
		trackers:    trackers,
		sink:        sk,
		outputLabel: outputLabel,
		pending:     make(map[uint32]map[int]*tracker.FinalizedInterval),
	}
}

// Poll performs one non-blocking sweep over every tracker, recording any
// newly finalized interval, then emits whichever intervals have now been
// reported by every live tracker.
func (m *Merger) Poll() error {
	for _, t := range m.trackers {
		fi, ok := t.TryTakeComplete()
		if !ok {
			continue
		}
		m.record(t.ID(), fi)
	}
	return m.emitReady()
}

func (m *Merger) record(trackerID int, fi *tracker.FinalizedInterval) {
	byTracker, ok := m.pending[fi.Timestamp]
	if !ok {
		byTracker = make(map[int]*tracker.FinalizedInterval)
		m.pending[fi.Timestamp] = byTracker
	}
	byTracker[trackerID] = fi
}

func (m *Merger) liveTrackerCount() int {
	n := 0
	for _, t := range m.trackers {
		if !t.Halted() {
			n++
		}
	}
	return n
}

func (m *Merger) emitReady() error {
	var errs error
	needed := m.liveTrackerCount()
	for ts, byTracker := range m.pending {
		if len(byTracker) < needed {
			continue
		}
		if anyPartial(byTracker) {
			log.GetLogger().WithField("ts", ts).
				Warn("interval incomplete due to a tracker halt, suppressing emission")
			metrics.MergerIncompleteIntervalsTotal.WithLabelValues().Inc()
			delete(m.pending, ts)
			continue
		}
		rows := m.combine(ts, byTracker)
		if err := m.sink.Emit(rows); err != nil {
			errs = multierr.Append(errs, err)
			log.GetLogger().WithField("ts", ts).WithError(err).Error("failed to emit result rows")
		}
		metrics.MergerRowsEmittedTotal.WithLabelValues().Add(float64(len(rows)))
		delete(m.pending, ts)
	}
	return errs
}

// anyPartial reports whether any contributing tracker finalized ts early
// due to a processor halt. A Merger must never publish under-counted
// data, so such an interval is dropped rather than emitted.
func anyPartial(byTracker map[int]*tracker.FinalizedInterval) bool {
	for _, fi := range byTracker {
		if fi.Partial {
			return true
		}
	}
	return false
}

type aggregate struct {
	tag        tag.Tag
	associated []tag.Ref
	bytes      uint64
	packets    uint64
	srcIPs     uint64
	dstIPs     uint64
	srcAsns    uint64
	seqLoss    uint32
}

// combine sums every tracker's tally for ts into ResultRows. Each tracker
// owns a disjoint slice of IP space, so unique IP counts can simply be
// added rather than re-deduplicated across trackers. Callers must only
// invoke combine once anyPartial(byTracker) is false.
func (m *Merger) combine(ts uint32, byTracker map[int]*tracker.FinalizedInterval) []resultrow.ResultRow {
	totals := make(map[tag.Key]*aggregate)

	for _, fi := range byTracker {
		for key, mt := range fi.Tallies {
			agg, ok := totals[key]
			if !ok {
				agg = &aggregate{tag: mt.Tag, associated: mt.AssociatedTags}
				totals[key] = agg
			}
			agg.bytes += mt.Bytes
			agg.packets += mt.Packets
			agg.srcIPs += uint64(mt.SrcIPCount())
			agg.dstIPs += uint64(mt.DstIPCount())
			agg.srcAsns += uint64(mt.SrcAsnCount())
			if fi.SeqLoss > agg.seqLoss {
				agg.seqLoss = fi.SeqLoss
			}
		}
	}

	rows := make([]resultrow.ResultRow, 0, len(totals))
	for _, agg := range totals {
		rows = append(rows, resultrow.ResultRow{
			Timestamp:      ts,
			Label:          m.outputLabel,
			Class:          agg.tag.Class,
			Value:          agg.tag.Value,
			Bytes:          agg.bytes,
			Packets:        agg.packets,
			UniqueSrcIPs:   agg.srcIPs,
			UniqueDstIPs:   agg.dstIPs,
			UniqueSrcASNs:  agg.srcAsns,
			AssociatedTags: agg.associated,
			SeqLoss:        agg.seqLoss,
		})
	}
	return rows
}
