package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nettelescope/reportcore/internal/resultrow"
	"github.com/nettelescope/reportcore/internal/tag"
	"github.com/nettelescope/reportcore/internal/tracker"
)

type fakeTracker struct {
	id      int
	halted  bool
	queued  []*tracker.FinalizedInterval
}

func (f *fakeTracker) ID() int      { return f.id }
func (f *fakeTracker) Halted() bool { return f.halted }
func (f *fakeTracker) TryTakeComplete() (*tracker.FinalizedInterval, bool) {
	if len(f.queued) == 0 {
		return nil, false
	}
	fi := f.queued[0]
	f.queued = f.queued[1:]
	return fi, true
}

type fakeSink struct {
	emitted [][]resultrow.ResultRow
}

func (s *fakeSink) Emit(rows []resultrow.ResultRow) error {
	s.emitted = append(s.emitted, rows)
	return nil
}
func (s *fakeSink) Close() error { return nil }

func tally(class tag.Class, value uint32, bytes uint64, srcIPs ...uint32) *tracker.MetricTally {
	set := make(map[uint32]struct{})
	for _, ip := range srcIPs {
		set[ip] = struct{}{}
	}
	return &tracker.MetricTally{Tag: tag.Tag{Class: class, Value: value}, Bytes: bytes, SrcUnique: set}
}

func tallyWithAsns(class tag.Class, value uint32, bytes uint64, srcIPs []uint32, asns []uint32) *tracker.MetricTally {
	mt := tally(class, value, bytes, srcIPs...)
	asnSet := make(map[uint32]struct{})
	for _, a := range asns {
		asnSet[a] = struct{}{}
	}
	mt.SrcAsnUnique = asnSet
	return mt
}

func TestMerger_WaitsForAllLiveTrackers(t *testing.T) {
	t1 := &fakeTracker{id: 0, queued: []*tracker.FinalizedInterval{
		{Timestamp: 100, Tallies: map[tag.Key]*tracker.MetricTally{
			tag.Tag{Class: tag.Combined}.Key(): tallyWithAsns(tag.Combined, 0, 10, []uint32{1}, []uint32{64512}),
		}},
	}}
	t2 := &fakeTracker{id: 1}

	sk := &fakeSink{}
	m := New([]TrackerHandle{t1, t2}, sk, "test")

	require.NoError(t, m.Poll())
	assert.Empty(t, sk.emitted, "should not emit until tracker 2 also reports ts 100")

	t2.queued = []*tracker.FinalizedInterval{
		{Timestamp: 100, Tallies: map[tag.Key]*tracker.MetricTally{
			tag.Tag{Class: tag.Combined}.Key(): tallyWithAsns(tag.Combined, 0, 5, []uint32{2}, []uint32{64513}),
		}},
	}
	require.NoError(t, m.Poll())
	require.Len(t, sk.emitted, 1)
	rows := sk.emitted[0]
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(15), rows[0].Bytes)
	assert.Equal(t, uint64(2), rows[0].UniqueSrcIPs)
	assert.Equal(t, uint64(2), rows[0].UniqueSrcASNs)
}

func TestMerger_SkipsHaltedTrackersInReadyCheck(t *testing.T) {
	t1 := &fakeTracker{id: 0, queued: []*tracker.FinalizedInterval{
		{Timestamp: 50, Tallies: map[tag.Key]*tracker.MetricTally{
			tag.Tag{Class: tag.Combined}.Key(): tally(tag.Combined, 0, 1, 1),
		}},
	}}
	t2 := &fakeTracker{id: 1, halted: true}

	sk := &fakeSink{}
	m := New([]TrackerHandle{t1, t2}, sk, "test")

	require.NoError(t, m.Poll())
	require.Len(t, sk.emitted, 1)
}

func TestMerger_SuppressesEmissionForPartialInterval(t *testing.T) {
	t1 := &fakeTracker{id: 0, queued: []*tracker.FinalizedInterval{
		{Timestamp: 50, Tallies: map[tag.Key]*tracker.MetricTally{
			tag.Tag{Class: tag.Combined}.Key(): tally(tag.Combined, 0, 1, 1),
		}, Partial: true},
	}}
	t2 := &fakeTracker{id: 1, queued: []*tracker.FinalizedInterval{
		{Timestamp: 50, Tallies: map[tag.Key]*tracker.MetricTally{
			tag.Tag{Class: tag.Combined}.Key(): tally(tag.Combined, 0, 1, 2),
		}},
	}}

	sk := &fakeSink{}
	m := New([]TrackerHandle{t1, t2}, sk, "test")

	require.NoError(t, m.Poll())
	assert.Empty(t, sk.emitted, "an interval finalized partial on any tracker must never reach the sink")
}
