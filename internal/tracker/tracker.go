package tracker

import (
	"context"
	"strconv"
	"sync"

	"github.com/tevino/abool"
	"go.uber.org/atomic"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/log"
	"github.com/nettelescope/reportcore/internal/metrics"
	"github.com/nettelescope/reportcore/internal/tag"
	"github.com/nettelescope/reportcore/internal/transport"
	"github.com/nettelescope/reportcore/internal/wire"
)

// Tracker owns the (ip>>24) mod M hash-partition slice assigned to it
// and finalizes one interval only once every live processor has reported
// it done. Outstanding intervals are tracked in a FIFO so a slow
// processor never blocks faster ones from being queued — a generalization
// of a fixed three-slot prev/curr/next rotation, kept because it handles
// an arbitrary number of in-flight stragglers instead of exactly one.
type Tracker struct {
	id             int
	processorCount int
	cfg            *config.Config
	inbox          *transport.Inbox
	seq            *transport.SeqTracker

	pending map[uint32]*intervalSlot
	order   []uint32

	haltedProcessors map[uint8]bool

	lastComplete *FinalizedInterval
	mu           sync.Mutex

	halted  abool.AtomicBool
	seqGaps atomic.Uint64
}

// New creates a tracker for hash-partition id, owning inbox.
func New(id, processorCount int, cfg *config.Config, inbox *transport.Inbox) *Tracker {
	return &Tracker{
		id:               id,
		processorCount:   processorCount,
		cfg:              cfg,
		inbox:            inbox,
		seq:              transport.NewSeqTracker(),
		pending:          make(map[uint32]*intervalSlot),
		haltedProcessors: make(map[uint8]bool),
	}
}

// Run drains the inbox until ctx is canceled or the inbox is closed, then
// force-finalizes whatever is still pending. A HALT message only marks its
// sending processor as halted; it does not end the loop.
func (t *Tracker) Run(ctx context.Context) {
	label := t.label()
	for {
		select {
		case <-ctx.Done():
			t.drainIncomplete()
			return
		case msg, ok := <-t.inbox.Recv():
			if !ok {
				t.drainIncomplete()
				return
			}
			t.inbox.Drained()
			metrics.TrackerInboxDepth.WithLabelValues(label).Set(float64(t.inbox.Depth()))
			t.handle(msg)
			if t.halted.IsSet() {
				return
			}
		}
	}
}

func (t *Tracker) handle(msg *wire.Message) {
	gap := t.seq.Observe(msg.Header.Sender, msg.Header.Seqno)
	if gap {
		t.seqGaps.Inc()
		metrics.TrackerSeqGapsTotal.WithLabelValues(t.label(), senderLabel(msg.Header.Sender)).Inc()
	}

	switch msg.Header.Type {
	case wire.MsgUpdate:
		t.applyUpdate(msg)
	case wire.MsgInterval:
		t.applyIntervalEnd(msg.Header.Timestamp, msg.Header.Sender)
	case wire.MsgHalt:
		t.applyHalt(msg.Header.Sender)
	case wire.MsgReset:
		t.seq.Reset()
	}
}

func (t *Tracker) slotFor(ts uint32) *intervalSlot {
	s, ok := t.pending[ts]
	if ok {
		return s
	}
	s = newIntervalSlot(ts)
	t.pending[ts] = s
	t.order = append(t.order, ts)
	return s
}

func (t *Tracker) applyUpdate(msg *wire.Message) {
	slot := t.slotFor(msg.Header.Timestamp)
	for _, ip := range msg.Body {
		for _, tu := range ip.Tags {
			tg := tag.FromKey(tu.Key)
			tally := slot.tallyFor(tu.Key, func() tag.Tag { return tg })
			tally.Apply(ip.IP, ip.SrcASN, uint32(tu.Bytes), tu.Packets, ip.Role, t.cfg)
			if len(tu.Associated) > 0 && len(tally.AssociatedTags) == 0 {
				tally.AssociatedTags = tu.Associated
			}
		}
	}
	metrics.TrackerIPEntries.WithLabelValues(t.label(), "curr").Set(float64(len(slot.Tallies)))
}

func (t *Tracker) applyIntervalEnd(ts uint32, sender uint8) {
	slot := t.slotFor(ts)
	slot.markReported(sender)
	t.tryFinalizeFront()
}

func (t *Tracker) applyHalt(sender uint8) {
	t.haltedProcessors[sender] = true
	t.tryFinalizeFront()
}

// tryFinalizeFront finalizes outstanding intervals, oldest first, for as
// long as the front of the FIFO has every live processor's report —
// this is what keeps last_complete's timestamp monotonic non-decreasing.
func (t *Tracker) tryFinalizeFront() {
	for len(t.order) > 0 {
		ts := t.order[0]
		slot := t.pending[ts]
		if !slot.allReported(t.processorCount, t.haltedProcessors) {
			return
		}
		t.finalize(slot, len(t.haltedProcessors) > 0)
		delete(t.pending, ts)
		t.order = t.order[1:]
	}
}

func (t *Tracker) finalize(slot *intervalSlot, partial bool) {
	fi := &FinalizedInterval{
		Timestamp: slot.Timestamp,
		Tallies:   slot.Tallies,
		SeqLoss:   uint32(t.seqGaps.Load()),
		Partial:   partial,
	}
	t.mu.Lock()
	if t.lastComplete == nil || fi.Timestamp >= t.lastComplete.Timestamp {
		t.lastComplete = fi
	} else {
		log.GetLogger().WithField("tracker", t.id).WithField("ts", fi.Timestamp).
			Warn("dropping out-of-order finalized interval")
	}
	t.mu.Unlock()
}

// drainIncomplete force-finalizes every still-pending interval as partial,
// then marks the tracker halted — run on shutdown so the merger can
// observe and account for whatever data arrived before the stop.
func (t *Tracker) drainIncomplete() {
	for _, ts := range t.order {
		slot := t.pending[ts]
		t.finalize(slot, true)
	}
	t.pending = make(map[uint32]*intervalSlot)
	t.order = nil
	t.halted.Set()
}

// TryTakeComplete performs a non-blocking poll for a freshly finalized
// interval, consuming it so the merger never double-counts. The merger
// calls this on every tracker each cycle rather than blocking on any one
// of them.
func (t *Tracker) TryTakeComplete() (*FinalizedInterval, bool) {
	if !t.mu.TryLock() {
		return nil, false
	}
	defer t.mu.Unlock()
	fi := t.lastComplete
	t.lastComplete = nil
	return fi, fi != nil
}

// Halted reports whether the tracker has stopped processing.
func (t *Tracker) Halted() bool { return t.halted.IsSet() }

// ID returns the tracker's hash-partition id.
func (t *Tracker) ID() int { return t.id }

func (t *Tracker) label() string { return strconv.Itoa(t.id) }

func senderLabel(sender uint8) string { return strconv.Itoa(int(sender)) }
