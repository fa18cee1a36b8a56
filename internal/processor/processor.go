// Package processor implements the Processor worker: it takes tagged
// packet observations from the external tagger, expands them into metric
// tags, batches per-IP updates by destination tracker, and flushes them
// over that tracker's inbox.
package processor

import (
	"strconv"

	"github.com/tevino/abool"
	"go.uber.org/atomic"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/expand"
	"github.com/nettelescope/reportcore/internal/metrics"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/transport"
	"github.com/nettelescope/reportcore/internal/wire"
)

// Processor consumes packet observations and produces per-tracker update
// batches. Observe is driven from the ingest goroutine while
// FlushInterval/Halt are driven from Control's goroutine, so the two
// race on the same batches; each batch guards its own state with a
// mutex rather than Processor serializing the two callers itself. The
// per-tracker send sequence numbers use atomics for the same reason.
type Processor struct {
	id        int
	cfg       *config.Config
	trackers  []*transport.Inbox
	whitelist *expand.GeoAsnWhitelist

	seq     []atomic.Uint32
	batches []*batch

	halted abool.AtomicBool
}

// New creates a processor with id, one inbox per tracker (indexed by
// hash-partition id), and the configured geo×asn whitelist.
func New(id int, cfg *config.Config, trackers []*transport.Inbox, whitelist *expand.GeoAsnWhitelist) *Processor {
	p := &Processor{
		id:        id,
		cfg:       cfg,
		trackers:  trackers,
		whitelist: whitelist,
		seq:       make([]atomic.Uint32, len(trackers)),
		batches:   make([]*batch, len(trackers)),
	}
	for i := range p.batches {
		p.batches[i] = newBatch()
	}
	return p
}

// hashPartition implements the "(ip>>24) mod M" tracker assignment.
func hashPartition(ip uint32, m int) int {
	return int((ip >> 24) % uint32(m))
}

// Observe expands obs into tags and folds the resulting SRC/DST IP
// updates into the relevant tracker batches, flushing any batch that
// crosses the configured threshold.
func (p *Processor) Observe(ts uint32, obs *observation.PacketObservation) {
	expanded := expand.Expand(obs, p.cfg, p.whitelist)
	if len(expanded) == 0 {
		return
	}

	srcIdx := hashPartition(obs.SrcIP, len(p.trackers))
	dstIdx := hashPartition(obs.DstIP, len(p.trackers))

	p.batches[srcIdx].merge(obs.SrcIP, obs.SrcASN, wire.RoleSrc, uint32(obs.IPBytes), 1, expanded)
	p.batches[dstIdx].merge(obs.DstIP, 0, wire.RoleDst, 0, 0, expanded)

	metrics.ProcessorPacketsTotal.WithLabelValues(p.label()).Inc()

	if p.batches[srcIdx].len() >= p.cfg.BatchThreshold {
		p.flush(ts, srcIdx, "threshold")
	}
	if srcIdx != dstIdx && p.batches[dstIdx].len() >= p.cfg.BatchThreshold {
		p.flush(ts, dstIdx, "threshold")
	}
}

// FlushInterval flushes every tracker's non-empty batch and then sends
// every tracker an INTERVAL marker for ts, the per-interval boundary
// signal, so each tracker sees progress even when it had no updates.
func (p *Processor) FlushInterval(ts uint32) {
	for i := range p.trackers {
		if p.batches[i].len() > 0 {
			p.flush(ts, i, "interval")
		}
		p.trackers[i].Send(&wire.Message{
			Header: p.nextHeader(wire.MsgInterval, i, ts),
		})
	}
}

// Halt flushes all pending batches and sends HALT to every tracker.
func (p *Processor) Halt(ts uint32) {
	if p.halted.IsSet() {
		return
	}
	for i := range p.trackers {
		if p.batches[i].len() > 0 {
			p.flush(ts, i, "halt")
		}
		p.trackers[i].Send(&wire.Message{
			Header: p.nextHeader(wire.MsgHalt, i, ts),
		})
	}
	p.halted.Set()
}

func (p *Processor) flush(ts uint32, trackerIdx int, reason string) {
	b := p.batches[trackerIdx]
	msg := &wire.Message{
		Header: p.nextHeader(wire.MsgUpdate, trackerIdx, ts),
		Body:   b.take(),
	}
	p.trackers[trackerIdx].Send(msg)
	metrics.ProcessorBatchesFlushedTotal.WithLabelValues(p.label(), strconv.Itoa(trackerIdx), reason).Inc()
}

func (p *Processor) nextHeader(t wire.MsgType, trackerIdx int, ts uint32) wire.Header {
	seq := p.seq[trackerIdx].Inc() - 1
	return wire.Header{Type: t, Sender: uint8(p.id), Timestamp: ts, Seqno: seq}
}

func (p *Processor) label() string { return strconv.Itoa(p.id) }
