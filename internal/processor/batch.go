package processor

import (
	"sync"

	"github.com/nettelescope/reportcore/internal/expand"
	"github.com/nettelescope/reportcore/internal/wire"
)

// batch accumulates IPUpdates for one tracker between flushes, merging
// repeat observations of the same (ip, role) within the batch window so a
// tag's Bytes/Packets are a true running sum rather than one entry per
// packet.
//
// merge is called from whichever goroutine calls Processor.Observe
// (the ingest goroutine), while take is called from Control's goroutine
// via Processor.flush/FlushInterval/Halt. mu guards entries/index against
// that concurrent access.
type batch struct {
	mu      sync.Mutex
	entries []wire.IPUpdate
	index   map[uint64]int // (ip<<8 | role) -> index into entries
}

func newBatch() *batch {
	return &batch{index: make(map[uint64]int)}
}

func ipRoleKey(ip uint32, role wire.Role) uint64 {
	return uint64(ip)<<8 | uint64(role)
}

// merge folds one packet's contribution to ip (with the given role) into
// the batch, creating or updating the IPUpdate entry and its per-tag
// TagUpdates.
func (b *batch) merge(ip uint32, srcASN uint32, role wire.Role, bytes, packets uint32, tags []expand.ExpandedTag) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := ipRoleKey(ip, role)
	idx, ok := b.index[key]
	if !ok {
		idx = len(b.entries)
		b.entries = append(b.entries, wire.IPUpdate{IP: ip, SrcASN: srcASN, Role: role})
		b.index[key] = idx
	}
	entry := &b.entries[idx]
	entry.Bytes += bytes
	entry.Packets += packets

	for _, et := range tags {
		found := false
		for i := range entry.Tags {
			if entry.Tags[i].Key == et.Tag.Key() {
				entry.Tags[i].Bytes += uint64(bytes)
				entry.Tags[i].Packets += packets
				found = true
				break
			}
		}
		if !found {
			entry.Tags = append(entry.Tags, wire.TagUpdate{
				Key:        et.Tag.Key(),
				Bytes:      uint64(bytes),
				Packets:    packets,
				Associated: et.Associated,
			})
		}
	}
}

func (b *batch) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// take returns and clears the batch's accumulated entries.
func (b *batch) take() []wire.IPUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.entries
	b.entries = nil
	b.index = make(map[uint64]int)
	return out
}
