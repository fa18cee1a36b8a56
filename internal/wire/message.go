// Package wire defines the Processor→Tracker message shapes. Messages are
// plain Go structs passed over channels rather than a packed byte format:
// the header/body layout described here is host-endian and exists to
// describe field shape and ordering, not an actual cross-process byte
// encoding. Encode/Decode (codec.go) still provide a real round-trip for
// the same-process case.
package wire

import "github.com/nettelescope/reportcore/internal/tag"

// MsgType is the message discriminator.
type MsgType uint8

const (
	MsgUpdate MsgType = iota
	MsgInterval
	MsgHalt
	MsgReset
)

func (t MsgType) String() string {
	switch t {
	case MsgUpdate:
		return "UPDATE"
	case MsgInterval:
		return "INTERVAL"
	case MsgHalt:
		return "HALT"
	case MsgReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// Role is the per-IP-entry role bitmask.
type Role uint8

const (
	RoleSrc Role = 1
	RoleDst Role = 2
)

// TagUpdate is one tag contribution attached to an IPUpdate.
type TagUpdate struct {
	Key     tag.Key
	Bytes   uint64
	Packets uint32
	// Associated records cross-references into other classes, set only
	// when this tag is a couplet (geo×asn); copied into MetricTally at
	// first-creation time.
	Associated []tag.Ref
}

// IPUpdate is one per-IP header plus its tag list.
type IPUpdate struct {
	IP      uint32
	SrcASN  uint32
	Role    Role
	Bytes   uint32
	Packets uint32
	Tags    []TagUpdate
}

// Header carries message framing metadata.
type Header struct {
	Type      MsgType
	Sender    uint8 // processor id
	Timestamp uint32 // interval timestamp; keys the tracker slot for UPDATE, INTERVAL and HALT
	Seqno     uint32 // monotonic per (processor, tracker) pair
}

// Message is a complete Processor→Tracker wire message.
type Message struct {
	Header Header
	Body   []IPUpdate // populated for MsgUpdate only
}
