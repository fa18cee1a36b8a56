package config

// PortBitmap is a 65,536-bit membership set over TCP/UDP port numbers. A
// zero value PortBitmap is empty, not "all" — callers check Empty() to
// implement the "unset means all" fallback explicitly.
type PortBitmap struct {
	words [1024]uint64 // 1024 * 64 = 65536 bits
}

// Set marks a single port as allowed.
func (b *PortBitmap) Set(port uint16) {
	b.words[port/64] |= 1 << (port % 64)
}

// SetRange marks an inclusive [lo, hi] port range as allowed.
func (b *PortBitmap) SetRange(lo, hi uint16) {
	if hi < lo {
		lo, hi = hi, lo
	}
	for p := uint32(lo); p <= uint32(hi); p++ {
		b.Set(uint16(p))
	}
}

// Test reports whether port is allowed.
func (b *PortBitmap) Test(port uint16) bool {
	return b.words[port/64]&(1<<(port%64)) != 0
}

// Empty reports whether no bits are set, meaning "allow all ports".
func (b *PortBitmap) Empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Allows reports whether the given port is in scope for tag emission: an
// empty bitmap allows every port.
func (b *PortBitmap) Allows(port uint16) bool {
	return b.Empty() || b.Test(port)
}

// PortRange is the [lo, hi] config shape accepted from YAML/env, e.g.
// `tcp_dst_port_range: [{lo: 80, hi: 80}, {lo: 8000, hi: 8080}]`.
type PortRange struct {
	Lo uint16 `mapstructure:"lo"`
	Hi uint16 `mapstructure:"hi"`
}

// BuildPortBitmap folds a list of PortRange into a PortBitmap.
func BuildPortBitmap(ranges []PortRange) PortBitmap {
	var b PortBitmap
	for _, r := range ranges {
		b.SetRange(r.Lo, r.Hi)
	}
	return b
}
