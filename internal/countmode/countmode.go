// Package countmode implements the three IP-counting strategies a tracker
// applies when deciding whether an IP has already been counted for a given
// (tag, role) pair this interval, per the configured IP counting mode.
//
// ALL, PREFIXAGG(b) and SAMPLE(b) are all implemented as the same masked-
// key dedup: the tracker keeps a set of masked keys already seen for a
// (tag, role) this interval, so a masked key adds to the unique count only
// once; bytes/packets are charged on every SRC update regardless. ALL is
// PREFIXAGG(32); SAMPLE and PREFIXAGG yield the same masked key and hence
// the same counts, and no representative IP is recorded for a masked
// group.
package countmode

import "github.com/nettelescope/reportcore/internal/config"

// MaskKey returns the dedup key to use for ip under the given counting
// configuration.
func MaskKey(ip uint32, cfg config.IPCountingConfig) uint32 {
	switch cfg.Method {
	case config.CountAll:
		return ip
	case config.CountPrefixAgg, config.CountSample:
		bits := cfg.PrefixBits
		if bits <= 0 {
			return 0
		}
		if bits >= 32 {
			return ip
		}
		mask := ^uint32(0) << uint(32-bits)
		return ip & mask
	default:
		return ip
	}
}
