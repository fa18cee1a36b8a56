// Package expand turns one packet observation into the set of tags it
// contributes to. Each metric class has its own self-registering
// Expander, held in a registry ordered by a fixed priority rather than a
// dependency graph — expanders don't depend on each other, only on a
// stable "combined always first" ordering.
package expand

import (
	"sort"
	"sync"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/tag"
)

// ExpandedTag is one tag contribution, plus any cross-reference tags that
// should be attached to the metric tally the first time it is created.
type ExpandedTag struct {
	Tag        tag.Tag
	Associated []tag.Ref
}

// Expander produces zero or more tags for an observation.
type Expander interface {
	// Priority controls expansion order; lower runs first.
	Priority() int
	// Expand appends its tags to dst and returns the grown slice.
	Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag
}

var (
	mu       sync.Mutex
	registry []Expander
)

// Register adds an expander to the global registry. Called from each
// expander file's init().
func Register(e Expander) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, e)
	sort.SliceStable(registry, func(i, j int) bool { return registry[i].Priority() < registry[j].Priority() })
}

// All returns the registered expanders in priority order.
func All() []Expander {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Expander, len(registry))
	copy(out, registry)
	return out
}

// Expand runs every registered expander over obs, in priority order.
func Expand(obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	var out []ExpandedTag
	for _, e := range All() {
		out = e.Expand(out, obs, cfg, wl)
	}
	return out
}
