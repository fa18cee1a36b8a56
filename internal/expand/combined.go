package expand

import (
	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/tag"
)

func init() { Register(combinedExpander{}) }

// combinedExpander always emits the single "combined" tag (value 0) that
// totals every observation regardless of any other classification.
type combinedExpander struct{}

func (combinedExpander) Priority() int { return 0 }

func (combinedExpander) Expand(dst []ExpandedTag, obs *observation.PacketObservation, cfg *config.Config, wl *GeoAsnWhitelist) []ExpandedTag {
	if !cfg.ClassAllowed(tag.Combined) {
		return dst
	}
	return append(dst, ExpandedTag{Tag: tag.Tag{Class: tag.Combined, Value: 0}})
}
