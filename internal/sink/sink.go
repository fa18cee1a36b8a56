// Package sink implements the ResultRow output stage — where finalized
// interval metrics leave the Report core. A small Sink interface selected
// by config.SinkConfig rather than a dynamically loaded plugin, since
// Report core has exactly two output shapes.
package sink

import "github.com/nettelescope/reportcore/internal/resultrow"

// Sink emits a batch of finalized ResultRows.
type Sink interface {
	Emit(rows []resultrow.ResultRow) error
	Close() error
}
