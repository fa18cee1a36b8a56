package sink

import (
	"github.com/nettelescope/reportcore/internal/log"
	"github.com/nettelescope/reportcore/internal/resultrow"
)

// Console logs every row at info level — meant for checking the pipeline
// is producing output, not production use.
type Console struct{}

// NewConsole creates a console sink.
func NewConsole() *Console { return &Console{} }

func (c *Console) Emit(rows []resultrow.ResultRow) error {
	for _, r := range rows {
		log.GetLogger().
			WithField("ts", r.Timestamp).
			WithField("class", r.Class.String()).
			WithField("value", r.Value).
			WithField("bytes", r.Bytes).
			WithField("packets", r.Packets).
			WithField("src_ips", r.UniqueSrcIPs).
			WithField("dst_ips", r.UniqueDstIPs).
			WithField("src_asns", r.UniqueSrcASNs).
			Info("result row")
	}
	return nil
}

func (c *Console) Close() error { return nil }
