// Package control drives interval boundaries: it ticks every processor to
// flush and mark the interval done, and polls the merger for completed
// output.
package control

import (
	"context"
	"time"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/log"
)

// Processor is the subset of processor.Processor control depends on.
type Processor interface {
	FlushInterval(ts uint32)
	Halt(ts uint32)
}

// Merger is the subset of merger.Merger control depends on.
type Merger interface {
	Poll() error
}

// Control is the tick/shutdown driver.
type Control struct {
	intervalSeconds int
	pollInterval    time.Duration
	processors      []Processor
	merger          Merger
}

// New creates a control loop for the given interval length and poll
// cadence (how often the merger is swept for newly finalized intervals).
func New(intervalSeconds int, pollInterval time.Duration, processors []Processor, mg Merger) *Control {
	return &Control{
		intervalSeconds: intervalSeconds,
		pollInterval:    pollInterval,
		processors:      processors,
		merger:          mg,
	}
}

// Run blocks until ctx is canceled, ticking interval boundaries and
// polling the merger. On cancellation it halts every processor so
// trackers and the merger can drain and exit cleanly.
//
// Every timestamp Control stamps is floored through the same
// config.FloorToInterval window ingest uses for UPDATE records, so a
// live run's INTERVAL/HALT markers and its UPDATE batches always key
// into the same tracker slot for a given wall-clock window.
func (c *Control) Run(ctx context.Context) {
	interval := time.NewTicker(time.Duration(c.intervalSeconds) * time.Second)
	defer interval.Stop()
	poll := time.NewTicker(c.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			ts := config.FloorToInterval(uint32(time.Now().Unix()), c.intervalSeconds)
			for _, p := range c.processors {
				p.Halt(ts)
			}
			return
		case now := <-interval.C:
			ts := config.FloorToInterval(uint32(now.Unix()), c.intervalSeconds)
			for _, p := range c.processors {
				p.FlushInterval(ts)
			}
		case <-poll.C:
			if err := c.merger.Poll(); err != nil {
				log.GetLogger().WithError(err).Error("merger poll encountered sink errors")
			}
		}
	}
}
