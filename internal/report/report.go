// Package report assembles the Processor/Tracker/Merger/Control pipeline
// from a loaded Config and runs it to completion. Worker goroutines are
// supervised with sourcegraph/conc so a panic in any of them propagates
// out of Run instead of silently killing one goroutine.
package report

import (
	"context"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/sourcegraph/conc"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/control"
	"github.com/nettelescope/reportcore/internal/expand"
	"github.com/nettelescope/reportcore/internal/log"
	"github.com/nettelescope/reportcore/internal/merger"
	"github.com/nettelescope/reportcore/internal/metrics"
	"github.com/nettelescope/reportcore/internal/observation"
	"github.com/nettelescope/reportcore/internal/processor"
	"github.com/nettelescope/reportcore/internal/sink"
	"github.com/nettelescope/reportcore/internal/tracker"
	"github.com/nettelescope/reportcore/internal/transport"
)

// Report wires together every Processor, Tracker, and the Merger for one
// running instance of the core.
type Report struct {
	RunID string

	cfg        *config.Config
	inboxes    []*transport.Inbox
	trackers   []*tracker.Tracker
	processors []*processor.Processor
	merger     *merger.Merger
	sink       sink.Sink
	control    *control.Control
	metrics    *metrics.Server
}

// New builds a Report from cfg. The geoasn whitelist file, if configured,
// is loaded eagerly so a bad path fails at startup rather than mid-run.
func New(cfg *config.Config) (*Report, error) {
	whitelist, err := expand.LoadGeoAsnWhitelist(cfg.GeoAsnWhitelistFile)
	if err != nil {
		return nil, err
	}

	sk, err := sink.New(cfg.Sink)
	if err != nil {
		return nil, err
	}

	inboxes := make([]*transport.Inbox, cfg.TrackerCount)
	trackers := make([]*tracker.Tracker, cfg.TrackerCount)
	for i := 0; i < cfg.TrackerCount; i++ {
		inboxes[i] = transport.NewInbox(cfg.InternalHWM)
		trackers[i] = tracker.New(i, cfg.ProcessorCount, cfg, inboxes[i])
	}

	processors := make([]*processor.Processor, cfg.ProcessorCount)
	for i := 0; i < cfg.ProcessorCount; i++ {
		processors[i] = processor.New(i, cfg, inboxes, whitelist)
	}

	handles := make([]merger.TrackerHandle, len(trackers))
	for i, t := range trackers {
		handles[i] = t
	}
	mg := merger.New(handles, sk, cfg.OutputRowLabel)

	ctrlProcessors := make([]control.Processor, len(processors))
	for i, p := range processors {
		ctrlProcessors[i] = p
	}
	ctrl := control.New(cfg.IntervalSeconds, 250*time.Millisecond, ctrlProcessors, mg)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
	}

	return &Report{
		RunID:      uuid.NewV4().String(),
		cfg:        cfg,
		inboxes:    inboxes,
		trackers:   trackers,
		processors: processors,
		merger:     mg,
		sink:       sk,
		control:    ctrl,
		metrics:    metricsServer,
	}, nil
}

// Processor returns the processor at index i, wrapping around the pool —
// callers that need sticky assignment (e.g. one ingest connection per
// processor) index by their own connection id.
func (r *Report) Processor(i int) *processor.Processor { return r.processors[i%len(r.processors)] }

// Feed round-robins ingested observations across every processor,
// implementing ingest.Sink.
type Feed struct {
	r    *Report
	next int
}

// NewFeed creates a round-robin feed over r's processor pool.
func (r *Report) NewFeed() *Feed { return &Feed{r: r} }

// Observe implements ingest.Sink. The incoming per-record timestamp is
// floored to the configured interval window so it lands in the same
// slot as the wall-clock INTERVAL markers Control stamps for that
// window, regardless of where within the window the record fell.
func (f *Feed) Observe(ts uint32, obs *observation.PacketObservation) {
	floored := config.FloorToInterval(ts, f.r.cfg.IntervalSeconds)
	f.r.Processor(f.next).Observe(floored, obs)
	f.next++
}

// Run starts every tracker goroutine and the control loop, blocking until
// ctx is canceled and every worker has drained.
func (r *Report) Run(ctx context.Context) error {
	log.GetLogger().WithField("run_id", r.RunID).
		WithField("trackers", r.cfg.TrackerCount).
		WithField("processors", r.cfg.ProcessorCount).
		Info("starting report core")

	if r.metrics != nil {
		if err := r.metrics.Start(ctx); err != nil {
			return err
		}
		defer r.metrics.Stop(context.Background())
	}

	wg := conc.NewWaitGroup()
	for _, t := range r.trackers {
		t := t
		wg.Go(func() { t.Run(ctx) })
	}

	r.control.Run(ctx)
	wg.Wait()

	return r.sink.Close()
}
