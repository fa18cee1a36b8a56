// Package metrics implements the Report core's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProcessorPacketsTotal counts packets consumed by a Processor worker.
	ProcessorPacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_core_processor_packets_total",
			Help: "Total number of packet observations consumed by a processor",
		},
		[]string{"processor"},
	)

	// ProcessorBatchesFlushedTotal counts per-tracker batch flushes, split
	// by the reason the flush happened.
	ProcessorBatchesFlushedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_core_processor_batches_flushed_total",
			Help: "Total number of per-tracker update batches flushed",
		},
		[]string{"processor", "tracker", "reason"}, // reason: threshold | interval | halt
	)

	// TrackerInboxDepth tracks the current number of queued messages in a
	// tracker's inbox.
	TrackerInboxDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "report_core_tracker_inbox_depth",
			Help: "Current number of queued messages in a tracker's inbox",
		},
		[]string{"tracker"},
	)

	// TrackerSeqGapsTotal counts detected sequence-number gaps per
	// (tracker, processor) pair.
	TrackerSeqGapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_core_tracker_seq_gaps_total",
			Help: "Total number of sequence-number gaps detected on a tracker inbox",
		},
		[]string{"tracker", "processor"},
	)

	// TrackerIntervalLatencySeconds measures wall-clock time from interval
	// boundary to tracker finalization.
	TrackerIntervalLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_core_tracker_interval_latency_seconds",
			Help:    "Latency between an interval boundary and tracker finalization",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"tracker"},
	)

	// MergerRowsEmittedTotal counts ResultRows emitted per interval.
	MergerRowsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_core_merger_rows_emitted_total",
			Help: "Total number of ResultRows emitted by the merger",
		},
		[]string{},
	)

	// MergerIncompleteIntervalsTotal counts intervals the merger suppressed
	// because a contributing tracker finalized them partial (after a
	// processor halt or on tracker shutdown). An interval that a halted
	// tracker never produced is not counted here: it is emitted from the
	// remaining live trackers.
	MergerIncompleteIntervalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_core_merger_incomplete_intervals_total",
			Help: "Total number of intervals suppressed because a tracker finalized them partial",
		},
		[]string{},
	)

	// TrackerIPEntries tracks the number of tag tallies held by the
	// interval slot a tracker last applied an update to.
	TrackerIPEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "report_core_tracker_ip_entries",
			Help: "Current number of tag tallies in the interval slot a tracker last updated",
		},
		[]string{"tracker", "slot"}, // slot: always "curr"
	)
)
