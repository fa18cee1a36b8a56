// Package ingest reads already-tagged packet observations from the
// external tagger and feeds them to the Report core's processors. The
// tagger itself — capture, decode, geo/ASN lookup — is out of scope; this
// package only defines the line-delimited JSON handoff format a tagger
// process would write to, so the CLI has something concrete to run
// against.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nettelescope/reportcore/internal/observation"
)

// Record is the line-delimited JSON shape one tagger line decodes into.
type Record struct {
	Timestamp uint32 `json:"timestamp"`
	observation.PacketObservation
}

// Sink receives one observation with its record timestamp (seconds); the
// sink maps it onto an interval.
type Sink interface {
	Observe(ts uint32, obs *observation.PacketObservation)
}

// ReadLines decodes newline-delimited JSON observation records from r and
// hands each to sink, round-robinning across however many processors
// sink fans out to internally. Returns when r is exhausted or ctx-like
// cancellation isn't needed since this is a synchronous batch reader.
func ReadLines(r io.Reader, sink Sink) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return count, fmt.Errorf("ingest: decode line %d: %w", count+1, err)
		}
		ts := rec.Timestamp
		if ts == 0 {
			ts = uint32(time.Now().Unix())
		}
		sink.Observe(ts, &rec.PacketObservation)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("ingest: scan: %w", err)
	}
	return count, nil
}
