// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"sync"
	"time"

	"github.com/osmx/osmx/internal/log"
)

// EventType is a job lifecycle step.
type EventType int

const (
	Started EventType = iota
	Fetched
	Uploaded
	Skipped
	Failed
)

func (t EventType) String() string {
	switch t {
	case Started:
		return "started"
	case Fetched:
		return "fetched"
	case Uploaded:
		return "uploaded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Done reports whether t ends a job.
func (t EventType) Done() bool {
	return t == Uploaded || t == Skipped || t == Failed
}

// Event is one progress notification. Index is the job's position in the
// input.
type Event struct {
	Index    int
	Job      Job
	Type     EventType
	Features int
	Key      string
	Bytes    int
	Err      error
	Time     time.Time
}

// Reporter receives events. Report may be called from several goroutines.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

// LogReporter writes events to the log.
type LogReporter struct{}

func (LogReporter) Report(e Event) {
	switch e.Type {
	case Started:
		log.Infof("extracting %s: key=%s values=%v", e.Job.Place, e.Job.Key, e.Job.Values)
	case Fetched:
		log.Infof("fetched %s: features=%d", e.Job.Place, e.Features)
	case Uploaded:
		log.Infof("stored %s: key=%s bytes=%d", e.Job.Place, e.Key, e.Bytes)
	case Skipped:
		log.Infof("skipped %s: %s already exists", e.Job.Place, e.Key)
	case Failed:
		log.WithError(e.Err).Errorf("failed %s", e.Job.Place)
	}
}

// Recorder keeps every event. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
