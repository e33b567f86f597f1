// Package otel is the structured event log for tvratings.
//
// Events are typed structs written as JSONL lines by an async Logger.
// A RingBuffer can be attached for live inspection in the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event, "<subsystem>.<action>".
type EventKind string

const (
	// Query lifecycle
	KindQuerySubmit EventKind = "query.submit"
	KindQueryReject EventKind = "query.reject"

	// Fetch lifecycle
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchNotFound EventKind = "fetch.not_found"
	KindFetchNetwork  EventKind = "fetch.network_error"
	KindFetchDecode   EventKind = "fetch.decode_error"
	KindFetchStale    EventKind = "fetch.stale"

	// Job service
	KindJobSubmit EventKind = "job.submit"
	KindJobError  EventKind = "job.error"

	// Store
	KindStoreError EventKind = "store.error"

	// UI
	KindKeyPress EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace (only when TVRATINGS_TRACE is set)
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is a single log record. Every field except Kind and Time is optional.
type Event struct {
	Time       time.Time      `json:"t"`
	Level      Level          `json:"level,omitempty"`
	Kind       EventKind      `json:"kind"`
	Comp       string         `json:"comp,omitempty"` // "coord", "panel", "ui", "jobs", "main"
	SessionID  string         `json:"session_id,omitempty"`
	QueryID    string         `json:"qid,omitempty"`
	Generation uint64         `json:"gen,omitempty"`
	Dur        time.Duration  `json:"-"`
	DurMs      float64        `json:"dur_ms,omitempty"`
	Count      int            `json:"count,omitempty"`
	Query      string         `json:"query,omitempty"`
	Status     string         `json:"status,omitempty"`
	Err        string         `json:"err,omitempty"`
	Msg        string         `json:"msg,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
