// Package ui provides the Bubble Tea TUI for tvratings.
package ui

import "github.com/abelbrown/tvratings/internal/panel"

// EventArrived carries a fetch completion from the runner into Update.
type EventArrived struct {
	Event panel.Event
}

// HistoryLoaded is sent when recent queries are read from the store.
type HistoryLoaded struct {
	Queries []string
	Err     error
}

// SearchRecorded is sent after a finished search is persisted.
type SearchRecorded struct {
	ID  string
	Err error
}
