// Package panel implements the result panel's fetch state machine.
//
// The state machine is a pure reducer: Reduce(state, event) returns the
// next state and never performs I/O. Network calls live in Runner, which
// reports completion by sending an Event back through a channel.
//
// Every query submission bumps a generation counter. Completion events
// carry the generation of the request that produced them; an event whose
// generation is not the current one is stale and is ignored, so the most
// recent query always determines what is displayed.
package panel

import (
	"errors"

	"github.com/abelbrown/tvratings/internal/dataservice"
	"github.com/abelbrown/tvratings/internal/ratings"
)

// Status is the fetch outcome variant.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFound
	StatusNotFound
	StatusNetworkError
	StatusDecodeError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusNetworkError:
		return "network_error"
	case StatusDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a fetch attempt.
func (s Status) Terminal() bool {
	return s >= StatusFound
}

// Outcome is the current fetch outcome. Series is set only when Status is
// StatusFound; the constructors below are the only way to build one.
type Outcome struct {
	Status Status
	Series *ratings.Series
}

func idle() Outcome    { return Outcome{Status: StatusIdle} }
func loading() Outcome { return Outcome{Status: StatusLoading} }

func found(s ratings.Series) Outcome {
	return Outcome{Status: StatusFound, Series: &s}
}

func failed(status Status) Outcome {
	if !status.Terminal() || status == StatusFound {
		status = StatusDecodeError
	}
	return Outcome{Status: status}
}

// State is the fetch controller state for the active query. Outcome is
// embedded so st.Status and st.Series read directly.
type State struct {
	Generation uint64
	Query      string
	Outcome
}

// NewState returns the initial Idle state.
func NewState() State {
	return State{Outcome: idle()}
}

// Event is an input to Reduce.
type Event interface {
	generation() uint64
}

// QuerySubmitted starts a new fetch attempt.
type QuerySubmitted struct {
	Generation uint64
	Query      string
}

// ResponseSucceeded carries a decoded 200 response.
type ResponseSucceeded struct {
	Generation uint64
	Series     ratings.Series
}

// ResponseFailed carries a classified failure.
type ResponseFailed struct {
	Generation uint64
	Status     Status
	Err        error
}

func (e QuerySubmitted) generation() uint64    { return e.Generation }
func (e ResponseSucceeded) generation() uint64 { return e.Generation }
func (e ResponseFailed) generation() uint64    { return e.Generation }

// Reduce applies ev to s and returns the next state.
//
// QuerySubmitted always moves to Loading and drops any previous payload.
// Completion events apply only when their generation matches s and s is
// still Loading; anything else returns s unchanged.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case QuerySubmitted:
		return State{Generation: ev.Generation, Query: ev.Query, Outcome: loading()}

	case ResponseSucceeded:
		if !s.accepts(ev) {
			return s
		}
		s.Outcome = found(ev.Series)
		return s

	case ResponseFailed:
		if !s.accepts(ev) {
			return s
		}
		s.Outcome = failed(ev.Status)
		return s
	}
	return s
}

// Stale reports whether a completion event would be discarded by s.
func (s State) Stale(ev Event) bool {
	if _, ok := ev.(QuerySubmitted); ok {
		return false
	}
	return !s.accepts(ev)
}

func (s State) accepts(ev Event) bool {
	return ev.generation() == s.Generation && s.Outcome.Status == StatusLoading
}

// Classify maps a data service error to a terminal failure status.
func Classify(err error) Status {
	switch {
	case errors.Is(err, dataservice.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, dataservice.ErrNetwork):
		return StatusNetworkError
	default:
		return StatusDecodeError
	}
}
