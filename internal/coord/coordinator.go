// Package coord holds the active query and forwards every submission to
// the fetch state machine.
//
// A Coordinator is not safe for concurrent use. It is owned by the UI
// loop: Submit and Apply are only called from bubbletea's Update.
package coord

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/panel"
)

// ErrEmptyQuery is returned by Submit for blank input.
var ErrEmptyQuery = errors.New("query is empty")

// starter is the part of panel.Runner the coordinator needs.
type starter interface {
	Start(ctx context.Context, req panel.Request)
}

// Coordinator tracks the single active query and its fetch state.
type Coordinator struct {
	runner starter
	logger *otel.Logger
	newID  func() string

	query    string
	hasQuery bool
	queryID  string
	gen      uint64
	state    panel.State
}

// NewCoordinator creates a Coordinator with no query submitted yet.
// logger may be nil.
func NewCoordinator(r starter, logger *otel.Logger) *Coordinator {
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	return &Coordinator{
		runner: r,
		logger: logger,
		newID:  uuid.NewString,
		state:  panel.NewState(),
	}
}

// Submit makes q the active query and starts exactly one fetch for it,
// even when q equals the current query.
func (c *Coordinator) Submit(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		c.logger.Warn(otel.KindQueryReject, "coord", "empty query")
		return ErrEmptyQuery
	}

	c.gen++
	c.query = q
	c.hasQuery = true
	c.queryID = c.newID()
	c.state = panel.Reduce(c.state, panel.QuerySubmitted{Generation: c.gen, Query: q})

	c.logger.Emit(otel.Event{
		Level:      otel.LevelInfo,
		Kind:       otel.KindQuerySubmit,
		Comp:       "coord",
		QueryID:    c.queryID,
		Generation: c.gen,
		Query:      q,
	})

	c.runner.Start(ctx, panel.Request{Generation: c.gen, Query: q, QueryID: c.queryID})
	return nil
}

// Apply feeds a completion event into the state machine. It returns false
// when the event answered a superseded query and was discarded.
func (c *Coordinator) Apply(ev panel.Event) bool {
	if c.state.Stale(ev) {
		c.logger.Emit(otel.Event{
			Level:      otel.LevelDebug,
			Kind:       otel.KindFetchStale,
			Comp:       "coord",
			QueryID:    c.queryID,
			Generation: c.gen,
			Query:      c.query,
		})
		return false
	}
	c.state = panel.Reduce(c.state, ev)
	return true
}

// Query returns the active query and whether one was ever submitted.
func (c *Coordinator) Query() (string, bool) {
	return c.query, c.hasQuery
}

// QueryID returns the correlation ID of the active query.
func (c *Coordinator) QueryID() string {
	return c.queryID
}

// State returns the current fetch state.
func (c *Coordinator) State() panel.State {
	return c.state
}

// SubmitAndWait submits q and applies completions from events until the
// query reaches a terminal state. It is for callers without a UI loop.
func (c *Coordinator) SubmitAndWait(ctx context.Context, q string, events <-chan panel.Event) (panel.State, error) {
	if err := c.Submit(ctx, q); err != nil {
		return c.state, err
	}
	for !c.state.Status.Terminal() {
		select {
		case ev, ok := <-events:
			if !ok {
				return c.state, errors.New("event channel closed")
			}
			c.Apply(ev)
		case <-ctx.Done():
			return c.state, ctx.Err()
		}
	}
	return c.state, nil
}
