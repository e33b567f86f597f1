package panel

import (
	"context"
	"time"

	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/ratings"
)

// eventsChanSize bounds completions waiting for the UI loop.
const eventsChanSize = 16

// Fetcher retrieves a series from the data service.
type Fetcher interface {
	FetchSeries(ctx context.Context, name string) (ratings.Series, error)
}

// Request identifies one fetch attempt.
type Request struct {
	Generation uint64
	Query      string
	QueryID    string // correlation ID for the event log
}

// Runner performs fetches off the UI loop and reports each completion as
// a single Event on Events(). It never retries and never cancels a
// request because a newer one was started.
type Runner struct {
	fetcher Fetcher
	events  chan Event
	logger  *otel.Logger
}

// NewRunner creates a Runner. logger may be nil.
func NewRunner(f Fetcher, logger *otel.Logger) *Runner {
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	return &Runner{
		fetcher: f,
		events:  make(chan Event, eventsChanSize),
		logger:  logger,
	}
}

// Events returns the channel completion events are delivered on.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Start issues the request in the background and returns immediately.
// The completion event is dropped only if ctx ends before it is consumed.
func (r *Runner) Start(ctx context.Context, req Request) {
	go func() {
		ev := r.Run(ctx, req)
		select {
		case r.events <- ev:
		case <-ctx.Done():
		}
	}()
}

// Run performs the request synchronously and returns its completion event.
func (r *Runner) Run(ctx context.Context, req Request) Event {
	start := time.Now()
	r.logger.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindFetchStart,
		Comp:    "panel",
		QueryID: req.QueryID,
		Query:   req.Query,
	})

	series, err := r.fetcher.FetchSeries(ctx, req.Query)
	if err != nil {
		status := Classify(err)
		r.logger.Emit(otel.Event{
			Level:   levelFor(status),
			Kind:    kindFor(status),
			Comp:    "panel",
			QueryID: req.QueryID,
			Query:   req.Query,
			Dur:     time.Since(start),
			Err:     err.Error(),
		})
		return ResponseFailed{Generation: req.Generation, Status: status, Err: err}
	}

	r.logger.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindFetchComplete,
		Comp:    "panel",
		QueryID: req.QueryID,
		Query:   req.Query,
		Dur:     time.Since(start),
		Count:   series.EpisodeCount(),
	})
	return ResponseSucceeded{Generation: req.Generation, Series: series}
}

func kindFor(s Status) otel.EventKind {
	switch s {
	case StatusNotFound:
		return otel.KindFetchNotFound
	case StatusNetworkError:
		return otel.KindFetchNetwork
	default:
		return otel.KindFetchDecode
	}
}

// NotFound is an expected outcome, not an error.
func levelFor(s Status) otel.Level {
	if s == StatusNotFound {
		return otel.LevelInfo
	}
	return otel.LevelError
}
