package coord

import (
	"context"
	"errors"
	"testing"

	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/ratings"
)

// recordingRunner captures started requests instead of performing them.
type recordingRunner struct {
	started []panel.Request
}

func (r *recordingRunner) Start(ctx context.Context, req panel.Request) {
	r.started = append(r.started, req)
}

func newTestCoordinator() (*Coordinator, *recordingRunner) {
	r := &recordingRunner{}
	c := NewCoordinator(r, nil)
	n := 0
	c.newID = func() string {
		n++
		return string(rune('a' + n - 1))
	}
	return c, r
}

func TestUnsetBeforeFirstSubmit(t *testing.T) {
	c, r := newTestCoordinator()

	if _, ok := c.Query(); ok {
		t.Error("query should be unset")
	}
	if c.State().Outcome.Status != panel.StatusIdle {
		t.Errorf("expected idle, got %v", c.State().Outcome.Status)
	}
	if len(r.started) != 0 {
		t.Errorf("no fetch should start before a submission, got %d", len(r.started))
	}
}

func TestSubmitStartsOneFetch(t *testing.T) {
	c, r := newTestCoordinator()

	if err := c.Submit(context.Background(), "  black mirror "); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	q, ok := c.Query()
	if !ok || q != "black mirror" {
		t.Errorf("Query() = %q, %v", q, ok)
	}
	if c.State().Outcome.Status != panel.StatusLoading {
		t.Errorf("expected loading, got %v", c.State().Outcome.Status)
	}
	if len(r.started) != 1 {
		t.Fatalf("expected 1 request, got %d", len(r.started))
	}
	req := r.started[0]
	if req.Generation != 1 || req.Query != "black mirror" || req.QueryID != "a" {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestSubmitRejectsBlank(t *testing.T) {
	c, r := newTestCoordinator()

	for _, q := range []string{"", "   ", "\t"} {
		if err := c.Submit(context.Background(), q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyQuery", q, err)
		}
	}
	if _, ok := c.Query(); ok || len(r.started) != 0 {
		t.Error("blank submissions must not change state")
	}
}

func TestResubmitSameQueryRefetches(t *testing.T) {
	c, r := newTestCoordinator()
	ctx := context.Background()

	c.Submit(ctx, "lost")
	c.Apply(panel.ResponseFailed{Generation: 1, Status: panel.StatusNetworkError})
	c.Submit(ctx, "lost")

	if len(r.started) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(r.started))
	}
	if r.started[1].Generation != 2 {
		t.Errorf("expected generation 2, got %d", r.started[1].Generation)
	}
	if c.State().Outcome.Status != panel.StatusLoading {
		t.Errorf("resubmission should return to loading, got %v", c.State().Outcome.Status)
	}
}

func TestApplyDiscardsStale(t *testing.T) {
	ring := otel.NewRingBuffer(32)
	logger := otel.NewNullLogger()
	logger.SetRingBuffer(ring)

	r := &recordingRunner{}
	c := NewCoordinator(r, logger)
	ctx := context.Background()

	c.Submit(ctx, "A")
	c.Submit(ctx, "B")

	b := ratings.Series{Name: "B"}
	a := ratings.Series{Name: "A"}

	if !c.Apply(panel.ResponseSucceeded{Generation: 2, Series: b}) {
		t.Error("B's response should apply")
	}
	if c.Apply(panel.ResponseSucceeded{Generation: 1, Series: a}) {
		t.Error("A's late response should be discarded")
	}
	logger.Close()

	st := c.State()
	if st.Outcome.Status != panel.StatusFound || st.Outcome.Series.Name != "B" {
		t.Errorf("expected B displayed, got %+v", st.Outcome)
	}
	if ring.Stats()[otel.KindFetchStale] != 1 {
		t.Errorf("expected one stale event, got %v", ring.Stats())
	}
	if ring.Stats()[otel.KindQuerySubmit] != 2 {
		t.Errorf("expected two submit events, got %v", ring.Stats())
	}
}

func TestNotFoundKeepsQueryForMessage(t *testing.T) {
	c, _ := newTestCoordinator()
	c.Submit(context.Background(), "black mirror")
	c.Apply(panel.ResponseFailed{Generation: 1, Status: panel.StatusNotFound})

	q, _ := c.Query()
	if c.State().Outcome.Status != panel.StatusNotFound || q != "black mirror" {
		t.Errorf("unexpected state %v for %q", c.State().Outcome.Status, q)
	}
}
