package coord

import (
	"context"
	"testing"
	"time"

	"github.com/abelbrown/tvratings/internal/dataservice"
	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/ratings"
)

type stubFetcher struct {
	series ratings.Series
	err    error
}

func (s stubFetcher) FetchSeries(ctx context.Context, name string) (ratings.Series, error) {
	return s.series, s.err
}

func TestSubmitAndWaitFound(t *testing.T) {
	runner := panel.NewRunner(stubFetcher{series: ratings.Series{Name: "Lost"}}, nil)
	c := NewCoordinator(runner, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := c.SubmitAndWait(ctx, "lost", runner.Events())
	if err != nil {
		t.Fatalf("SubmitAndWait failed: %v", err)
	}
	if st.Status != panel.StatusFound || st.Series.Name != "Lost" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestSubmitAndWaitNotFound(t *testing.T) {
	runner := panel.NewRunner(stubFetcher{err: dataservice.ErrNotFound}, nil)
	c := NewCoordinator(runner, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := c.SubmitAndWait(ctx, "nope", runner.Events())
	if err != nil {
		t.Fatalf("SubmitAndWait failed: %v", err)
	}
	if st.Status != panel.StatusNotFound {
		t.Errorf("expected NotFound, got %v", st.Status)
	}
}

func TestSubmitAndWaitEmpty(t *testing.T) {
	c := NewCoordinator(&recordingRunner{}, nil)
	if _, err := c.SubmitAndWait(context.Background(), " ", nil); err != ErrEmptyQuery {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSubmitAndWaitCancelled(t *testing.T) {
	c := NewCoordinator(&recordingRunner{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := c.SubmitAndWait(ctx, "dark", make(chan panel.Event))
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if st.Status != panel.StatusLoading {
		t.Errorf("expected Loading on cancel, got %v", st.Status)
	}
}
