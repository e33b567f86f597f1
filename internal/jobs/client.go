package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// MaxRetries is how many extra attempts Schedule makes after a rejection.
const MaxRetries = 3

var (
	// ErrNotScheduled means every attempt was answered with something other than 202.
	ErrNotScheduled = errors.New("jobs: job not scheduled")
	// ErrJobNotFound is returned by Get for unknown IDs.
	ErrJobNotFound = errors.New("jobs: job not found")
)

// Client submits and queries extraction jobs.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
}

// NewClient creates a client for the job service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		backoffs: []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second},
	}
}

// Schedule asks the service to extract ratings for name. A 202 means the
// job was accepted; anything else is retried up to MaxRetries times.
func (c *Client) Schedule(ctx context.Context, name string) (Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Job{}, fmt.Errorf("jobs: empty series name")
	}
	endpoint := c.baseURL + "/jobs?" + url.Values{"name": {name}}.Encode()

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt-1); err != nil {
				return Job{}, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return Job{}, fmt.Errorf("jobs: rate limiter wait failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
		if err != nil {
			return Job{}, fmt.Errorf("jobs: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return Job{}, fmt.Errorf("jobs: request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("jobs: request failed: %w", err)
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("jobs: read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusAccepted {
			lastErr = fmt.Errorf("%w: HTTP %d", ErrNotScheduled, resp.StatusCode)
			continue
		}

		var w wireJob
		if err := json.Unmarshal(body, &w); err != nil {
			// accepted but unreadable: the job exists, report what we asked for
			return Job{Name: name, Status: NotProcessed}, nil
		}
		job, err := w.job()
		if err != nil {
			return Job{}, err
		}
		return job, nil
	}

	if !errors.Is(lastErr, ErrNotScheduled) {
		lastErr = fmt.Errorf("%w: %w", ErrNotScheduled, lastErr)
	}
	return Job{}, lastErr
}

// Get fetches a job by ID.
func (c *Client) Get(ctx context.Context, id int) (Job, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Job{}, fmt.Errorf("jobs: rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+strconv.Itoa(id), nil)
	if err != nil {
		return Job{}, fmt.Errorf("jobs: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Job{}, fmt.Errorf("jobs: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Job{}, fmt.Errorf("job %d: %w", id, ErrJobNotFound)
	default:
		return Job{}, fmt.Errorf("jobs: HTTP %d", resp.StatusCode)
	}

	var w wireJob
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return Job{}, fmt.Errorf("jobs: decode job: %w", err)
	}
	return w.job()
}

func (c *Client) sleep(ctx context.Context, i int) error {
	if i >= len(c.backoffs) {
		i = len(c.backoffs) - 1
	}
	if i < 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("jobs: request cancelled during retry: %w", ctx.Err())
	case <-time.After(c.backoffs[i]):
		return nil
	}
}
