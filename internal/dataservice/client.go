// Package dataservice talks to the remote ratings data service.
//
// The client performs a single GET per call and reports the outcome as a
// wrapped sentinel error so callers can classify it with errors.Is.
package dataservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/tvratings/internal/ratings"
)

// UserAgent identifies this client to the data service.
const UserAgent = "tvratings/0.3"

// Sentinel errors. Every error returned by FetchSeries wraps exactly one.
var (
	// ErrNotFound means the series has not been processed by the ingestion worker yet.
	ErrNotFound = errors.New("series not found")
	// ErrNetwork means no response was received at all.
	ErrNetwork = errors.New("data service unreachable")
	// ErrDecode means a response arrived but could not be used.
	ErrDecode = errors.New("cannot decode ratings response")
)

// StatusError reports an unexpected HTTP status. It unwraps to ErrDecode.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Unwrap makes StatusError match ErrDecode.
func (e *StatusError) Unwrap() error { return ErrDecode }

// Client retrieves ratings from the data service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for baseURL. A zero timeout means the
// client never gives up on its own; the transport decides.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the data service root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SeriesURL builds the lookup URL for a series name.
func (c *Client) SeriesURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	return c.baseURL + "/tv-series?" + q.Encode()
}

// FetchSeries issues GET /tv-series?name=... and decodes a 200 body.
// 404 wraps ErrNotFound, transport failures wrap ErrNetwork, and any other
// status or an unparsable body wraps ErrDecode.
func (c *Client) FetchSeries(ctx context.Context, name string) (ratings.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SeriesURL(name), nil)
	if err != nil {
		return ratings.Series{}, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return ratings.Series{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ratings.Series{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ratings.Series{}, fmt.Errorf("%q: %w", name, &StatusError{Code: resp.StatusCode})
	}

	series, err := ratings.Decode(resp.Body)
	if err != nil {
		return ratings.Series{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return series, nil
}
