package dataservice

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blackMirror = `{"name":"Black Mirror","ratings":[
	{"_id":1,"ratings":[{"_id":1,"rating":8},{"_id":2,"rating":7}]},
	{"_id":2,"ratings":[{"_id":1,"rating":9}]}
]}`

func TestFetchSeriesOK(t *testing.T) {
	var gotPath, gotName, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(blackMirror))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", 0)
	s, err := c.FetchSeries(context.Background(), "black mirror")
	require.NoError(t, err)

	assert.Equal(t, "/tv-series", gotPath)
	assert.Equal(t, "black mirror", gotName)
	assert.Equal(t, UserAgent, gotAgent)
	assert.Equal(t, "Black Mirror", s.Name)
	require.Len(t, s.Seasons, 2)
	assert.Equal(t, 3, s.EpisodeCount())
}

func TestFetchSeriesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"TVSeries not found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).FetchSeries(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestFetchSeriesUnexpectedStatus(t *testing.T) {
	for _, code := range []int{http.StatusInternalServerError, http.StatusBadRequest, http.StatusAccepted} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := NewClient(server.URL, 0).FetchSeries(context.Background(), "x")
		server.Close()

		assert.ErrorIs(t, err, ErrDecode, "status %d", code)
		var se *StatusError
		if assert.True(t, errors.As(err, &se), "status %d", code) {
			assert.Equal(t, code, se.Code)
		}
	}
}

func TestFetchSeriesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": 42}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).FetchSeries(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFetchSeriesTrailingGarbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"X","ratings":[]}<html>oops</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).FetchSeries(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchSeriesNetworkError(t *testing.T) {
	// Grab a free port, then close the listener so nothing answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewClient("http://"+addr, 0).FetchSeries(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchSeriesTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, 50*time.Millisecond).FetchSeries(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestSeriesURLEscapesName(t *testing.T) {
	c := NewClient("http://localhost:8001", 0)
	assert.Equal(t, "http://localhost:8001/tv-series?name=law+%26+order", c.SeriesURL("law & order"))
}
