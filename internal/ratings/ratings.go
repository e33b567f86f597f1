// Package ratings holds the per-episode ratings model returned by the
// data service and flattens it into chart-ready series.
package ratings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultAxisMin is the chart floor used when there are no values to plot.
const DefaultAxisMin = 0.0

// AxisFloor caps the chart minimum so consistently high-rated series
// still start at 5.
const AxisFloor = 5.0

// AxisMax is the fixed chart ceiling.
const AxisMax = 10.0

// Series is a TV series and its ratings, seasons in the order received.
type Series struct {
	Name    string
	Seasons []Season
}

// Season groups the episode ratings of one season.
type Season struct {
	ID       int
	Episodes []Episode
}

// Episode is the rating of a single episode.
type Episode struct {
	ID     int
	Rating float64
}

// EpisodeCount returns the total number of episodes across all seasons.
func (s Series) EpisodeCount() int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}

// ErrMalformed is returned when a payload does not have the expected shape.
var ErrMalformed = errors.New("malformed ratings payload")

// Wire format. Pointers distinguish an absent field from a zero value.
type seriesJSON struct {
	Name    *string       `json:"name"`
	Ratings *[]seasonJSON `json:"ratings"`
}

type seasonJSON struct {
	ID      *int           `json:"_id"`
	Ratings *[]episodeJSON `json:"ratings"`
}

type episodeJSON struct {
	ID     *int     `json:"_id"`
	Rating *float64 `json:"rating"`
}

// Decode parses a data service response body into a Series.
// Unknown fields are ignored; missing required fields are ErrMalformed.
func Decode(r io.Reader) (Series, error) {
	var raw seriesJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Series{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Series{}, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	if raw.Name == nil {
		return Series{}, fmt.Errorf("%w: missing name", ErrMalformed)
	}
	if raw.Ratings == nil {
		return Series{}, fmt.Errorf("%w: missing ratings", ErrMalformed)
	}

	series := Series{
		Name:    *raw.Name,
		Seasons: make([]Season, 0, len(*raw.Ratings)),
	}
	for i, s := range *raw.Ratings {
		if s.ID == nil || s.Ratings == nil {
			return Series{}, fmt.Errorf("%w: season %d incomplete", ErrMalformed, i)
		}
		season := Season{ID: *s.ID, Episodes: make([]Episode, 0, len(*s.Ratings))}
		for j, e := range *s.Ratings {
			if e.ID == nil || e.Rating == nil {
				return Series{}, fmt.Errorf("%w: season %d episode %d incomplete", ErrMalformed, *s.ID, j)
			}
			season.Episodes = append(season.Episodes, Episode{ID: *e.ID, Rating: *e.Rating})
		}
		series.Seasons = append(series.Seasons, season)
	}
	return series, nil
}

// Flatten walks seasons then episodes in received order and returns the
// ratings alongside "S{season}E{episode}" labels. Both slices always have
// the same length and are never nil.
func Flatten(s Series) (values []float64, labels []string) {
	n := s.EpisodeCount()
	values = make([]float64, 0, n)
	labels = make([]string, 0, n)
	for _, season := range s.Seasons {
		for _, ep := range season.Episodes {
			values = append(values, ep.Rating)
			labels = append(labels, Label(season.ID, ep.ID))
		}
	}
	return values, labels
}

// Label formats a season/episode pair as "S1E2".
func Label(season, episode int) string {
	return fmt.Sprintf("S%dE%d", season, episode)
}

// AxisMin returns min(AxisFloor, min(values)), or DefaultAxisMin when
// values is empty.
func AxisMin(values []float64) float64 {
	if len(values) == 0 {
		return DefaultAxisMin
	}
	lo := AxisFloor
	for _, v := range values {
		if v < lo {
			lo = v
		}
	}
	return lo
}
