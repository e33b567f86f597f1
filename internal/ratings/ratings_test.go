package ratings

import (
	"errors"
	"strings"
	"testing"
)

func sampleSeries() Series {
	return Series{
		Name: "Example",
		Seasons: []Season{
			{ID: 1, Episodes: []Episode{{ID: 1, Rating: 8}, {ID: 2, Rating: 7}}},
			{ID: 2, Episodes: []Episode{{ID: 1, Rating: 9}}},
		},
	}
}

func TestFlatten(t *testing.T) {
	values, labels := Flatten(sampleSeries())

	wantValues := []float64{8, 7, 9}
	wantLabels := []string{"S1E1", "S1E2", "S2E1"}

	if len(values) != len(wantValues) {
		t.Fatalf("expected %d values, got %d", len(wantValues), len(values))
	}
	for i := range wantValues {
		if values[i] != wantValues[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], wantValues[i])
		}
		if labels[i] != wantLabels[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], wantLabels[i])
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		want   int
	}{
		{"no seasons", Series{Name: "Empty"}, 0},
		{"empty season list", Series{Name: "Empty", Seasons: []Season{}}, 0},
		{"season without episodes", Series{Name: "Short", Seasons: []Season{
			{ID: 1},
			{ID: 2, Episodes: []Episode{{ID: 1, Rating: 6.5}}},
		}}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, labels := Flatten(tc.series)
			if values == nil || labels == nil {
				t.Fatal("Flatten should never return nil slices")
			}
			if len(values) != tc.want || len(labels) != tc.want {
				t.Errorf("got %d values / %d labels, want %d", len(values), len(labels), tc.want)
			}
		})
	}
}

func TestFlattenLengthMatchesEpisodeCount(t *testing.T) {
	s := Series{Name: "Long"}
	for season := 1; season <= 7; season++ {
		var eps []Episode
		for ep := 1; ep <= season*3; ep++ {
			eps = append(eps, Episode{ID: ep, Rating: float64(ep%10) + 0.5})
		}
		s.Seasons = append(s.Seasons, Season{ID: season, Episodes: eps})
	}

	values, labels := Flatten(s)
	if len(values) != s.EpisodeCount() || len(labels) != s.EpisodeCount() {
		t.Errorf("len(values)=%d len(labels)=%d, episode count %d", len(values), len(labels), s.EpisodeCount())
	}
}

func TestFlattenPreservesReceivedOrder(t *testing.T) {
	s := Series{Seasons: []Season{
		{ID: 3, Episodes: []Episode{{ID: 2, Rating: 1}, {ID: 1, Rating: 2}}},
		{ID: 1, Episodes: []Episode{{ID: 5, Rating: 3}}},
	}}
	_, labels := Flatten(s)
	want := []string{"S3E2", "S3E1", "S1E5"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestAxisMin(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, DefaultAxisMin},
		{"all high", []float64{8.1, 9.3, 7.7}, 5},
		{"dip below floor", []float64{8.1, 3.2, 7.7}, 3.2},
		{"exactly floor", []float64{5, 6}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AxisMin(tc.values); got != tc.want {
				t.Errorf("AxisMin(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	body := `{"name":"Black Mirror","extra":true,"ratings":[
		{"_id":1,"ratings":[{"_id":1,"rating":8.2},{"_id":2,"rating":7.9}]},
		{"_id":2,"ratings":[]}
	]}`

	s, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Name != "Black Mirror" {
		t.Errorf("expected name 'Black Mirror', got %q", s.Name)
	}
	if len(s.Seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(s.Seasons))
	}
	if got := s.Seasons[0].Episodes[1]; got.ID != 2 || got.Rating != 7.9 {
		t.Errorf("unexpected episode: %+v", got)
	}
	if len(s.Seasons[1].Episodes) != 0 {
		t.Errorf("expected empty second season, got %d episodes", len(s.Seasons[1].Episodes))
	}
}

func TestDecodeMalformed(t *testing.T) {
	bodies := map[string]string{
		"not json":          `<html>oops</html>`,
		"missing name":      `{"ratings":[]}`,
		"missing ratings":   `{"name":"x"}`,
		"ratings not array": `{"name":"x","ratings":{}}`,
		"season no id":      `{"name":"x","ratings":[{"ratings":[]}]}`,
		"episode no rating": `{"name":"x","ratings":[{"_id":1,"ratings":[{"_id":1}]}]}`,
		"rating is string":  `{"name":"x","ratings":[{"_id":1,"ratings":[{"_id":1,"rating":"9"}]}]}`,
		"trailing html":     `{"name":"x","ratings":[]}<html>oops</html>`,
		"second object":     `{"name":"x","ratings":[]}{"name":"y"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDecodeTrailingWhitespace(t *testing.T) {
	s, err := Decode(strings.NewReader("{\"name\":\"x\",\"ratings\":[]}\n\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Name != "x" {
		t.Errorf("expected name 'x', got %q", s.Name)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"black mirror", "Black Mirror"},
		{"  the wire  ", "The Wire"},
		{"SNL", "SNL"},
		{"spider-man", "Spider-man"},
		{"the o'neills", "The O'neills"},
		{"élite", "Élite"},
		{"a  b", "A  B"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := TitleCase(tc.input); got != tc.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
