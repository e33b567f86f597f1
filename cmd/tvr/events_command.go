package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// eventRecord mirrors otel.Event for JSON decoding.
// Decoded from JSONL rather than importing otel so old logs stay readable
// as the event schema evolves.
type eventRecord struct {
	Time       time.Time      `json:"t"`
	Level      string         `json:"level"`
	Kind       string         `json:"kind"`
	Comp       string         `json:"comp"`
	SessionID  string         `json:"session_id"`
	QueryID    string         `json:"qid"`
	Generation uint64         `json:"gen"`
	DurMs      float64        `json:"dur_ms"`
	Count      int            `json:"count"`
	Query      string         `json:"query"`
	Status     string         `json:"status"`
	Err        string         `json:"err"`
	Msg        string         `json:"msg"`
	Extra      map[string]any `json:"extra"`
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

var levelColors = map[string]text.Colors{
	"debug": {text.FgHiBlack},
	"warn":  {text.FgYellow},
	"error": {text.FgRed, text.Bold},
}

type eventFilter struct {
	kind  string
	level string
	comp  string
	qid   string
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < levelRank(f.level) {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.qid != "" && !strings.HasPrefix(ev.QueryID, f.qid) {
		return false
	}
	return true
}

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var tail int
	var follow bool
	var rawJSON bool
	var filter eventFilter

	cmd := &cobra.Command{
		Use:   "events",
		Short: "View the JSONL event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := cfg.EventLogPath()

			f, err := os.Open(logPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("event log not found at %s; run tvratings or tvr fetch first", logPath)
				}
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			color := colorEnabled(out)
			format := func(ev eventRecord, raw []byte) string {
				if rawJSON {
					return string(raw)
				}
				return formatEvent(ev, color)
			}

			for _, l := range readTailLines(f, tail, filter.match) {
				fmt.Fprintln(out, format(l.ev, l.raw))
			}
			if !follow {
				return nil
			}
			return followEvents(cmd.Context(), f, out, filter.match, format)
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 50, "Number of recent lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow mode (like tail -f)")
	cmd.Flags().StringVar(&filter.kind, "kind", "", "Filter by event kind prefix (e.g. 'fetch')")
	cmd.Flags().StringVar(&filter.level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&filter.comp, "comp", "", "Filter by component name")
	cmd.Flags().StringVar(&filter.qid, "qid", "", "Filter by query ID prefix")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "Output raw JSON lines")
	return cmd
}

func formatEvent(ev eventRecord, color bool) string {
	ts := ev.Time.Local().Format("15:04:05.000")
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	if c, ok := levelColors[ev.Level]; ok && color {
		lvl = c.Sprint(fmt.Sprintf("%-5s", lvl))
	} else {
		lvl = fmt.Sprintf("%-5s", lvl)
	}

	parts := []string{fmt.Sprintf("%s %s [%-5s] %-20s", ts, lvl, ev.Comp, ev.Kind)}

	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Generation > 0 {
		parts = append(parts, fmt.Sprintf("gen=%d", ev.Generation))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Status != "" {
		parts = append(parts, "status="+ev.Status)
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

// followEvents polls f for appended lines until ctx ends.
func followEvents(ctx context.Context, f *os.File, out io.Writer, match func(eventRecord) bool, format func(eventRecord, []byte) string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if match(ev) {
			fmt.Fprintln(out, format(ev, line))
		}
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads r and returns the last n lines matching the filter.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	if n <= 0 {
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	ring := make([]parsedLine, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !match(ev) {
			continue
		}
		// scanner reuses its buffer
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
		} else {
			copy(ring, ring[1:])
			ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
		}
	}
	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
