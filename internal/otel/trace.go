package otel

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// TraceEnv turns on per-message tracing in the TUI.
const TraceEnv = "TVRATINGS_TRACE"

var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(traceFromEnv(os.Getenv(TraceEnv)))
}

// traceFromEnv accepts the usual boolean spellings. Any other non-empty
// value also enables tracing, so TVRATINGS_TRACE=verbose works.
func traceFromEnv(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// TraceEnabled reports whether every Update message is logged as a
// trace.msg_received event.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
