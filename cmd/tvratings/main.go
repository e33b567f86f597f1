// Command tvratings is the interactive TV-series ratings dashboard.
//
// Usage:
//
//	tvratings [-config path] [series name]
//
// With a series name the dashboard opens with that search already running.
// When stdout is not a terminal the search is rendered once as plain text.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/abelbrown/tvratings/internal/config"
	"github.com/abelbrown/tvratings/internal/coord"
	"github.com/abelbrown/tvratings/internal/dataservice"
	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/store"
	"github.com/abelbrown/tvratings/internal/ui"
)

// plainWidth is the render width when stdout is not a terminal.
const plainWidth = 80

func main() {
	configPath := flag.String("config", "", "Configuration file path (default ~/.tvratings/config.toml)")
	flag.Parse()
	initial := strings.TrimSpace(strings.Join(flag.Args(), " "))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := os.MkdirAll(cfg.Dir(), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Event log
	logFile, err := os.OpenFile(cfg.EventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	defer logFile.Close()
	logger := otel.NewLogger(logFile)
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	logger.SetRingBuffer(ring)
	defer logger.Close()

	logger.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStartup,
		Comp:  "main",
		Msg:   "data service " + cfg.DataURL(),
	})

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	client := dataservice.NewClient(cfg.DataURL(), cfg.FetchTimeout())
	runner := panel.NewRunner(client, logger)
	coordinator := coord.NewCoordinator(runner, logger)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		code := runPlain(ctx, coordinator, runner, st, initial)
		// os.Exit skips deferred calls
		logger.Close()
		st.Close()
		logFile.Close()
		os.Exit(code)
	}

	app := ui.NewApp(ui.AppConfig{
		Ctx:         ctx,
		Coordinator: coordinator,
		Events:      runner.Events(),
		Logger:      logger,
		Ring:        ring,
		LoadHistory: func() tea.Cmd {
			return func() tea.Msg {
				queries, err := st.RecentQueries(cfg.HistoryLimit)
				return ui.HistoryLoaded{Queries: queries, Err: err}
			}
		},
		RecordSearch: func(s store.Search) tea.Cmd {
			return func() tea.Msg {
				return ui.SearchRecorded{ID: s.ID, Err: st.RecordSearch(s)}
			}
		},
	})

	if initial != "" {
		if err := coordinator.Submit(ctx, initial); err != nil {
			log.Printf("Ignoring initial query: %v", err)
		}
	}

	start := time.Now()
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error(otel.KindError, "main", err)
		log.Printf("Error running program: %v", err)
	}

	cancel()
	logger.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindShutdown,
		Comp:  "main",
		Dur:   time.Since(start),
	})
}

// runPlain renders one search to stdout and returns the exit code.
func runPlain(ctx context.Context, c *coord.Coordinator, runner *panel.Runner, st *store.Store, q string) int {
	if q == "" {
		fmt.Println(ui.MsgPlaceholder)
		return 2
	}

	state, err := c.SubmitAndWait(ctx, q, runner.Events())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tvratings: %v\n", err)
		return 1
	}

	episodes := 0
	if state.Series != nil {
		episodes = state.Series.EpisodeCount()
	}
	if err := st.RecordSearch(store.Search{
		ID:       c.QueryID(),
		Query:    state.Query,
		Outcome:  state.Status.String(),
		Episodes: episodes,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "tvratings: record search: %v\n", err)
	}

	fmt.Println(ui.RenderPanel(ui.PanelView{Query: state.Query, HasQuery: true, State: state}, plainWidth))
	if state.Status != panel.StatusFound {
		return 1
	}
	return 0
}
