package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tvratings/internal/coord"
	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/store"
)

// AppConfig wires the App to its collaborators. Only Coordinator and
// Events are required.
type AppConfig struct {
	Ctx         context.Context
	Coordinator *coord.Coordinator
	Events      <-chan panel.Event
	Logger      *otel.Logger
	Ring        *otel.RingBuffer

	// LoadHistory returns a Cmd producing HistoryLoaded.
	LoadHistory func() tea.Cmd
	// RecordSearch returns a Cmd that persists a finished search and
	// produces SearchRecorded.
	RecordSearch func(store.Search) tea.Cmd
}

type appKeys struct {
	Quit  key.Binding
	Debug key.Binding
}

var defaultAppKeys = appKeys{
	Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Debug: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold *store.Store. It persists via injected Cmds.
type App struct {
	cfg  AppConfig
	keys appKeys

	form     Form
	spinner  spinner.Model
	spinning bool

	err       error
	width     int
	height    int
	ready     bool
	showDebug bool
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) App {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = otel.NewNullLogger()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle))
	return App{
		cfg:     cfg,
		keys:    defaultAppKeys,
		form:    NewForm(),
		spinner: sp,
	}
}

// Init starts listening for fetch completions and loads search history.
// A query submitted before the program starts gets its spinner here.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.listenForEvents()}
	if a.cfg.LoadHistory != nil {
		cmds = append(cmds, a.cfg.LoadHistory())
	}
	if a.cfg.Coordinator.State().Status == panel.StatusLoading {
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.cfg.Logger.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindMsgReceived,
			Comp:  "ui",
			Msg:   fmt.Sprintf("%T", msg),
		})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.form.SetWidth(msg.Width - 16)
		return a, nil

	case EventArrived:
		record := a.applyEvent(msg.Event)
		return a, tea.Batch(record, a.listenForEvents())

	case HistoryLoaded:
		if msg.Err != nil {
			a.cfg.Logger.Error(otel.KindStoreError, "ui", msg.Err)
			a.err = fmt.Errorf("load history: %w", msg.Err)
			return a, nil
		}
		a.form.SetHistory(msg.Queries)
		return a, nil

	case SearchRecorded:
		if msg.Err != nil {
			a.cfg.Logger.Error(otel.KindStoreError, "ui", msg.Err)
			a.err = fmt.Errorf("save search: %w", msg.Err)
		}
		return a, nil

	case spinner.TickMsg:
		if a.cfg.Coordinator.State().Status != panel.StatusLoading {
			a.spinning = false
			return a, nil
		}
		a.spinning = true
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.form, _, cmd = a.form.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.showDebug && msg.String() == "esc" {
			a.showDebug = false
			return a, nil
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	}

	if a.showDebug {
		return a, nil
	}

	form, submitted, cmd := a.form.Update(msg)
	a.form = form
	if submitted == "" {
		return a, cmd
	}
	tick := a.submit(submitted)
	return a, tea.Batch(cmd, tick)
}

// submit hands q to the coordinator and starts the spinner.
func (a *App) submit(q string) tea.Cmd {
	if err := a.cfg.Coordinator.Submit(a.cfg.Ctx, q); err != nil {
		return nil
	}
	a.form.Remember(q)
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

// applyEvent feeds ev to the coordinator and, when it ends the active
// query, persists the search.
func (a *App) applyEvent(ev panel.Event) tea.Cmd {
	if !a.cfg.Coordinator.Apply(ev) {
		return nil
	}
	st := a.cfg.Coordinator.State()
	if !st.Status.Terminal() || a.cfg.RecordSearch == nil {
		return nil
	}
	episodes := 0
	if st.Series != nil {
		episodes = st.Series.EpisodeCount()
	}
	return a.cfg.RecordSearch(store.Search{
		ID:       a.cfg.Coordinator.QueryID(),
		Query:    st.Query,
		Outcome:  st.Status.String(),
		Episodes: episodes,
	})
}

// listenForEvents waits for the next fetch completion. It returns nil
// once the app context ends, which stops the listen loop.
func (a App) listenForEvents() tea.Cmd {
	events, ctx := a.cfg.Events, a.cfg.Ctx
	return func() tea.Msg {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			return EventArrived{Event: ev}
		case <-ctx.Done():
			return nil
		}
	}
}

// PanelView snapshots what the ratings panel should show.
func (a App) PanelView() PanelView {
	q, ok := a.cfg.Coordinator.Query()
	return PanelView{
		Query:    q,
		HasQuery: ok,
		State:    a.cfg.Coordinator.State(),
		Spinner:  a.spinner.View(),
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return MsgLoading
	}

	if a.showDebug {
		return lipgloss.JoinVertical(lipgloss.Left,
			debugOverlay(a.cfg.Ring, a.width, a.height-1),
			debugStatusBar(a.width),
		)
	}

	parts := []string{
		a.form.View(a.width),
		"",
		RenderPanel(a.PanelView(), a.width),
	}

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	bodyHeight := a.height - 1
	if a.err != nil {
		bodyHeight--
	}
	body = lipgloss.NewStyle().MaxHeight(max(bodyHeight, 1)).Render(body)
	body = lipgloss.PlaceVertical(max(bodyHeight, 1), lipgloss.Top, body)

	errorBar := ""
	if a.err != nil {
		errorBar = "\n" + ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)")
	}

	return body + errorBar + "\n" + a.statusBar()
}

func (a App) statusBar() string {
	keys := StatusBarKey.Render("enter") + StatusBarText.Render(":search  ") +
		StatusBarKey.Render("↑/↓") + StatusBarText.Render(":history  ") +
		StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":debug  ") +
		StatusBarKey.Render("esc") + StatusBarText.Render(":quit")

	status := a.cfg.Coordinator.State().Status
	if _, ok := a.cfg.Coordinator.Query(); !ok {
		return StatusBar.Width(a.width).Render(keys)
	}
	return StatusBar.Width(a.width).Render(fmt.Sprintf("[%s]  ", status) + keys)
}

// Err returns the error shown in the error bar, if any (for testing).
func (a App) Err() error {
	return a.err
}

// Form returns the query form (for testing).
func (a App) Form() Form {
	return a.form
}

// DebugVisible reports whether the debug overlay is open (for testing).
func (a App) DebugVisible() bool {
	return a.showDebug
}
