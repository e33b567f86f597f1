package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formKeys are the bindings the query form handles itself.
type formKeys struct {
	Submit key.Binding
	Prev   key.Binding
	Next   key.Binding
}

var defaultFormKeys = formKeys{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
	Prev:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older")),
	Next:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer")),
}

// Form is the query input. It only ever emits non-blank queries and
// clears itself after each submission.
type Form struct {
	input textinput.Model
	keys  formKeys

	history []string // newest first
	pos     int      // index into history while browsing, -1 otherwise
	draft   string   // text typed before browsing started
}

// NewForm returns a focused, empty form.
func NewForm() Form {
	ti := textinput.New()
	ti.Placeholder = "e.g. Breaking Bad"
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Focus()
	return Form{input: ti, keys: defaultFormKeys, pos: -1}
}

// SetWidth sets the visible input width.
func (f *Form) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	f.input.Width = w
}

// SetHistory replaces the recall list (newest first).
func (f *Form) SetHistory(queries []string) {
	f.history = append([]string(nil), queries...)
	f.pos = -1
}

// Remember puts q at the front of the recall list, removing any older copy.
func (f *Form) Remember(q string) {
	out := []string{q}
	for _, h := range f.history {
		if h != q {
			out = append(out, h)
		}
	}
	f.history = out
	f.pos = -1
}

// History returns the recall list, newest first.
func (f Form) History() []string {
	return f.history
}

// Value returns the text currently in the input.
func (f Form) Value() string {
	return f.input.Value()
}

// Update handles a message. submitted is non-empty when Enter was pressed
// on non-blank input.
func (f Form) Update(msg tea.Msg) (form Form, submitted string, cmd tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.Submit):
			q := strings.TrimSpace(f.input.Value())
			if q == "" {
				return f, "", nil
			}
			f.input.Reset()
			f.pos = -1
			f.draft = ""
			return f, q, nil

		case key.Matches(km, f.keys.Prev):
			if len(f.history) == 0 {
				return f, "", nil
			}
			if f.pos == -1 {
				f.draft = f.input.Value()
			}
			if f.pos < len(f.history)-1 {
				f.pos++
			}
			f.input.SetValue(f.history[f.pos])
			f.input.CursorEnd()
			return f, "", nil

		case key.Matches(km, f.keys.Next):
			if f.pos == -1 {
				return f, "", nil
			}
			f.pos--
			if f.pos == -1 {
				f.input.SetValue(f.draft)
			} else {
				f.input.SetValue(f.history[f.pos])
			}
			f.input.CursorEnd()
			return f, "", nil
		}
	}

	f.input, cmd = f.input.Update(msg)
	return f, "", cmd
}

// View renders the labelled input row.
func (f Form) View(width int) string {
	row := FormLabel.Render("TV Series") + f.input.View()
	if width > 0 {
		return FormBar.Width(width).Render(row)
	}
	return FormBar.Render(row)
}
