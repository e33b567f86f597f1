package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/ratings"
)

// Messages shown by RenderPanel.
const (
	MsgPlaceholder   = "Please enter a TV Series name"
	MsgLoading       = "Loading..."
	MsgNotFoundFmt   = "Sorry, we're unable to find '%s'"
	MsgNotFoundHelp1 = "This is most likely because our background worker has not processed this series yet."
	MsgNotFoundHelp2 = "Please try again sometime soon."
	MsgErrorHeader   = "An error has occurred...oops :("
	MsgNetworkHelp   = "An error has occurred in fetching the ratings data."
	MsgNetworkAdmin  = "Admin: please double check if the server has been started."
	MsgDecodeError   = "An error has occurred in decoding the ratings object."
)

// PanelView is everything the ratings panel needs to draw itself.
type PanelView struct {
	Query    string
	HasQuery bool
	State    panel.State
	Spinner  string // current spinner frame, may be empty
}

// RenderPanel draws exactly one of the panel's branches for v.
func RenderPanel(v PanelView, width int) string {
	if !v.HasQuery {
		return Title.Render(MsgPlaceholder)
	}

	switch v.State.Status {
	case panel.StatusLoading:
		if v.Spinner != "" {
			return Title.Render(v.Spinner + " " + MsgLoading)
		}
		return Title.Render(MsgLoading)

	case panel.StatusFound:
		return renderSeries(*v.State.Series, width)

	case panel.StatusNotFound:
		return lipgloss.JoinVertical(lipgloss.Left,
			Title.Render(fmt.Sprintf(MsgNotFoundFmt, ratings.TitleCase(v.Query))),
			HelperMsg.Render(MsgNotFoundHelp1),
			HelperMsg.Render(MsgNotFoundHelp2),
		)

	case panel.StatusNetworkError:
		return lipgloss.JoinVertical(lipgloss.Left,
			ErrorStyle.Render(MsgErrorHeader),
			HelperMsg.Render(MsgNetworkHelp),
			HelperMsg.Render(MsgNetworkAdmin),
		)

	case panel.StatusDecodeError:
		return HelperMsg.Render(MsgDecodeError)

	default:
		return ""
	}
}

func renderSeries(s ratings.Series, width int) string {
	values, labels := ratings.Flatten(s)
	return lipgloss.JoinVertical(lipgloss.Left,
		Title.Render(s.Name),
		"",
		renderChart(values, labels, width, chartHeight),
		"",
		renderSeasonGrid(s.Seasons, width),
	)
}

// Season grid layout.
const (
	seasonColWidth = 16
	minGridWidth   = seasonColWidth
)

// renderSeasonGrid lays seasons out left to right, wrapping to new rows
// when width runs out.
func renderSeasonGrid(seasons []ratings.Season, width int) string {
	if len(seasons) == 0 {
		return ""
	}
	if width < minGridWidth {
		width = minGridWidth
	}
	perRow := width / seasonColWidth

	var rows []string
	for start := 0; start < len(seasons); start += perRow {
		end := min(start+perRow, len(seasons))
		cols := make([]string, 0, end-start)
		for _, season := range seasons[start:end] {
			cols = append(cols, renderSeason(season))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSeason(season ratings.Season) string {
	lines := []string{SeasonHeader.Render(fmt.Sprintf("Season %d", season.ID))}
	for _, ep := range season.Episodes {
		num := EpisodeNum.Render(fmt.Sprintf("E%-3d", ep.ID))
		lines = append(lines, num+" "+formatRating(ep.Rating))
	}
	return SeasonBox.Width(seasonColWidth).Render(strings.Join(lines, "\n"))
}
