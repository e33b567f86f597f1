package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/tvratings/internal/coord"
	"github.com/abelbrown/tvratings/internal/dataservice"
	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/panel"
	"github.com/abelbrown/tvratings/internal/ratings"
	"github.com/abelbrown/tvratings/internal/store"
	"github.com/abelbrown/tvratings/internal/ui"
)

// fetchJSON is the --json output of tvr fetch.
type fetchJSON struct {
	Query   string    `json:"query"`
	Status  string    `json:"status"`
	Name    string    `json:"name,omitempty"`
	Values  []float64 `json:"values"`
	Labels  []string  `json:"labels"`
	AxisMin float64   `json:"axis_min"`
	AxisMax float64   `json:"axis_max"`
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var width int
	var asJSON bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "fetch <series name>",
		Short: "Fetch ratings for a series and render them once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			var state panel.State
			var queryID string
			err = ctx.withLogger(func(logger *otel.Logger) error {
				client := dataservice.NewClient(cfg.DataURL(), cfg.FetchTimeout())
				runner := panel.NewRunner(client, logger)
				c := coord.NewCoordinator(runner, logger)

				var werr error
				state, werr = c.SubmitAndWait(cmd.Context(), query, runner.Events())
				queryID = c.QueryID()
				return werr
			})
			if err != nil {
				return err
			}

			if !noHistory {
				if err := ctx.withStore(func(st *store.Store) error {
					return st.RecordSearch(store.Search{
						ID:       queryID,
						Query:    state.Query,
						Outcome:  state.Status.String(),
						Episodes: episodeCount(state),
					})
				}); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				payload := fetchJSON{
					Query:   state.Query,
					Status:  state.Status.String(),
					Values:  []float64{},
					Labels:  []string{},
					AxisMax: ratings.AxisMax,
				}
				if state.Series != nil {
					payload.Name = state.Series.Name
					payload.Values, payload.Labels = ratings.Flatten(*state.Series)
				}
				payload.AxisMin = ratings.AxisMin(payload.Values)
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			view := ui.PanelView{Query: state.Query, HasQuery: true, State: state}
			fmt.Fprintln(out, ui.RenderPanel(view, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Render width in columns")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print flattened ratings as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this search")
	return cmd
}

func episodeCount(st panel.State) int {
	if st.Series == nil {
		return 0
	}
	return st.Series.EpisodeCount()
}
