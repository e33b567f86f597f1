package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abelbrown/tvratings/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withStore(func(st *store.Store) error {
				if clearAll {
					n, err := st.ClearHistory()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d searches\n", n)
					return nil
				}

				searches, err := st.History(limit)
				if err != nil {
					return err
				}
				if len(searches) == 0 {
					fmt.Fprintln(out, "No searches yet")
					return nil
				}

				color := colorEnabled(out)
				rows := make([][]string, 0, len(searches))
				for _, s := range searches {
					rows = append(rows, []string{
						s.SearchedAt.Local().Format("2006-01-02 15:04"),
						s.Query,
						colorOutcome(s.Outcome, color),
						strconv.Itoa(s.Episodes),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"When", "Query", "Outcome", "Episodes"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of searches to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded searches")
	return cmd
}
