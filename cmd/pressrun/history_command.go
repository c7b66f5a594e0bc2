package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the publish history ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := ctx.openTracker()
			if err != nil {
				return err
			}

			records := tracker.History()
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}

			if jsonOut {
				return writeJSON(cmd, records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "History is empty")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				kind := record.UpdateType
				if kind == "" {
					kind = "publish"
				}
				rows = append(rows, []string{
					record.PostID,
					record.Title,
					record.Status,
					kind,
					formatTimestamp(record.Timestamp()),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Post", "Title", "Status", "Type", "When"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N records")
	return cmd
}
