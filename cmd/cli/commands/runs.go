package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/workshop/pkg/core/services"
	"github.com/jakechorley/workshop/pkg/db"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List stored scheduling runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, store)
			if err != nil {
				return err
			}

			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored yet.")
		return
	}

	fmt.Fprintf(w, "\nFound %d runs:\n\n", len(runs))

	t := newTable("Run ID", "Created", "Strategy", "Families", "Input", "Total cost")
	for _, run := range runs {
		t.addRow(
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Strategy,
			formatCount(run.GroupCount),
			run.InputFingerprint,
			formatCost(run.TotalCost),
		)
	}
	t.render(w)
	fmt.Fprintln(w)
}
