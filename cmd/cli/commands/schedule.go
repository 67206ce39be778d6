package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/core/booking"
	"github.com/jakechorley/workshop/pkg/core/services"
	"github.com/jakechorley/workshop/pkg/familydata"
)

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign every family a day, store the run and write the submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, _ := cmd.Flags().GetString("strategy")
			if strategy == "" {
				strategy = app.Cfg.Strategy
			}

			families, err := app.LoadFamilies()
			if err != nil {
				return err
			}

			store, err := app.Store()
			if err != nil {
				return err
			}

			result, err := services.Schedule(app.Ctx, store, app.Recorder, app.Logger, families, strategy, app.Cfg.BookingCalendar())
			if err != nil {
				var incomplete *booking.IncompleteAssignmentError
				if errors.As(err, &incomplete) {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s left %d families unassigned and %d days out of bounds\n\n",
						errorStyle.Render("✗"), strategy, incomplete.Pending, len(incomplete.ViolatedDays))
				}
				return err
			}

			path := filepath.Join(app.Cfg.ResultsPath, result.Run.Strategy+".csv")
			if err := familydata.WriteSubmissionToPath(path, result.Submission); err != nil {
				return err
			}
			app.Logger.Info("Submission written", zap.String("path", path))

			printSchedule(cmd.OutOrStdout(), result, path)
			return nil
		},
	}

	cmd.Flags().StringP("strategy", "s", "", "Strategy to run (defaults to the configured strategy)")

	return cmd
}

func printSchedule(w io.Writer, result *services.ScheduleResult, path string) {
	run := result.Run

	fmt.Fprintf(w, "\n%s %s\n\n", okStyle.Render("✓"), titleStyle.Render("Schedule stored successfully!"))
	fmt.Fprintf(w, "Run ID:          %s\n", run.ID)
	fmt.Fprintf(w, "Strategy:        %s\n", run.Strategy)
	fmt.Fprintf(w, "Families:        %s\n", formatCount(run.GroupCount))
	fmt.Fprintf(w, "Preference cost: %s\n", formatCount(run.PreferenceCost))
	fmt.Fprintf(w, "Accounting cost: %s\n", formatCost(run.AccountingCost))
	fmt.Fprintf(w, "Total cost:      %s\n", formatCost(run.TotalCost))
	fmt.Fprintf(w, "Submission:      %s\n\n", path)

	counts := make(map[int]int)
	for _, group := range result.Outcome.Ledger.Settled() {
		placement, _ := result.Outcome.Ledger.Placement(group)
		counts[placement.Rank]++
	}
	printChoiceCounts(w, counts)
}

// printChoiceCounts lists how many families got each wishlist rank, forced last
func printChoiceCounts(w io.Writer, counts map[int]int) {
	ranks := make([]int, 0, len(counts))
	for rank := range counts {
		if rank != booking.OffWishlist {
			ranks = append(ranks, rank)
		}
	}
	sort.Ints(ranks)
	if _, ok := counts[booking.OffWishlist]; ok {
		ranks = append(ranks, booking.OffWishlist)
	}

	t := newTable("Choice", "Families")
	for _, rank := range ranks {
		t.addRow(choiceLabel(rank), formatCount(counts[rank]))
	}
	t.render(w)
	fmt.Fprintln(w)
}
