package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/core/services"
	"github.com/jakechorley/workshop/pkg/familydata"
)

// ScoreCmd creates the score command
func ScoreCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "score <submission_csv>",
		Short: "Score a submission file against the configured families",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := app.LoadFamilies()
			if err != nil {
				return err
			}

			assignments, err := familydata.LoadSubmissionFromPath(args[0])
			if err != nil {
				return err
			}

			result, err := services.ScoreSubmission(families, assignments, app.Cfg.BookingCalendar())
			if err != nil {
				return err
			}

			app.Logger.Info("Submission scored",
				zap.String("path", args[0]),
				zap.Bool("complete", result.Complete),
				zap.Float64("total_cost", result.TotalCost))

			printScore(cmd.OutOrStdout(), args[0], result)
			return nil
		},
	}
}

func printScore(w io.Writer, path string, result *services.ScoreResult) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Score for "+path))
	fmt.Fprintf(w, "Status:          %s\n", statusLabel(result.Complete))
	fmt.Fprintf(w, "Preference cost: %s\n", formatCount(result.PreferenceCost))
	fmt.Fprintf(w, "Accounting cost: %s\n", formatCost(result.AccountingCost))
	fmt.Fprintf(w, "Total cost:      %s\n\n", formatCost(result.TotalCost))

	printChoiceCounts(w, result.ChoiceCounts)

	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "%s %d families have no day\n", warnStyle.Render("⚠"), len(result.Missing))
		for _, id := range result.Missing {
			fmt.Fprintf(w, "  - family %d\n", id)
		}
		fmt.Fprintln(w)
	}

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(w, "%s %d days outside the occupancy bounds\n", warnStyle.Render("⚠"), len(result.ValidationErrors))
		for _, violation := range result.ValidationErrors {
			fmt.Fprintf(w, "  - %s\n", violation.Description)
		}
		fmt.Fprintln(w)
	}
}
