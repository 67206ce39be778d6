package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/workshop/pkg/core/services"
)

// CompareCmd creates the compare command
func CompareCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy over the configured families without storing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := app.LoadFamilies()
			if err != nil {
				return err
			}

			comparisons, err := services.CompareStrategies(families, app.Cfg.BookingCalendar(), app.Logger)
			if err != nil {
				return err
			}

			printComparisons(cmd.OutOrStdout(), comparisons)
			return nil
		},
	}
}

func printComparisons(w io.Writer, comparisons []services.StrategyComparison) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Strategy comparison"))

	t := newTable("Strategy", "Status", "Unassigned", "Bad days", "Preference", "Accounting", "Total", "Time")
	for _, c := range comparisons {
		t.addRow(
			c.Strategy,
			statusLabel(c.Complete),
			formatCount(c.Unassigned),
			formatCount(c.ViolatedDays),
			formatCount(c.PreferenceCost),
			formatCost(c.AccountingCost),
			formatCost(c.TotalCost),
			c.Duration.Round(time.Microsecond).String(),
		)
	}
	t.render(w)
	fmt.Fprintln(w)
}
