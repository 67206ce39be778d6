package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/workshop/pkg/clients/sheetsclient"
	"github.com/jakechorley/workshop/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <run_id>",
		Short: "Publish a stored run to the configured spreadsheet tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetsCfg := app.Cfg.Sheets
			if sheetsCfg == nil {
				return errors.New("publishing requires a sheets section in the config")
			}

			store, err := app.Store()
			if err != nil {
				return err
			}

			dates, err := app.VisitDates()
			if err != nil {
				return err
			}

			app.Logger.Debug("Initializing sheets client")
			client, err := sheetsclient.NewClient(app.Ctx, sheetsCfg.CredentialsFile)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			submission, err := services.PublishRun(
				app.Ctx,
				store,
				client,
				app.Logger,
				app.Cfg.BookingCalendar(),
				dates,
				args[0],
				sheetsCfg.SpreadsheetID,
				sheetsCfg.Tab,
			)
			if err != nil {
				return err
			}

			app.Logger.Debug("Publish finished", zap.Int("rows", len(submission.Rows)))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n%s %s\n\n", okStyle.Render("✓"), titleStyle.Render("Run published successfully!"))
			fmt.Fprintf(w, "Run ID:      %s\n", submission.RunID)
			fmt.Fprintf(w, "Strategy:    %s\n", submission.Strategy)
			fmt.Fprintf(w, "Families:    %s\n", formatCount(len(submission.Rows)))
			fmt.Fprintf(w, "Total cost:  %s\n", formatCost(submission.TotalCost))
			fmt.Fprintf(w, "Spreadsheet: %s (tab %q)\n\n", sheetsCfg.SpreadsheetID, sheetsCfg.Tab)

			return nil
		},
	}
}
