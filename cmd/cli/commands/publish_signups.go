package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

// PublishSignupsCmd creates the publishSignups command
func PublishSignupsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSignups",
		Short: "Write the current signups to the roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("publishSignups command")

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			roster, err := services.PublishSignups(app.Ctx, app.Records, sheets, app.Cfg, app.Event, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster published to tab %q\n\n", app.Cfg.Roster.Tab)
			for _, day := range roster.Days {
				fmt.Printf("  %-20s %d/%d\n", day.Label(), len(day.Entries), day.Capacity)
			}
			fmt.Printf("\nSpreadsheet: https://docs.google.com/spreadsheets/d/%s\n\n", app.Cfg.Roster.SpreadsheetID)
			return nil
		},
	}
}
