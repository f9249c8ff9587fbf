package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

// ListSignupsCmd creates the listSignups command
func ListSignupsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSignups",
		Short: "List everyone signed up for each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("listSignups command")

			roster, err := services.LoadRoster(app.Ctx, app.Records, app.Event, app.Cfg.Capacity, app.Logger)
			if err != nil {
				return err
			}

			app.Logger.Debug("Roster loaded", zap.Int("volunteers", roster.Total()))

			fmt.Printf("\n%s volunteers (%d total)\n", app.Event.Name, roster.Total())
			for _, day := range roster.Days {
				fmt.Printf("\n%s (%d/%d)\n", day.Label(), len(day.Entries), day.Capacity)
				if len(day.Entries) == 0 {
					fmt.Println("  No signups yet")
					continue
				}
				for i, entry := range day.Entries {
					fmt.Printf("  %2d. %-30s %s  [id %s]\n", i+1, entry.Name, entry.SignedUpAt, entry.ID)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
