package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

// EmailRosterCmd creates the emailRoster command
func EmailRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "emailRoster <to>",
		Short: "Email the current signups as plain text (gmail or resend)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := args[0]
			app.Logger.Info("emailRoster command", zap.String("to", to))

			mailer, err := app.RosterMailer()
			if err != nil {
				return err
			}

			roster, err := services.EmailRoster(app.Ctx, app.Records, mailer, app.Event, app.Cfg.Capacity, to, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster with %d volunteer(s) sent to %s\n\n", roster.Total(), to)
			return nil
		},
	}
}
