package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

// RemoveVolunteerCmd creates the removeVolunteer command
func RemoveVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeVolunteer <day> <id>",
		Short: "Remove one signup by day and id (see listSignups)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDay(args[0])
			if err != nil {
				return err
			}
			id, err := model.ParseEntryID(args[1])
			if err != nil {
				return err
			}

			app.Logger.Info("removeVolunteer command", zap.String("day", string(day)), zap.String("id", id.String()))

			result, err := services.RemoveVolunteer(app.Ctx, app.Records, app.Logger, app.Cfg.Capacity, day, id)
			if err != nil {
				return err
			}

			if !result.Removed {
				fmt.Printf("\nNo signup with id %s on %s - nothing removed.\n\n", id, day)
				return nil
			}
			fmt.Printf("\n✓ Removed signup %s from %s\n\n", id, day)
			return nil
		},
	}
}
