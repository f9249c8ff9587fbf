package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/utils"
)

// GoogleLogoutCmd creates the googleLogout command
func GoogleLogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "googleLogout",
		Short: "Forget the stored Google token for this environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := utils.NewTokenFile(app.Env)
			if err != nil {
				return err
			}
			if err := tokens.Delete(); err != nil {
				return err
			}
			utils.ClearToken()
			app.google = nil

			app.Logger.Info("Google token removed", zap.String("env", app.Env))
			fmt.Printf("\n✓ Google token removed for %s, the next Google command will ask you to sign in\n\n", app.Env)
			return nil
		},
	}
}
