package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/cmd/cli/commands"
	"github.com/jakechorley/cup-volunteers/internal/config"
	"github.com/jakechorley/cup-volunteers/pkg/utils/logging"
)

var (
	env        string
	app        = &commands.AppContext{}
	closeStore func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Cup Volunteers - sign-up site and admin tools",
		Long:  `Runs the volunteer sign-up site and the admin tools for listing, removing, publishing and emailing signups.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeStore != nil {
				closeStore()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.ListSignupsCmd(app))
	rootCmd.AddCommand(commands.RemoveVolunteerCmd(app))
	rootCmd.AddCommand(commands.ClearSignupsCmd(app))
	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.PublishSignupsCmd(app))
	rootCmd.AddCommand(commands.EmailRosterCmd(app))
	rootCmd.AddCommand(commands.GoogleLogoutCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, config and record store
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Env = env

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Event, err = app.Cfg.BuildEvent()
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("event", app.Event.Name),
		zap.Int("capacity", app.Cfg.Capacity))

	opened, err := commands.OpenRecordStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Records = opened.Records
	app.Postgres = opened.Postgres
	closeStore = opened.Close

	return nil
}
