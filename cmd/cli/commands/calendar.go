package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/calendar"
	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar <day>",
		Short: "Print the Google Calendar link for a day and write its .ics file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDay(args[0])
			if err != nil {
				return err
			}
			info, ok := app.Event.DayInfo(day)
			if !ok {
				return fmt.Errorf("no event configured for %s", day)
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = calendar.FileName(app.Event, info)
			}

			app.Logger.Info("calendar command", zap.String("day", string(day)), zap.String("out", out))

			data := calendar.ICS(app.Event, info, calendar.EventUID(info), time.Now())
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write calendar file: %w", err)
			}

			fmt.Printf("\n✓ Calendar file written to %s\n\n", out)
			fmt.Printf("Google Calendar: %s\n", calendar.GoogleCalendarURL(app.Event, info))
			fmt.Printf("Maps:            %s\n\n", calendar.MapsURL(app.Event))
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output file (defaults to <event>-<role>.ics)")

	return cmd
}
