package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/cup-volunteers/pkg/core/services"
)

// ClearSignupsCmd creates the clearSignups command
func ClearSignupsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearSignups",
		Short: "Remove every signup from both days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Clear ALL signups? This cannot be undone. Type 'yes' to continue: ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted - nothing changed.")
					return nil
				}
			}

			app.Logger.Info("clearSignups command")

			if _, err := services.ClearSignups(app.Ctx, app.Records, app.Logger, app.Cfg.Capacity); err != nil {
				return err
			}

			fmt.Printf("\n✓ All signups cleared\n\n")
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	return cmd
}

// confirm reads one line and accepts only "yes"
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}
