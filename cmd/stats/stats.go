// Package stats implements the stats command.
package stats

import (
	"os"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/report"

	"github.com/spf13/cobra"
)

var (
	userID int64
	format string
	output string
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often a user's category suggestions were accepted",
	Long: `Show the acceptance rate of a user's category suggestions, overall and
per suggested category.

Example:
  smartexpense stats --user 1
  smartexpense stats --user 1 --format json --output stats.json`,
	Args: cobra.NoArgs,
	RunE: statsFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format (text, json, csv)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}

	accuracy, err := app.GetService().Stats(root.Context(cmd), uid)
	if err != nil {
		return err
	}
	data, err := app.GetReporter().Stats(accuracy, format)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, data, 0600); err != nil {
			return err
		}
		app.GetLogger().Info("Stats written", logging.F(logging.FieldOutputFile, output))
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
