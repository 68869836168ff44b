// Package batch implements the batch command.
package batch

import (
	"errors"
	"fmt"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/common"

	"github.com/spf13/cobra"
)

var (
	input  string
	output string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest a CSV file of expense messages",
	Long: `Ingest every message of a CSV file with the columns user_id, message and an
optional date (YYYY-MM-DD). Each message is parsed, categorized and saved
independently, and one result row is written per input row.

Example:
  smartexpense batch -i messages.csv -o results.csv`,
	Args: cobra.NoArgs,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default stdout)")
	_ = Cmd.MarkFlagRequired("input")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	if input == "" {
		return errors.New("an input file is required")
	}
	logger := app.GetLogger()
	delimiter := app.GetDelimiter()

	rows, err := common.ReadMessages(input, delimiter, logger)
	if err != nil {
		return err
	}

	results, stats := app.GetBatchProcessor().Process(root.Context(cmd), rows)
	stats.LogSummary(logger, input)

	if output != "" {
		if err := common.WriteCSVFile(results, output, delimiter, logger); err != nil {
			return err
		}
	} else if err := common.WriteCSV(results, cmd.OutOrStdout(), delimiter); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d messages: %d auto-categorized, %d pending, %d failed\n",
		stats.Total, stats.AutoCategorized, stats.Pending, stats.Failed)
	return nil
}
