// Package feedback implements the feedback command.
package feedback

import (
	"time"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/common"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"

	"github.com/spf13/cobra"
)

var (
	userID int64
	output string
)

// Cmd represents the feedback command
var Cmd = &cobra.Command{
	Use:   "feedback",
	Short: "Export a user's suggestion feedback as CSV",
	Long: `Export every suggestion answer recorded for a user, oldest first.

Example:
  smartexpense feedback --user 1
  smartexpense feedback --user 1 --output feedback.csv`,
	Args: cobra.NoArgs,
	RunE: feedbackFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default stdout)")
}

func feedbackFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}

	records, err := app.GetStore().FeedbackForUser(root.Context(cmd), uid)
	if err != nil {
		return err
	}
	rows := ToRows(records)

	if output != "" {
		return common.WriteCSVFile(rows, output, app.GetDelimiter(), app.GetLogger())
	}
	app.GetLogger().Debug("Writing feedback to stdout", logging.F(logging.FieldCount, len(rows)))
	return common.WriteCSV(rows, cmd.OutOrStdout(), app.GetDelimiter())
}

// ToRows flattens feedback records for CSV output.
func ToRows(records []models.FeedbackRecord) []common.FeedbackRow {
	rows := make([]common.FeedbackRow, 0, len(records))
	for _, r := range records {
		row := common.FeedbackRow{
			ID:        r.ID,
			ExpenseID: r.ExpenseID,
			UserID:    r.UserID,
			Accepted:  r.WasAccepted,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if r.SuggestedCategory != nil {
			row.Suggested = r.SuggestedCategory.Name
		}
		if r.FinalCategory != nil {
			row.Final = r.FinalCategory.Name
		}
		rows = append(rows, row)
	}
	return rows
}
