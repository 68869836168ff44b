// Package summary implements the summary command.
package summary

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/dateutils"
	"github.com/ivanvallejoss/smartexpense/internal/report"

	"github.com/spf13/cobra"
)

var (
	userID int64
	month  string
	asJSON bool

	now = time.Now
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a user's spending for a month",
	Long: `Summarize a user's spending for a month, totalled per category.

Example:
  smartexpense summary --user 1
  smartexpense summary --user 1 --month 2024-03 --json`,
	Args: cobra.NoArgs,
	RunE: summaryFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Month to summarize (YYYY-MM or MM/YYYY, default current)")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}

	loc := app.GetConfig().Location()
	ref := now().In(loc)
	if month != "" {
		ref, err = dateutils.ParseMonth(month, loc)
		if err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}
	}
	from, to := report.MonthRange(ref)

	expenses, err := app.GetStore().ListExpenses(root.Context(cmd), uid)
	if err != nil {
		return err
	}
	s := report.Summarize(dateutils.MonthName(from), expenses, from, to)

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}
	_, _ = fmt.Fprint(out, app.GetReporter().SummaryText(s))
	return nil
}
