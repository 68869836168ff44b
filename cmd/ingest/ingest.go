// Package ingest implements the ingest command.
package ingest

import (
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/dateutils"
	"github.com/ivanvallejoss/smartexpense/internal/ingest"

	"github.com/spf13/cobra"
)

var (
	userID int64
	date   string
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest MESSAGE...",
	Short: "Parse, categorize and save an expense message",
	Long: `Parse an expense message, suggest a category and save the expense.

Suggestions at or above categorization.auto_accept_threshold are applied
right away. Weaker ones are printed so they can be answered with the
confirm command.

Example:
  smartexpense ingest --user 1 "Uber al trabajo 3500"
  smartexpense ingest --user 1 --date 2024-03-15 "farmacia 12.000"`,
	Args: cobra.MinimumNArgs(1),
	RunE: ingestFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().StringVar(&date, "date", "", "Expense date (YYYY-MM-DD or DD/MM/YYYY, default now)")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}

	ctx := root.Context(cmd)
	message := strings.Join(args, " ")
	service := app.GetService()

	var result ingest.Result
	if date != "" {
		when, _, perr := dateutils.ParseDay(date, app.GetConfig().Location())
		if perr != nil {
			return fmt.Errorf("invalid --date: %w", perr)
		}
		result, err = service.IngestAt(ctx, uid, message, when)
	} else {
		result, err = service.Ingest(ctx, uid, message)
	}
	if err != nil {
		return err
	}

	reporter := app.GetReporter()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, reporter.Confirmation(*result.Expense))
	if result.Parsed.Warning != "" {
		_, _ = fmt.Fprintf(out, "⚠️ %s\n", result.Parsed.Warning)
	}
	if result.NeedsConfirmation {
		_, _ = fmt.Fprintf(out, "\n%s\n", reporter.SuggestionPrompt(result.Suggestion))
		_, _ = fmt.Fprintf(out, "Answer with: smartexpense confirm --user %d --expense %d --suggested %q [--reject --category NAME]\n",
			uid, result.Expense.ID, result.Suggestion.Category.Name)
	}
	return nil
}
