// Package suggest implements the suggest command.
package suggest

import (
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/cmd/root"

	"github.com/spf13/cobra"
)

var (
	userID  int64
	explain bool
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest DESCRIPTION...",
	Short: "Suggest a category for an expense description",
	Long: `Suggest a category for an expense description, using the user's
history, category keywords and the default keyword table.

A default category may be created for the user when the table matches.

Example:
  smartexpense suggest --user 1 "pizza con amigos"
  smartexpense suggest --user 1 --explain farmacia`,
	Args: cobra.MinimumNArgs(1),
	RunE: suggestFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().BoolVar(&explain, "explain", false, "Show what every strategy returned")
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}

	ctx := root.Context(cmd)
	suggestion, trace := app.GetEngine(uid).SuggestWithTrace(ctx, strings.Join(args, " "))

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, app.GetReporter().SuggestionPrompt(suggestion))
	if explain {
		_, _ = fmt.Fprintf(out, "Strategies: %s\n", trace.Summary())
		if suggestion.MatchedKeyword != "" {
			_, _ = fmt.Fprintf(out, "Matched keyword: %s\n", suggestion.MatchedKeyword)
		}
		for _, e := range trace.GetErrors() {
			_, _ = fmt.Fprintf(out, "Error: %v\n", e)
		}
	}
	return nil
}
