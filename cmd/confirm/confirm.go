// Package confirm implements the confirm command.
package confirm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/categorizer"
	"github.com/ivanvallejoss/smartexpense/internal/models"

	"github.com/spf13/cobra"
)

var (
	userID    int64
	expenseID int64
	suggested string
	category  string
	reject    bool
)

// Cmd represents the confirm command
var Cmd = &cobra.Command{
	Use:   "confirm",
	Short: "Answer a category suggestion for a saved expense",
	Long: `Answer a category suggestion for a saved expense. The expense gets the
chosen category and the answer is recorded as feedback.

Example:
  smartexpense confirm --user 1 --expense 42 --suggested Comida
  smartexpense confirm --user 1 --expense 42 --suggested Comida --reject --category Delivery
  smartexpense confirm --user 1 --expense 42 --category Salud`,
	Args: cobra.NoArgs,
	RunE: confirmFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().Int64VarP(&expenseID, "expense", "e", 0, "Expense ID")
	Cmd.Flags().StringVar(&suggested, "suggested", "", "Category that was suggested")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Category to apply instead of the suggestion")
	Cmd.Flags().BoolVar(&reject, "reject", false, "Reject the suggestion")
	_ = Cmd.MarkFlagRequired("expense")
}

func confirmFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}
	if suggested == "" && category == "" {
		return errors.New("pass --suggested, --category or both")
	}

	ctx := root.Context(cmd)
	engine := app.GetEngine(uid)

	suggestedCat, err := lookup(ctx, engine, suggested)
	if err != nil {
		return err
	}
	finalCat, err := lookup(ctx, engine, category)
	if err != nil {
		return err
	}
	// A category given without a suggestion is a correction.
	accepted := !reject && suggestedCat != nil
	if accepted && finalCat != nil && suggestedCat != nil && finalCat.ID != suggestedCat.ID {
		accepted = false
	}

	expense, err := app.GetService().Confirm(ctx, uid, expenseID, suggestedCat, accepted, finalCat)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.GetReporter().Confirmation(expense))
	return nil
}

func lookup(ctx context.Context, engine *categorizer.Engine, name string) (*models.Category, error) {
	if name == "" {
		return nil, nil
	}
	c, ok, err := engine.FindCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unknown category %q", name)
	}
	return &c, nil
}
