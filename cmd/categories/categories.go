// Package categories implements the categories command.
package categories

import (
	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	userID       int64
	showDefaults bool
	addName      string
	addKeywords  []string
	addColor     string
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List or add a user's categories",
	Long: `List the categories visible to a user as YAML, the user's own first.

--defaults prints the default keyword table instead. --add creates a
category owned by the user.

Example:
  smartexpense categories --user 1
  smartexpense categories --defaults
  smartexpense categories --user 1 --add Mascotas --keywords veterinaria,alimento`,
	Args: cobra.NoArgs,
	RunE: categoriesFunc,
}

func init() {
	root.AddUserFlag(Cmd, &userID)
	Cmd.Flags().BoolVar(&showDefaults, "defaults", false, "Print the default keyword table")
	Cmd.Flags().StringVar(&addName, "add", "", "Create a category with this name")
	Cmd.Flags().StringSliceVar(&addKeywords, "keywords", nil, "Keywords of the new category")
	Cmd.Flags().StringVar(&addColor, "color", models.DefaultCategoryColor, "Color of the new category")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if showDefaults {
		return enc.Encode(app.GetDefaults())
	}

	uid, err := root.ResolveUserID(userID)
	if err != nil {
		return err
	}
	ctx := root.Context(cmd)
	engine := app.GetEngine(uid)

	if addName != "" {
		c, err := app.GetStore().CreateCategory(ctx, &uid, addName, addKeywords, addColor)
		if err != nil {
			return err
		}
		engine.InvalidateCache()
		return enc.Encode(c)
	}

	cats, err := engine.Categories(ctx)
	if err != nil {
		return err
	}
	return enc.Encode(cats)
}
