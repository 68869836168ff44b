// Package parse implements the parse command.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/internal/currencyutils"

	"github.com/spf13/cobra"
)

var (
	asJSON         bool
	showCandidates bool
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse MESSAGE...",
	Short: "Extract the amount and description of an expense message",
	Long: `Extract the amount and description of a free-form expense message.

Nothing is stored. Use --candidates to list every number the parser
considered.

Example:
  smartexpense parse "Cena 2 personas 8500"
  smartexpense parse --json '$1.500,50 supermercado'`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	Cmd.Flags().BoolVar(&showCandidates, "candidates", false, "List the amount candidates")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	message := strings.Join(args, " ")
	parser := app.GetParser()
	parsed := parser.Parse(message)
	out := cmd.OutOrStdout()

	if asJSON {
		data, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else if parsed.Succeeded {
		_, _ = fmt.Fprintf(out, "Amount: %s\n", currencyutils.FormatARS(parsed.Amount))
		_, _ = fmt.Fprintf(out, "Description: %s\n", parsed.Description)
		if parsed.Warning != "" {
			_, _ = fmt.Fprintf(out, "Warning: %s\n", parsed.Warning)
		}
	}

	if showCandidates {
		_, _ = fmt.Fprintln(out, "Candidates:")
		for _, c := range parser.Candidates(message) {
			marker := ""
			if c.HasCurrencySymbol {
				marker = " ($)"
			}
			_, _ = fmt.Fprintf(out, "  %d: %q -> %s%s\n", c.Position, c.RawText, c.Magnitude.String(), marker)
		}
	}

	if !parsed.Succeeded {
		return parsed.Err
	}
	return nil
}
