package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/critterkeep/internal/domain"
)

// itemTable renders catalog items as aligned columns in text output.
type itemTable []domain.Item

func (t itemTable) String() string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tRARITY\tLEVEL\tTRADEABLE\tEFFECTS")
	for _, it := range t {
		effects := make([]string, len(it.Effects))
		for i, eff := range it.Effects {
			effects[i] = fmt.Sprintf("%s %+d", eff.Type, eff.Magnitude)
			if eff.Duration > 0 {
				effects[i] += " for " + eff.Duration.String()
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n",
			it.ID, it.Category, it.Rarity, it.LevelReq, it.Tradeable, strings.Join(effects, ", "))
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the item catalog",
		Long: `List every item in the configured catalog. Does not open the database.

Examples:
  critterkeep catalog
  critterkeep catalog --catalog ./items.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := rootOpts.loadBalance()
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(itemTable(c.Items()))
		},
	}
}
