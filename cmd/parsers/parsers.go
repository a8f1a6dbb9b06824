// Package parsers lists the registered parsers.
package parsers

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/parser"
)

// Cmd represents the parsers command
var Cmd = &cobra.Command{
	Use:   "parsers",
	Short: "List available parsers",
	Long: `List every registered parser in registration order, which is also the
order detection tries them in.`,
	Args: cobra.NoArgs,
	RunE: parsersFunc,
}

func parsersFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	registry := c.GetRegistry()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDETECTION")
	for _, name := range registry.Names() {
		p, err := registry.Get(name)
		if err != nil {
			return err
		}
		detection := "no"
		if parser.SupportsDetection(p) {
			detection = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", name, detection)
	}
	return w.Flush()
}
