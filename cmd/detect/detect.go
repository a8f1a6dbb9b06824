// Package detect reports which parser claims each input file.
package detect

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/taxstmt/cmd/common"
	"fjacquet/taxstmt/cmd/root"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect [file|dir]...",
	Short: "Show which parser handles each file",
	Long: `Run content detection over files and directories and print the parser
name chosen for each file, or None when no parser claims it.

The generic_csv parser is never chosen by detection; use -p generic_csv.

Example:
  taxstmt detect statements/ extra/order.pdf`,
	RunE: detectFunc,
}

func detectFunc(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && root.SharedFlags.Input != "" {
		args = []string{root.SharedFlags.Input}
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one file or directory is required")
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	files, err := common.ExpandInputs(args)
	if err != nil {
		return err
	}

	registry := c.GetRegistry()
	for _, file := range files {
		name, _ := registry.Detect(file)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", file, common.ParserLabel(name))
	}
	return nil
}
