// Package normalize converts one statement file to canonical CSV.
package normalize

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/taxstmt/cmd/common"
	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/validation"
)

var (
	statementDate string
	accountNumber string
	showSkipped   bool
)

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize one statement file",
	Long: `Parse one file with the given parser (or the detected one when -p is
omitted), apply the transformation map, validate, and write canonical CSV.

Example:
  taxstmt normalize -p chase_checking -i statement.pdf -o chase.csv
  taxstmt normalize -i export.csv --statement-date 2024-12-31`,
	Args: cobra.NoArgs,
	RunE: normalizeFunc,
}

func init() {
	Cmd.Flags().StringVar(&statementDate, "statement-date", "", "Statement date used when the document has none")
	Cmd.Flags().StringVar(&accountNumber, "account", "", "Account number overriding the one in the document")
	Cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "Print skipped lines and rejected records to stderr")
}

func normalizeFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}
	input, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}
	if err := validation.IsValidPath(input); err != nil {
		return err
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger()

	parserName := root.SharedFlags.Parser
	if parserName == "" {
		detected, ok := c.GetRegistry().Detect(input)
		if !ok {
			return fmt.Errorf("no parser detected for %s, use -p", input)
		}
		parserName = detected
		log.Info("Detected parser", logging.F(logging.FieldParser, parserName), logging.F(logging.FieldFile, input))
	}

	cfg := c.ParseConfig()
	if statementDate != "" {
		cfg.StatementDate = statementDate
	}
	cfg.AccountNumber = accountNumber

	result, err := c.GetNormalizer().Normalize(parserName, input, cfg)
	if err != nil {
		return err
	}

	if showSkipped {
		stderr := cmd.ErrOrStderr()
		for _, s := range result.Skipped {
			fmt.Fprintf(stderr, "line %d: %s\n", s.Line, s.Reason)
		}
		for _, r := range result.Rejected {
			fmt.Fprintf(stderr, "record: %v\n", r.Err)
		}
	}

	appCfg := c.GetConfig()
	if err := common.WriteTransactions(result.Transactions, root.SharedFlags.Output, appCfg.Delimiter(), appCfg.CSV.IncludeHeaders, log); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Info("Normalization completed",
		logging.F(logging.FieldParser, parserName),
		logging.F(logging.FieldFile, input),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F("skipped", len(result.Skipped)),
		logging.F("rejected", len(result.Rejected)))
	return nil
}
