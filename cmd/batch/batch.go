// Package batch handles batch processing of files
package batch

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/taxstmt/cmd/common"
	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/report"
	"fjacquet/taxstmt/internal/validation"
)

var (
	clientDir  string
	splitDir   string
	reportFile string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process a directory or a client tree",
	Long: `Normalize many files in one run. A file that fails is reported and the
run continues with the next file.

With --client, files are read from <client>/input/<parser_name>/ and each
subdirectory is parsed with the parser it is named after. A relative client
path is resolved against input.root from the configuration.

With -i, every file under the directory is parsed with -p, or with the
detected parser when -p is omitted.

Example:
  taxstmt batch --client clients/smith -o smith.csv
  taxstmt batch -i statements/ --split-dir out/ --report run.json`,
	Args: cobra.NoArgs,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&clientDir, "client", "", "Client directory holding input/<parser_name>/ subdirectories")
	Cmd.Flags().StringVar(&splitDir, "split-dir", "", "Also write one CSV per account into this directory")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write a run report; format from extension (.json, .xml, .yaml)")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger()
	cfg := c.GetConfig()
	runner := c.NewRunner()

	var runReport *batch.Report
	switch {
	case clientDir != "":
		dir := clientDir
		if !filepath.IsAbs(dir) && cfg.Input.Root != "" {
			dir = filepath.Join(cfg.Input.Root, dir)
		}
		if dir, err = inputDir(dir); err != nil {
			return err
		}
		runReport, err = runner.ProcessClient(dir)
	case root.SharedFlags.Input != "":
		var dir string
		if dir, err = inputDir(root.SharedFlags.Input); err != nil {
			return err
		}
		runReport, err = runner.ProcessDirectory(dir, root.SharedFlags.Parser)
	default:
		return fmt.Errorf("either --client or an input directory (-i) is required")
	}
	if err != nil {
		return err
	}

	common.PrintReport(cmd.ErrOrStderr(), runReport)

	if err := common.WriteTransactions(runReport.Transactions, root.SharedFlags.Output, cfg.Delimiter(), cfg.CSV.IncludeHeaders, log); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if splitDir != "" {
		paths, err := common.WriteGroups(runner.Groups(runReport), splitDir, cfg.Delimiter(), log)
		if err != nil {
			return fmt.Errorf("writing account files: %w", err)
		}
		log.Info("Wrote account files", logging.F(logging.FieldCount, len(paths)), logging.F("directory", splitDir))
	}

	if reportFile != "" {
		if err := report.NewGenerator(log).WriteFile(runReport, reportFile); err != nil {
			return err
		}
	}

	if runReport.Failures() > 0 {
		log.Warn("Batch completed with failures",
			logging.F("failed_files", runReport.Failures()),
			logging.F("total_files", len(runReport.Files)))
	}
	return nil
}

// inputDir makes dir absolute and checks that it is an existing directory.
func inputDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := validation.IsDirectory(abs); err != nil {
		return "", err
	}
	return abs, nil
}
