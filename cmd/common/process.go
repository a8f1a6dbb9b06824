// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/fileutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

// WriteTransactions writes the canonical CSV to output, or to stdout when
// output is empty.
func WriteTransactions(txs []models.CanonicalTransaction, output string, delimiter rune, withHeader bool, log logging.Logger) error {
	if output == "" {
		return common.MarshalCanonical(txs, os.Stdout, delimiter, withHeader)
	}
	if withHeader {
		return common.WriteCanonicalCSV(txs, output, delimiter, log)
	}

	f, err := fileutils.CreateFile(output)
	if err != nil {
		return err
	}
	if err := common.MarshalCanonical(txs, f, delimiter, false); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteGroups writes one CSV per account into dir and returns the paths
// written.
func WriteGroups(groups []batch.AccountGroup, dir string, delimiter rune, log logging.Logger) ([]string, error) {
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(groups))
	for _, g := range groups {
		path := filepath.Join(dir, batch.OutputFilename(g.AccountID, g.DateRange))
		if err := common.WriteCanonicalCSV(g.Transactions, path, delimiter, log); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PrintReport writes one line per file with its counts and skip reasons,
// then a summary line.
func PrintReport(w io.Writer, report *batch.Report) {
	for _, f := range report.Files {
		if f.Failed() {
			fmt.Fprintf(w, "%s [%s]: FAILED: %v\n", f.File, ParserLabel(f.Parser), f.Err)
			continue
		}
		fmt.Fprintf(w, "%s [%s]: extracted=%d validated=%d skipped=%d\n",
			f.File, f.Parser, f.Extracted, f.Validated, len(f.Skipped))
		for _, s := range f.Skipped {
			fmt.Fprintf(w, "    - %s\n", s)
		}
	}
	fmt.Fprintf(w, "run %s: %d files, %d failed, %d transactions, %d duplicate hashes\n",
		report.RunID, len(report.Files), report.Failures(), len(report.Transactions), report.Duplicates)
}

// ParserLabel renders a parser name, "None" when nothing matched.
func ParserLabel(name string) string {
	if name == "" {
		return "None"
	}
	return name
}

// ExpandInputs turns file and directory arguments into a sorted file list.
func ExpandInputs(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if fileutils.DirectoryExists(p) {
			listed, err := fileutils.ListFiles(p)
			if err != nil {
				return nil, err
			}
			files = append(files, listed...)
			continue
		}
		if !fileutils.FileExists(p) {
			return nil, fmt.Errorf("input not found: %s", p)
		}
		files = append(files, p)
	}
	return files, nil
}
