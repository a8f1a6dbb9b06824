package batch

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/fileutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/normalizer"
	"fjacquet/taxstmt/internal/parser"
)

// InputDir is the per-client directory holding one subdirectory per
// parser name: <client>/input/<parser_name>/...
const InputDir = "input"

// FileReport is the outcome of one file.
type FileReport struct {
	File      string
	Parser    string
	Extracted int
	Validated int
	Skipped   []string
	Err       error
}

// Failed reports whether the file could not be processed at all.
func (f FileReport) Failed() bool {
	return f.Err != nil
}

// Report is the outcome of one batch run.
type Report struct {
	RunID        string
	Files        []FileReport
	Transactions []models.CanonicalTransaction
	Duplicates   int
}

// Failures counts files that failed as a whole.
func (r *Report) Failures() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Runner processes files one at a time. A failure or panic inside one
// file is recorded on that file's report and the loop moves on.
type Runner struct {
	normalizer *normalizer.Normalizer
	registry   *parser.Registry
	aggregator *Aggregator
	logger     logging.Logger

	// Config is passed to every parse call.
	Config models.ParseConfig
	// AccountFromFilename fills Config.AccountNumber from export file
	// names such as CAMT.053_54293249_2025-04-01_2025-04-30_1.xml.
	AccountFromFilename bool
}

// NewRunner creates a Runner. The registry is used for detection when a
// directory is processed without a parser name.
func NewRunner(n *normalizer.Normalizer, registry *parser.Registry, logger logging.Logger) *Runner {
	logger = logging.OrDefault(logger)
	return &Runner{
		normalizer: n,
		registry:   registry,
		aggregator: NewAggregator(logger),
		logger:     logger.WithField(logging.FieldComponent, "batch"),
	}
}

// ProcessFiles normalizes every file with parserName.
func (r *Runner) ProcessFiles(parserName string, files []string) *Report {
	report := r.newReport()
	for _, file := range files {
		r.add(report, r.processFile(parserName, file))
	}
	r.finish(report)
	return report
}

// ProcessDirectory normalizes every file under dir. With an empty
// parserName each file's parser is detected; undetected files are
// reported as failures.
func (r *Runner) ProcessDirectory(dir, parserName string) (*Report, error) {
	files, err := fileutils.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	report := r.newReport()
	for _, file := range files {
		name := parserName
		if name == "" {
			detected, ok := r.registry.Detect(file)
			if !ok {
				r.logger.Warn("No parser detected", logging.F(logging.FieldFile, file))
				r.add(report, fileResult{report: FileReport{File: file, Err: fmt.Errorf("no parser detected")}})
				continue
			}
			name = detected
		}
		r.add(report, r.processFile(name, file))
	}
	r.finish(report)
	return report, nil
}

// ProcessClient walks <clientDir>/input/<parser_name>/ and normalizes each
// subdirectory with the parser it is named after. Unknown parser names
// fail their files without stopping the run.
func (r *Runner) ProcessClient(clientDir string) (*Report, error) {
	inputDir := filepath.Join(clientDir, InputDir)
	parserDirs, err := fileutils.SubDirectories(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading client input directory: %w", err)
	}

	report := r.newReport()
	for _, parserName := range parserDirs {
		files, err := fileutils.ListFiles(filepath.Join(inputDir, parserName))
		if err != nil {
			r.logger.WithError(err).Error("Failed to list parser directory",
				logging.F(logging.FieldParser, parserName))
			continue
		}
		for _, file := range files {
			r.add(report, r.processFile(parserName, file))
		}
	}
	r.finish(report)
	return report, nil
}

// Groups splits the run's transactions by account.
func (r *Runner) Groups(report *Report) []AccountGroup {
	return r.aggregator.GroupByAccount(report.Transactions)
}

type fileResult struct {
	report       FileReport
	transactions []models.CanonicalTransaction
}

func (r *Runner) processFile(parserName, file string) (res fileResult) {
	res.report = FileReport{File: file, Parser: parserName}
	logger := r.logger.WithFields(
		logging.F(logging.FieldFile, file),
		logging.F(logging.FieldParser, parserName))

	defer func() {
		if rec := recover(); rec != nil {
			res.report.Err = fmt.Errorf("panic while processing file: %v", rec)
			res.transactions = nil
			logger.Error("Recovered from panic", logging.F(logging.FieldError, fmt.Sprint(rec)))
		}
	}()

	cfg := r.Config
	if r.AccountFromFilename && cfg.AccountNumber == "" {
		if account, ok := common.AccountFromFilename(file); ok {
			cfg.AccountNumber = account
		}
	}

	result, err := r.normalizer.Normalize(parserName, file, cfg)
	if err != nil {
		res.report.Err = err
		logger.WithError(err).Error("Failed to process file")
		return res
	}

	res.report.Extracted = result.Extracted
	res.report.Validated = len(result.Transactions)
	for _, s := range result.Skipped {
		res.report.Skipped = append(res.report.Skipped, fmt.Sprintf("line %d: %s", s.Line, s.Reason))
	}
	for _, rej := range result.Rejected {
		res.report.Skipped = append(res.report.Skipped, "record: "+rej.Err.Error())
	}
	res.transactions = result.Transactions

	logger.Info("Processed file",
		logging.F("extracted", res.report.Extracted),
		logging.F("validated", res.report.Validated),
		logging.F("skipped", len(res.report.Skipped)))
	return res
}

func (r *Runner) newReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

func (r *Runner) add(report *Report, res fileResult) {
	report.Files = append(report.Files, res.report)
	report.Transactions = append(report.Transactions, res.transactions...)
}

func (r *Runner) finish(report *Report) {
	report.Duplicates = r.aggregator.LogDuplicates(report.Transactions)
	r.logger.Info("Batch complete",
		logging.F(logging.FieldRunID, report.RunID),
		logging.F("files", len(report.Files)),
		logging.F("failed", report.Failures()),
		logging.F("transactions", len(report.Transactions)),
		logging.F("duplicates", report.Duplicates))
}
