// Package common provides shared functionality across different parsers.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// ReadCSVFile reads CSV data into a slice of structs using gocsv
// This is a generic function that can be used by any parser
// TCSVRow is the struct type that maps to the CSV columns
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)
	logger.Debug("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(newReader(file, delimiter), &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// ReadCSVMaps reads a headered comma-separated file into one map per row.
// The header is returned separately so callers keep the column order.
func ReadCSVMaps(filePath string) ([]string, []map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	header, err := newReader(file, DefaultDelimiter).Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("error reading CSV header: file is empty")
		}
		return nil, nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("error rewinding CSV file: %w", err)
	}

	rows, err := gocsv.CSVToMaps(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return header, rows, nil
}

// ReadHeader returns the first record of a CSV file.
func ReadHeader(filePath string, delimiter rune) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return newReader(file, delimiter).Read()
}

// WriteCanonicalCSV writes canonical transactions to csvFile, creating its
// directory. Columns follow the canonical schema order.
func WriteCanonicalCSV(records []models.CanonicalTransaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger)

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.OpenFile(csvFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionOutputFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := MarshalCanonical(records, file, delimiter, true); err != nil {
		return err
	}

	logger.Info("Wrote canonical transactions",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// MarshalCanonical writes canonical transactions to w.
func MarshalCanonical(records []models.CanonicalTransaction, w io.Writer, delimiter rune, withHeader bool) error {
	if records == nil {
		records = []models.CanonicalTransaction{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = orDefault(delimiter)
	out := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if withHeader {
		err = gocsv.MarshalCSV(records, out)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(records, out)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ReadCanonicalCSV reads a file written by WriteCanonicalCSV.
func ReadCanonicalCSV(csvFile string, delimiter rune, logger logging.Logger) ([]models.CanonicalTransaction, error) {
	return ReadCSVFile[models.CanonicalTransaction](csvFile, delimiter, logger)
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = orDefault(delimiter)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func orDefault(delimiter rune) rune {
	if delimiter == 0 {
		return DefaultDelimiter
	}
	return delimiter
}
