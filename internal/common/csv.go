// Package common provides CSV input and output shared by the batch and
// report commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/logging"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter separates CSV fields unless configured otherwise.
const DefaultDelimiter = ','

// MessageRow is one line of a batch ingestion file. Date is optional,
// YYYY-MM-DD or DD/MM/YYYY.
type MessageRow struct {
	UserID  int64  `csv:"user_id"`
	Date    string `csv:"date,omitempty"`
	Message string `csv:"message"`
}

// ResultRow is one line of a batch result file.
type ResultRow struct {
	Line        int    `csv:"line"`
	UserID      int64  `csv:"user_id"`
	Status      string `csv:"status"`
	ExpenseID   int64  `csv:"expense_id"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Confidence  string `csv:"confidence"`
	Reason      string `csv:"reason"`
	Warning     string `csv:"warning"`
	Error       string `csv:"error"`
	Message     string `csv:"message"`
}

// FeedbackRow is one line of a feedback export.
type FeedbackRow struct {
	ID        string `csv:"id"`
	ExpenseID int64  `csv:"expense_id"`
	UserID    int64  `csv:"user_id"`
	Suggested string `csv:"suggested"`
	Accepted  bool   `csv:"accepted"`
	Final     string `csv:"final"`
	CreatedAt string `csv:"created_at"`
}

// ParseDelimiter returns the first rune of value, or DefaultDelimiter when
// value is empty.
func ParseDelimiter(value string) (rune, error) {
	if value == "" {
		return DefaultDelimiter, nil
	}
	r := []rune(value)
	if len(r) != 1 {
		return 0, fmt.Errorf("CSV delimiter must be a single character, got %q", value)
	}
	if r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid CSV delimiter %q", value)
	}
	return r[0], nil
}

// ReadCSV decodes rows from r. Blank lines are skipped.
func ReadCSV[TCSVRow any](r io.Reader, delimiter rune) ([]TCSVRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDiscard(logger)
	logger.Info("Reading CSV file", logging.F(logging.FieldInputFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ReadCSV[TCSVRow](file, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	logger.Info("Successfully read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// ReadMessages reads a batch ingestion file and drops rows without a
// message.
func ReadMessages(filePath string, delimiter rune, logger logging.Logger) ([]MessageRow, error) {
	rows, err := ReadCSVFile[MessageRow](filePath, delimiter, logger)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, row := range rows {
		if strings.TrimSpace(row.Message) == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteCSV encodes rows to w with a header line.
func WriteCSV[TCSVRow any](rows []TCSVRow, w io.Writer, delimiter rune) error {
	if rows == nil {
		rows = []TCSVRow{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to csvFile, creating its directory if needed.
func WriteCSVFile[TCSVRow any](rows []TCSVRow, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDiscard(logger)

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteCSV(rows, file, delimiter); err != nil {
		return err
	}

	logger.Info("Successfully wrote CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
