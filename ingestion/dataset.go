package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers a dataset must carry.
const (
	contextColumn  = "Context"
	responseColumn = "Response"
)

// Row is a single (context, response) pair read from a dataset file.
// Line is the 1-based line or row number in the source file, including
// the header row.
type Row struct {
	Line     int
	Context  string
	Response string
}

// OpenDataset reads all rows from a dataset file, dispatching on the file
// extension. Supported formats are .csv and .xlsx; anything else returns
// ErrUnsupportedFormat without touching the file contents.
func OpenDataset(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV reads dataset rows from CSV data. The first record is the header
// and must contain Context and Response columns; other columns are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	// Datasets in the wild have ragged rows; tolerate them and let
	// per-row validation sort it out.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	contextIdx, responseIdx, err := findColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		line++
		rows = append(rows, makeRow(line, record, contextIdx, responseIdx))
	}

	return rows, nil
}

// ReadXLSX reads dataset rows from the first sheet of an XLSX workbook.
// The first row is the header and must contain Context and Response columns.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMissingColumns)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumns)
	}

	contextIdx, responseIdx, err := findColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, makeRow(i+2, record, contextIdx, responseIdx))
	}

	return rows, nil
}

// findColumns locates the Context and Response columns in a header record.
func findColumns(header []string) (contextIdx, responseIdx int, err error) {
	contextIdx, responseIdx = -1, -1
	for i, cell := range header {
		switch strings.TrimSpace(cell) {
		case contextColumn:
			contextIdx = i
		case responseColumn:
			responseIdx = i
		}
	}
	if contextIdx < 0 || responseIdx < 0 {
		return 0, 0, ErrMissingColumns
	}
	return contextIdx, responseIdx, nil
}

func makeRow(line int, record []string, contextIdx, responseIdx int) Row {
	row := Row{Line: line}
	if contextIdx < len(record) {
		row.Context = strings.TrimSpace(record[contextIdx])
	}
	if responseIdx < len(record) {
		row.Response = strings.TrimSpace(record[responseIdx])
	}
	return row
}
