package dataset

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkanyama/hdssqc/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// Read loads a raw table from path, dispatching on the file extension:
// .csv, .zip (holding one CSV) or .xlsx (first sheet).
func Read(path string) (*Table, error) {
	t, err := read(path)
	if err != nil {
		return nil, err
	}
	metrics.DatasetLoaded()
	return t, nil
}

func read(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".zip":
		return readZip(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV reads a header-led CSV stream into a Table. Cells are trimmed;
// a trimmed-empty cell is a missing value.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return fromRows(rows)
}

// readZip opens the single CSV entry of a zip archive.
func readZip(path string) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if strings.ToLower(filepath.Ext(entry.Name)) != ".csv" {
			continue
		}
		f, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %q: %w", entry.Name, err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
	return nil, fmt.Errorf("%w: no csv entry in archive", ErrEmptyInput)
}

// readXLSX reads the first sheet of a workbook as a header-led table.
func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return fromRows(rows)
}

// fromRows converts header-led row data into a columnar Table. Short
// rows, as excelize produces for trailing empty cells, are padded with
// missing values.
func fromRows(rows [][]string) (*Table, error) {
	header := rows[0]
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	columns := make(map[string][]string, len(names))
	for i, name := range names {
		col := make([]string, len(rows)-1)
		for j, row := range rows[1:] {
			if i < len(row) {
				col[j] = strings.TrimSpace(row[i])
			}
		}
		columns[name] = col
	}
	return NewTable(names, columns)
}

// WriteCSV renders a table back to CSV, preserving column order. Used by
// the synthetic-dataset generator.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(t.Names()))
	for i := 0; i < t.Rows(); i++ {
		for j, name := range t.Names() {
			col, _ := t.Column(name)
			row[j] = col[i]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
