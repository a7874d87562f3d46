// Package sheet converts between spreadsheet files and the tables the search
// engine consumes or produces.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"deedfind/internal/search"

	"github.com/xuri/excelize/v2"
)

// Format is a supported spreadsheet file type.
type Format int

const (
	FormatXLSX Format = iota
	FormatCSV
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadGrid decodes the first sheet of an .xlsx file, or a .csv file, into a
// Grid. An empty file yields an empty Grid, not an error.
func ReadGrid(path string) (search.Grid, error) {
	format, err := FormatOf(path)
	if err != nil {
		return search.Grid{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return search.Grid{}, err
	}
	defer f.Close()

	return DecodeGrid(f, format)
}

// DecodeGrid reads a Grid in the given format.
func DecodeGrid(r io.Reader, format Format) (search.Grid, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSXRows(r)
	case FormatCSV:
		rows, err = readCSVRows(r)
	default:
		return search.Grid{}, ErrUnsupportedFormat
	}
	if err != nil {
		return search.Grid{}, err
	}
	return gridFromRows(rows), nil
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}

	// Spreadsheet exports often start with a byte-order mark.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func gridFromRows(rows [][]string) search.Grid {
	if len(rows) == 0 {
		return search.Grid{}
	}
	g := search.Grid{
		Header: rows[0],
		Rows:   make([][]any, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		g.Rows = append(g.Rows, cells)
	}
	return g
}
