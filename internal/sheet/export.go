package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ExportSheet is the worksheet name of exported result tables.
const ExportSheet = "Results"

// Table is a rendered result set: display headers and display values.
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteTable writes t to w in the given format.
func WriteTable(w io.Writer, format Format, t Table) error {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Header)
	rows = append(rows, t.Rows...)

	switch format {
	case FormatXLSX:
		widths := make([]float64, len(t.Header))
		for i := range widths {
			widths[i] = 20
		}
		return writeWorkbook(w, ExportSheet, rows, widths)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	}
	return ErrUnsupportedFormat
}

// SaveTable writes t to path, choosing the format from its extension.
func SaveTable(path string, t Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, format, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
