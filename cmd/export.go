package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deedfind/internal/search"
	"deedfind/internal/sheet"
	"deedfind/internal/types"
)

var errNothingToExport = errors.New("no results to export")

// exportName is the default file name for results exported on day t.
func exportName(t time.Time) string {
	return fmt.Sprintf("DeedFind_Results_%s.xlsx", t.Format("2006-01-02"))
}

// exportResults writes records to path as a table in the given view. The
// format follows the file extension. Missing parent directories are created.
func exportResults(path string, records []types.DeedRecord, v view, eq *search.Equivalence) error {
	if len(records) == 0 {
		return errNothingToExport
	}
	if _, err := sheet.FormatOf(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return sheet.SaveTable(path, resultTable(records, v, eq))
}
