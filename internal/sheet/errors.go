package sheet

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrNoSheets is returned for workbooks without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrMissingSourceColumns is returned when a source workbook names none of
	// the dataset columns.
	ErrMissingSourceColumns = errors.New("source workbook has no dataset columns")
)
