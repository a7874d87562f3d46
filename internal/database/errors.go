package database

import "errors"

var (
	// ErrUnknownSource is returned when the configured data source is not supported.
	ErrUnknownSource = errors.New("unknown data source")

	// ErrPathRequired is returned when a file-backed source has no path.
	ErrPathRequired = errors.New("data path required")

	// ErrEmptyFile indicates a data file without a header row.
	ErrEmptyFile = errors.New("data file is empty")

	// ErrNoKnownColumns indicates a header row that names none of the deed fields.
	ErrNoKnownColumns = errors.New("no deed columns in header")

	// ErrDelimiterInValue is returned when writing a value that contains the field delimiter.
	ErrDelimiterInValue = errors.New("value contains field delimiter")

	// ErrInvalidTable is returned when the configured table name is not a plain identifier.
	ErrInvalidTable = errors.New("invalid table name")
)
