package sheet

import (
	"fmt"
	"io"
	"strings"

	"deedfind/internal/types"
)

// Source workbook headers read by ConvertSource.
const (
	SourceBuilding  = "Building No."
	SourceHajry     = "Hajry"
	SourceMazaya    = "Mazaya"
	SourcePlot      = "Municipality / Title Deed (Plot)"
	SourceReference = "Reference Deed"
)

// sourceColumns maps each source header to the record fields it fills.
var sourceColumns = map[string][]types.Field{
	SourceBuilding:  {types.FieldBuildingNo},
	SourceHajry:     {types.FieldMazaya},
	SourceMazaya:    {types.FieldTitle},
	SourcePlot:      {types.FieldHajryPlotNumber, types.FieldMunicipalityTitleDeed},
	SourceReference: {types.FieldReferenceDeed},
}

// ConvertSource reads the office source workbook and returns one record per
// data row. Rows without any value are dropped. The sheet's "Hajry" column
// lands in the Mazaya field and its "Mazaya" column in Title, which is how the
// dataset labels the two numbering schemes.
func ConvertSource(r io.Reader, format Format) ([]types.DeedRecord, error) {
	grid, err := DecodeGrid(r, format)
	if err != nil {
		return nil, err
	}

	index := make(map[int][]types.Field)
	seen := make(map[string]bool)
	for i, name := range grid.Header {
		name = strings.TrimSpace(name)
		if fields, ok := sourceColumns[name]; ok && !seen[name] {
			index[i] = fields
			seen[name] = true
		}
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: want any of %q, %q, %q, %q, %q", ErrMissingSourceColumns,
			SourceBuilding, SourceHajry, SourceMazaya, SourcePlot, SourceReference)
	}

	records := make([]types.DeedRecord, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		var (
			rec   types.DeedRecord
			empty = true
		)
		for i, fields := range index {
			if i >= len(row) {
				continue
			}
			v := sourceValue(row[i])
			if v == "" {
				continue
			}
			// A dash marks a plot without a Mazaya number.
			if v == "-" && fields[0] == types.FieldTitle {
				continue
			}
			for _, f := range fields {
				rec = rec.Set(f, v)
			}
			empty = false
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func sourceValue(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
