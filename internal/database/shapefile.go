package database

import (
	"fmt"
	"strings"

	"deedfind/internal/types"

	shp "github.com/jonas-p/go-shp"
)

// ShapefileColumns maps deed fields to DBF attribute names of a parcel layer.
// DBF names are limited to ten characters and compared case-insensitively.
type ShapefileColumns map[types.Field]string

// DefaultShapefileColumns is the attribute layout of the parcel layer export.
// The HAJRY attribute feeds the Mazaya field and MAZAYA feeds Title, matching
// the source spreadsheet.
func DefaultShapefileColumns() ShapefileColumns {
	return ShapefileColumns{
		types.FieldMunicipalityTitleDeed: "MUNI_DEED",
		types.FieldHajryPlotNumber:       "PLOT_NO",
		types.FieldMazaya:                "HAJRY",
		types.FieldTitle:                 "MAZAYA",
		types.FieldReferenceDeed:         "REF_DEED",
		types.FieldBuildingNo:            "BLDG_NO",
	}
}

// ReadShapefile reads deed records from the attribute table of a parcel
// shapefile. Geometry is ignored; one record is produced per feature, in
// feature order.
func ReadShapefile(path string, columns ShapefileColumns) ([]types.DeedRecord, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// Resolve attribute indexes once.
	index := make(map[types.Field]int, len(columns))
	for i, field := range r.Fields() {
		name := field.String()
		for f, col := range columns {
			if strings.EqualFold(name, col) {
				index[f] = i
			}
		}
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoKnownColumns)
	}

	var records []types.DeedRecord
	for r.Next() {
		var d types.DeedRecord
		for f, i := range index {
			d = d.Set(f, strings.TrimSpace(r.Attribute(i)))
		}
		records = append(records, d)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return records, nil
}
