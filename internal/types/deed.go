package types

import "strings"

// DeedRecord is one row of the deed dataset. Every field is optional; an absent
// value is the empty string. Records are treated as immutable values once loaded.
//
// Note the labels: Mazaya is shown to users as "Hajry" and Title as "Mazaya".
type DeedRecord struct {
	MunicipalityTitleDeed string
	HajryPlotNumber       string
	Mazaya                string
	Title                 string
	ReferenceDeed         string
	BuildingNo            string
}

// Field names a DeedRecord column.
type Field int

const (
	FieldMunicipalityTitleDeed Field = iota
	FieldHajryPlotNumber
	FieldMazaya
	FieldTitle
	FieldReferenceDeed
	FieldBuildingNo
)

// Fields is the fixed field order used for keys and general-text search.
var Fields = []Field{
	FieldMunicipalityTitleDeed,
	FieldHajryPlotNumber,
	FieldMazaya,
	FieldTitle,
	FieldReferenceDeed,
	FieldBuildingNo,
}

var fieldNames = [...]string{
	"municipalityTitleDeed",
	"hajryPlotNumber",
	"mazaya",
	"title",
	"referenceDeed",
	"buildingNo",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Get returns the value of field f.
func (d DeedRecord) Get(f Field) string {
	switch f {
	case FieldMunicipalityTitleDeed:
		return d.MunicipalityTitleDeed
	case FieldHajryPlotNumber:
		return d.HajryPlotNumber
	case FieldMazaya:
		return d.Mazaya
	case FieldTitle:
		return d.Title
	case FieldReferenceDeed:
		return d.ReferenceDeed
	case FieldBuildingNo:
		return d.BuildingNo
	}
	return ""
}

// Set returns a copy of d with field f replaced by value.
func (d DeedRecord) Set(f Field, value string) DeedRecord {
	switch f {
	case FieldMunicipalityTitleDeed:
		d.MunicipalityTitleDeed = value
	case FieldHajryPlotNumber:
		d.HajryPlotNumber = value
	case FieldMazaya:
		d.Mazaya = value
	case FieldTitle:
		d.Title = value
	case FieldReferenceDeed:
		d.ReferenceDeed = value
	case FieldBuildingNo:
		d.BuildingNo = value
	}
	return d
}

const (
	keyMissing   = "null"
	keySeparator = "|"
)

// Key returns the structural identity of the record: the six fields in Fields
// order, absent values written as "null", joined with "|". Two records are the
// same record iff their keys are equal.
func (d DeedRecord) Key() string {
	var b strings.Builder
	for i, f := range Fields {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		v := d.Get(f)
		if v == "" {
			v = keyMissing
		}
		b.WriteString(v)
	}
	return b.String()
}
