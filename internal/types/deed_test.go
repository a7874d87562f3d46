package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		record DeedRecord
		want   string
	}{
		{
			name:   "empty record",
			record: DeedRecord{},
			want:   "null|null|null|null|null|null",
		},
		{
			name: "all fields",
			record: DeedRecord{
				MunicipalityTitleDeed: "SH(A3-01)",
				HajryPlotNumber:       "SH(A3-01)",
				Mazaya:                "108",
				Title:                 "101",
				ReferenceDeed:         "1142",
				BuildingNo:            "1143",
			},
			want: "SH(A3-01)|SH(A3-01)|108|101|1142|1143",
		},
		{
			name:   "missing fields keep their position",
			record: DeedRecord{Mazaya: "108", BuildingNo: "OMZ1"},
			want:   "null|null|108|null|null|OMZ1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Key())
			assert.Equal(t, tt.record.Key(), tt.record.Key())
		})
	}
}

func TestKeyDistinguishesSingleField(t *testing.T) {
	a := DeedRecord{Mazaya: "108", BuildingNo: "1143"}
	b := a
	b.ReferenceDeed = "X"
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestGetSetRoundTrip(t *testing.T) {
	var d DeedRecord
	for i, f := range Fields {
		d = d.Set(f, f.String())
		assert.Equal(t, f.String(), d.Get(f), "field %d", i)
	}
	assert.Equal(t, "municipalityTitleDeed|hajryPlotNumber|mazaya|title|referenceDeed|buildingNo", d.Key())
	assert.Equal(t, "unknown", Field(42).String())
	assert.Equal(t, "", d.Get(Field(42)))
}
