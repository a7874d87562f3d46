package search

import (
	"testing"

	"deedfind/internal/types"

	"github.com/stretchr/testify/assert"
)

func templateHeader() []string {
	return []string{"Hajry", "Mazaya", "Building No.", "Description"}
}

func TestSelectRule(t *testing.T) {
	tests := []struct {
		primary, secondary, building string
		want                         RowRule
	}{
		{"108", "", "1143", RulePrimaryBuilding},
		{"211", "201", "1142", RulePrimaryBuilding},
		{"", "105", "1153", RuleSecondaryBuilding},
		{"209", "203", "", RulePrimary},
		{"", "203", "", RuleSecondary},
		{"", "", "1143", RuleBuilding},
		{"", "", "", RuleSkip},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectRule(tt.primary, tt.secondary, tt.building))
		})
	}
}

func TestMatchBulkSingleRecordScenario(t *testing.T) {
	rec := types.DeedRecord{Mazaya: "108", BuildingNo: "1143"}
	s, _ := newTestSearcher(t, rec)

	assert.Equal(t, []types.DeedRecord{rec}, s.Match(ModeHajry, "108", ""))
	assert.Equal(t, []types.DeedRecord{rec}, s.Match(ModeHajry, "10", ""))

	res := s.MatchBulk(Grid{
		Header: templateHeader(),
		Rows:   [][]any{{"108", "", "1143", "Search by Hajry + Building No."}},
	}, ModeBulk)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, []types.DeedRecord{rec}, res.Records)
	assert.Equal(t, 1, res.RowsSearched)
	assert.Equal(t, 1, res.RowsMatched)
}

func TestMatchBulkBuildingEquivalence(t *testing.T) {
	omz := types.DeedRecord{BuildingNo: "OMZ1", ReferenceDeed: "1142", Mazaya: "110"}
	plain := types.DeedRecord{BuildingNo: "1142", Mazaya: "211"}
	s, _ := newTestSearcher(t, omz, plain)

	res := s.MatchBulk(Grid{
		Header: []string{"Building No."},
		Rows:   [][]any{{"1142"}},
	}, ModeBulk)
	assert.Equal(t, []types.DeedRecord{omz, plain}, res.Records)

	res = s.MatchBulk(Grid{
		Header: []string{"Building No."},
		Rows:   [][]any{{"OMZ1"}},
	}, ModeBulk)
	assert.Equal(t, []types.DeedRecord{omz}, res.Records, "alias records do not match the canonical id")

	res = s.MatchBulk(Grid{
		Header: []string{"Hajry", "Building No."},
		Rows:   [][]any{{"110", "1142"}},
	}, ModeBulk)
	assert.Equal(t, []types.DeedRecord{omz}, res.Records)
}

func TestMatchBulkPriorityIsIntersection(t *testing.T) {
	byHajry := types.DeedRecord{Mazaya: "108", BuildingNo: "1144"}
	byBuilding := types.DeedRecord{Mazaya: "109", BuildingNo: "1143"}
	both := types.DeedRecord{Mazaya: "108", BuildingNo: "1143"}
	s, _ := newTestSearcher(t, byHajry, byBuilding, both)

	res := s.MatchBulk(Grid{
		Header: templateHeader(),
		Rows:   [][]any{{"108", "", "1143"}},
	}, ModeBulk)
	assert.Equal(t, []types.DeedRecord{both}, res.Records)
}

func TestMatchBulkRules(t *testing.T) {
	r1 := types.DeedRecord{Mazaya: "108", Title: "101", BuildingNo: "1143"}
	r2 := types.DeedRecord{Mazaya: "107", Title: "105", BuildingNo: "1153"}
	r3 := types.DeedRecord{Mazaya: "209", Title: "203", BuildingNo: "1145"}
	r4 := types.DeedRecord{Mazaya: "1080", Title: "1050", BuildingNo: "1151"}
	s, _ := newTestSearcher(t, r1, r2, r3, r4)

	tests := []struct {
		name string
		row  []any
		want []types.DeedRecord
	}{
		{"secondary and building", []any{"", "105", "1153"}, []types.DeedRecord{r2}},
		{"secondary and wrong building", []any{"", "105", "1143"}, nil},
		{"primary wins over secondary", []any{"209", "101", ""}, []types.DeedRecord{r3}},
		{"secondary alone", []any{"", "203"}, []types.DeedRecord{r3}},
		{"building alone", []any{nil, nil, "1151"}, []types.DeedRecord{r4}},
		{"exact only", []any{"10"}, nil},
		{"numeric cell", []any{108.0}, []types.DeedRecord{r1}},
		{"whitespace trimmed", []any{"  107 "}, []types.DeedRecord{r2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.MatchBulk(Grid{Header: templateHeader(), Rows: [][]any{tt.row}}, ModeBulk)
			if tt.want == nil {
				assert.Empty(t, res.Records)
				assert.Equal(t, OutcomeNotFound, res.Outcome)
				return
			}
			assert.Equal(t, tt.want, res.Records)
		})
	}
}

func TestMatchBulkUnionAndDedup(t *testing.T) {
	r1 := types.DeedRecord{Mazaya: "108", BuildingNo: "1143"}
	r2 := types.DeedRecord{Mazaya: "108", BuildingNo: "1144"}
	r3 := types.DeedRecord{Mazaya: "211", BuildingNo: "1144"}
	s, _ := newTestSearcher(t, r1, r2, r3, r1)

	res := s.MatchBulk(Grid{
		Header: templateHeader(),
		Rows: [][]any{
			{"211"},
			{"108"},
			{"", "", "1144"},
			{},
			{"999"},
		},
	}, ModeBulk)

	assert.Equal(t, []types.DeedRecord{r3, r1, r2}, res.Records)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, 4, res.RowsSearched)
	assert.Equal(t, 3, res.RowsMatched)
}

func TestMatchBulkUnrecognized(t *testing.T) {
	s, _ := newTestSearcher(t, deedA)

	tests := []struct {
		name string
		grid Grid
	}{
		{"unknown headers", Grid{Header: []string{"Foo", "Bar"}, Rows: [][]any{{"108", "1143"}}}},
		{"case sensitive headers", Grid{Header: []string{"hajry", "building no."}, Rows: [][]any{{"108", "1143"}}}},
		{"no rows", Grid{Header: templateHeader()}},
		{"no header", Grid{Rows: [][]any{{"108"}}}},
		{"empty", Grid{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.MatchBulk(tt.grid, ModeBulk)
			assert.Equal(t, OutcomeUnrecognized, res.Outcome)
			assert.Empty(t, res.Records)
		})
	}
}

func TestMatchBulkAllRowsSkipped(t *testing.T) {
	s, _ := newTestSearcher(t, deedA)
	res := s.MatchBulk(Grid{
		Header: templateHeader(),
		Rows:   [][]any{{"", "", "", "INSTRUCTIONS:"}, {nil}},
	}, ModeBulk)
	assert.Equal(t, OutcomeNoQuery, res.Outcome)
	assert.Zero(t, res.RowsSearched)
}

func TestMatchBulkCustomColumns(t *testing.T) {
	rec := types.DeedRecord{Mazaya: "108", BuildingNo: "1143"}
	s, err := NewSearcher(&sliceCorpus{records: []types.DeedRecord{rec}},
		WithColumns(Columns{Primary: "Plot Code", Secondary: "Class", Building: "Bldg"}))
	assert.NoError(t, err)

	res := s.MatchBulk(Grid{Header: []string{"Bldg", "Plot Code"}, Rows: [][]any{{"1143", "108"}}}, ModeBulk)
	assert.Equal(t, []types.DeedRecord{rec}, res.Records)

	res = s.MatchBulk(Grid{Header: templateHeader(), Rows: [][]any{{"108"}}}, ModeBulk)
	assert.Equal(t, OutcomeUnrecognized, res.Outcome)
}

func TestMatchBulkLooseModes(t *testing.T) {
	s, _ := newTestSearcher(t, deedA, deedB, deedC, deedD)
	grid := Grid{
		Header: templateHeader(),
		Rows:   [][]any{{"108", "", ""}, {"", "102", ""}},
	}

	res := s.MatchBulk(grid, ModeGeneral)
	assert.Equal(t, []types.DeedRecord{deedA, deedC, deedB}, res.Records)
	assert.Equal(t, OutcomeFound, res.Outcome)

	res = s.MatchBulk(grid, ModeHajry)
	assert.Equal(t, []types.DeedRecord{deedA, deedC}, res.Records)
	assert.Equal(t, 2, res.RowsSearched)
	assert.Equal(t, 1, res.RowsMatched)

	res = s.MatchBulk(Grid{
		Header: templateHeader(),
		Rows:   [][]any{{"108", "", "1144"}, {"", "", "OMZ"}},
	}, ModeCombined)
	assert.Equal(t, []types.DeedRecord{deedC, deedB}, res.Records)
}

func TestColumnsDetect(t *testing.T) {
	m := DefaultColumns().Detect([]string{"Description", "Building No.", "Hajry", "Hajry"})

	i, ok := m.Index(RolePrimary)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = m.Index(RoleSecondary)
	assert.False(t, ok)

	i, ok = m.Index(RoleBuilding)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = m.Index(ColumnRole(7))
	assert.False(t, ok)
	assert.True(t, m.Any())
	assert.False(t, DefaultColumns().Detect(nil).Any())
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "108", CellString(" 108 "))
	assert.Equal(t, "108", CellString(108.0))
	assert.Equal(t, "10.5", CellString(10.5))
	assert.Equal(t, "1143", CellString(1143))
	assert.Equal(t, "7", CellString(int64(7)))
	assert.Equal(t, "true", CellString(true))
}
