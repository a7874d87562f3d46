package session

import (
	"errors"
	"testing"

	"deedfind/internal/database"
	"deedfind/internal/search"
	"deedfind/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deed108 = types.DeedRecord{Mazaya: "108", Title: "104", BuildingNo: "1143"}
	deedOMZ = types.DeedRecord{Mazaya: "110", Title: "102", ReferenceDeed: "1142", BuildingNo: "OMZ1"}
)

func newSession(t *testing.T) *Session {
	t.Helper()
	store := database.NewStore("test", []types.DeedRecord{deed108, deedOMZ, deed108})
	s, err := search.NewSearcher(store)
	require.NoError(t, err)
	return New(s, nil)
}

func templateGrid(rows ...[]any) search.Grid {
	return search.Grid{Header: []string{"Hajry", "Mazaya", "Building No."}, Rows: rows}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, search.ModeGeneral, s.Mode())
	assert.Empty(t, s.Records())
	assert.False(t, s.NotFound())
	assert.False(t, s.FullView())
}

func TestSubmit(t *testing.T) {
	s := newSession(t)

	s.Submit(" 108 ", "")
	assert.Equal(t, Results, s.State())
	assert.Equal(t, []types.DeedRecord{deed108}, s.Records(), "results are deduplicated")
	assert.Equal(t, search.OutcomeFound, s.Outcome())
	term, _ := s.Terms()
	assert.Equal(t, "108", term)

	s.Submit("nothing", "")
	assert.Equal(t, Results, s.State())
	assert.Empty(t, s.Records())
	assert.True(t, s.NotFound())

	s.Submit("  ", "")
	assert.Equal(t, Idle, s.State())
	assert.False(t, s.NotFound(), "an empty query is not a miss")
}

func TestSubmitCombinedKeepsBuilding(t *testing.T) {
	s := newSession(t)

	s.Submit("", "1143")
	assert.Equal(t, Idle, s.State(), "building term ignored outside combined mode")

	s.SetMode(search.ModeCombined)
	s.Submit("", "omz")
	assert.Equal(t, []types.DeedRecord{deedOMZ}, s.Records())
	_, building := s.Terms()
	assert.Equal(t, "omz", building)
}

func TestSetModeResets(t *testing.T) {
	s := newSession(t)
	s.Submit("108", "")
	s.LoadGrid("upload.xlsx", templateGrid([]any{"108"}))

	s.SetMode(search.ModeMazaya)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, search.ModeMazaya, s.Mode())
	assert.Empty(t, s.Records())
	g, name := s.Grid()
	assert.Nil(t, g)
	assert.Empty(t, name)
}

func TestBulkFlow(t *testing.T) {
	s := newSession(t)
	s.SetMode(search.ModeBulk)

	assert.ErrorIs(t, s.SubmitBulk(), ErrNoGrid)

	s.Submit("108", "")
	assert.Equal(t, Idle, s.State(), "single queries are ignored in bulk mode")

	s.LoadGrid("upload.xlsx", templateGrid([]any{"", "", "1142"}, []any{"108", "", "1143"}))
	assert.Equal(t, Idle, s.State())
	g, name := s.Grid()
	require.NotNil(t, g)
	assert.Equal(t, "upload.xlsx", name)

	require.NoError(t, s.SubmitBulk())
	assert.Equal(t, Results, s.State())
	assert.Equal(t, []types.DeedRecord{deedOMZ, deed108}, s.Records())
	stats, ok := s.BulkStats()
	require.True(t, ok)
	assert.Equal(t, 2, stats.RowsSearched)
	assert.Equal(t, 2, stats.RowsMatched)

	// A new upload returns to idle.
	s.LoadGrid("second.xlsx", templateGrid([]any{"999"}))
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Records())
	_, ok = s.BulkStats()
	assert.False(t, ok)

	require.NoError(t, s.SubmitBulk())
	assert.True(t, s.NotFound())
	assert.False(t, s.Unrecognized())
}

func TestBulkUnrecognized(t *testing.T) {
	s := newSession(t)
	s.SetMode(search.ModeBulk)
	s.LoadGrid("foo.csv", search.Grid{Header: []string{"Foo", "Bar"}, Rows: [][]any{{"108", "1143"}}})

	require.NoError(t, s.SubmitBulk())
	assert.True(t, s.Unrecognized())
	assert.True(t, s.NotFound())
	assert.Empty(t, s.Records())
}

func TestFailDecode(t *testing.T) {
	s := newSession(t)
	s.SetMode(search.ModeBulk)
	s.LoadGrid("ok.xlsx", templateGrid([]any{"108"}))

	decodeErr := errors.New("zip: not a valid zip file")
	s.FailDecode("broken.xlsx", decodeErr)

	assert.Equal(t, Results, s.State())
	assert.ErrorIs(t, s.DecodeError(), decodeErr)
	assert.True(t, s.NotFound())
	assert.Empty(t, s.Records())
	assert.ErrorIs(t, s.SubmitBulk(), ErrNoGrid, "the failed upload replaced the staged grid")
}

func TestShowAll(t *testing.T) {
	s := newSession(t)
	s.Submit("108", "")

	s.ShowAll(true)
	assert.True(t, s.FullView())
	assert.Equal(t, Results, s.State())
	assert.Equal(t, []types.DeedRecord{deed108, deedOMZ}, s.Records())
	term, _ := s.Terms()
	assert.Empty(t, term)

	s.Submit("110", "")
	assert.Equal(t, []types.DeedRecord{deed108, deedOMZ}, s.Records(), "queries are ignored in full view")

	s.ShowAll(false)
	assert.False(t, s.FullView())
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Records())
	assert.False(t, s.NotFound())
}

func TestLoadGridLeavesFullView(t *testing.T) {
	s := newSession(t)
	s.ShowAll(true)
	s.SetMode(search.ModeBulk)
	require.True(t, s.FullView())

	s.LoadGrid("upload.xlsx", templateGrid([]any{"108"}))
	assert.False(t, s.FullView())
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.SubmitBulk())
	assert.False(t, s.FullView())
	assert.Equal(t, []types.DeedRecord{deed108}, s.Records())
}

func TestFailDecodeLeavesFullView(t *testing.T) {
	s := newSession(t)
	s.SetMode(search.ModeBulk)
	s.ShowAll(true)

	s.FailDecode("broken.xlsx", errors.New("zip: not a valid zip file"))
	assert.False(t, s.FullView())
	assert.True(t, s.NotFound())
}

func TestSubmitBulkGuards(t *testing.T) {
	s := newSession(t)
	s.LoadGrid("upload.xlsx", templateGrid([]any{"108"}))
	assert.ErrorIs(t, s.SubmitBulk(), ErrNotBulkMode, "a grid staged outside bulk mode is not matched")
	assert.Equal(t, Idle, s.State())

	s.SetMode(search.ModeBulk)
	s.ShowAll(true)
	assert.ErrorIs(t, s.SubmitBulk(), ErrFullView)
	assert.True(t, s.FullView())
	assert.Equal(t, []types.DeedRecord{deed108, deedOMZ}, s.Records(), "the full view is left untouched")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "querying", Querying.String())
	assert.Equal(t, "results", Results.String())
	assert.Equal(t, "State(9)", State(9).String())
}
