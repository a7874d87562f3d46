// Package session holds the state of one interactive search session.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"deedfind/internal/search"
	"deedfind/internal/types"
)

var (
	// ErrNoGrid is returned by SubmitBulk when no spreadsheet is staged.
	ErrNoGrid = errors.New("no spreadsheet loaded")
	// ErrNotBulkMode is returned by SubmitBulk outside ModeBulk.
	ErrNotBulkMode = errors.New("session is not in bulk mode")
	// ErrFullView is returned by SubmitBulk while the full view is on.
	ErrFullView = errors.New("full view is on")
)

// State is the coarse position of a session.
type State int

const (
	// Idle means no query has produced results since the last reset.
	Idle State = iota
	// Querying is held while a matcher runs.
	Querying
	// Results means Records holds the answer to the last query, possibly empty.
	Results
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case Results:
		return "results"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is the mutable state of one user's search session. It is not safe
// for concurrent use; create one per session. The Searcher it wraps may be shared.
type Session struct {
	searcher *search.Searcher
	logger   *slog.Logger

	state     State
	mode      search.Mode
	term      string
	secondary string
	records   []types.DeedRecord
	outcome   search.Outcome
	fullView  bool

	grid      *search.Grid
	gridName  string
	decodeErr error
	bulk      *search.BulkResult
}

// New creates an idle session in ModeGeneral.
func New(searcher *search.Searcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		searcher: searcher,
		logger:   logger,
		mode:     search.ModeGeneral,
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Mode returns the current search mode.
func (s *Session) Mode() search.Mode { return s.mode }

// Terms returns the terms of the last submitted single query.
func (s *Session) Terms() (term, secondary string) { return s.term, s.secondary }

// Records returns the current result set.
func (s *Session) Records() []types.DeedRecord { return s.records }

// Outcome classifies the current result set.
func (s *Session) Outcome() search.Outcome { return s.outcome }

// NotFound reports a query that ran and matched nothing, including bulk
// uploads that could not be used.
func (s *Session) NotFound() bool {
	return s.outcome == search.OutcomeNotFound ||
		s.outcome == search.OutcomeUnrecognized ||
		s.decodeErr != nil
}

// Unrecognized reports a staged spreadsheet without usable columns or rows.
func (s *Session) Unrecognized() bool { return s.outcome == search.OutcomeUnrecognized }

// FullView reports whether the whole dataset is shown.
func (s *Session) FullView() bool { return s.fullView }

// Grid returns the staged spreadsheet and its name.
func (s *Session) Grid() (*search.Grid, string) { return s.grid, s.gridName }

// DecodeError returns the error of the last failed spreadsheet upload.
func (s *Session) DecodeError() error { return s.decodeErr }

// BulkStats returns the statistics of the last bulk search.
func (s *Session) BulkStats() (search.BulkResult, bool) {
	if s.bulk == nil {
		return search.BulkResult{}, false
	}
	return *s.bulk, true
}

// reset clears the query and its results.
func (s *Session) reset() {
	s.state = Idle
	s.term, s.secondary = "", ""
	s.records = nil
	s.outcome = search.OutcomeNoQuery
	s.bulk = nil
}

func (s *Session) clearGrid() {
	s.grid = nil
	s.gridName = ""
	s.decodeErr = nil
}

// SetMode switches the search mode and returns to Idle, discarding terms,
// results and any staged spreadsheet.
func (s *Session) SetMode(m search.Mode) {
	s.reset()
	s.clearGrid()
	s.mode = m
	s.logger.Debug("session mode changed", "mode", m)
}

// LoadGrid stages a decoded spreadsheet and returns to Idle, leaving the full
// view. The grid is not matched until SubmitBulk.
func (s *Session) LoadGrid(name string, g search.Grid) {
	s.fullView = false
	s.reset()
	s.clearGrid()
	s.grid = &g
	s.gridName = name
	s.logger.Debug("spreadsheet staged", "name", name, "headers", g.Header, "rows", len(g.Rows))
}

// FailDecode records a spreadsheet that could not be decoded. No matcher runs.
func (s *Session) FailDecode(name string, err error) {
	s.fullView = false
	s.reset()
	s.clearGrid()
	s.gridName = name
	s.decodeErr = err
	s.state = Results
	s.logger.Warn("spreadsheet could not be read", "name", name, "error", err)
}

// Submit runs a single query. Terms are trimmed; when both are empty the
// session returns to Idle without a not-found flag. The building term is
// only kept in ModeCombined. Submits are ignored in full view and in ModeBulk.
func (s *Session) Submit(term, secondary string) {
	if s.fullView || s.mode == search.ModeBulk {
		return
	}
	s.clearGrid()

	term = strings.TrimSpace(term)
	secondary = strings.TrimSpace(secondary)
	if s.mode != search.ModeCombined {
		secondary = ""
	}
	if term == "" && secondary == "" {
		s.reset()
		return
	}

	s.state = Querying
	s.term, s.secondary = term, secondary
	s.bulk = nil
	s.records = search.Dedup(s.searcher.Match(s.mode, term, secondary))
	s.finish()
}

// SubmitBulk matches the staged spreadsheet. It only runs in ModeBulk with
// the full view off.
func (s *Session) SubmitBulk() error {
	switch {
	case s.mode != search.ModeBulk:
		return ErrNotBulkMode
	case s.fullView:
		return ErrFullView
	case s.grid == nil:
		return ErrNoGrid
	}
	s.state = Querying
	s.term, s.secondary = "", ""

	res := s.searcher.MatchBulk(*s.grid, search.ModeBulk)
	s.bulk = &res
	s.records = res.Records
	s.state = Results
	s.outcome = res.Outcome
	return nil
}

// ShowAll toggles the full view. Turning it on shows the whole deduplicated
// dataset; turning it off returns to Idle.
func (s *Session) ShowAll(on bool) {
	s.fullView = on
	s.reset()
	if !on {
		return
	}
	s.clearGrid()
	s.records = s.searcher.All()
	s.state = Results
	s.outcome = search.OutcomeFound
	if len(s.records) == 0 {
		s.outcome = search.OutcomeNoQuery
	}
}

func (s *Session) finish() {
	s.state = Results
	if len(s.records) > 0 {
		s.outcome = search.OutcomeFound
	} else {
		s.outcome = search.OutcomeNotFound
	}
	s.logger.Debug("search finished", "mode", s.mode, "term", s.term, "building", s.secondary, "results", len(s.records))
}
