// Package search matches queries against the deed dataset.
package search

import (
	"iter"
	"log/slog"
	"strings"

	"deedfind/internal/types"
)

// Corpus is the ordered record sequence a Searcher scans.
type Corpus interface {
	All() iter.Seq[types.DeedRecord]
}

// Searcher runs single and bulk queries over a Corpus. It holds no mutable
// state and may be shared.
type Searcher struct {
	corpus      Corpus
	columns     Columns
	equivalence *Equivalence
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithColumns sets the spreadsheet headers recognized by MatchBulk.
func WithColumns(c Columns) Option {
	return func(s *Searcher) {
		s.columns = c
	}
}

// WithEquivalence sets the building equivalence used by bulk matching and display.
func WithEquivalence(e *Equivalence) Option {
	return func(s *Searcher) {
		s.equivalence = e
	}
}

// NewSearcher creates a Searcher over corpus.
func NewSearcher(corpus Corpus, opts ...Option) (*Searcher, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}

	s := &Searcher{
		corpus:      corpus,
		columns:     DefaultColumns(),
		equivalence: DefaultEquivalence(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Columns returns the recognized spreadsheet headers.
func (s *Searcher) Columns() Columns {
	return s.columns
}

// Equivalence returns the building equivalence in use.
func (s *Searcher) Equivalence() *Equivalence {
	return s.equivalence
}

// All returns the whole dataset with duplicates removed.
func (s *Searcher) All() []types.DeedRecord {
	var records []types.DeedRecord
	for r := range s.corpus.All() {
		records = append(records, r)
	}
	return Dedup(records)
}

// Match returns the records satisfying mode for the given terms, in dataset
// order. secondary is the building term and is only used by ModeCombined.
// Empty terms match nothing; the dataset is not scanned.
func (s *Searcher) Match(mode Mode, term, secondary string) []types.DeedRecord {
	if term == "" && secondary == "" {
		return nil
	}
	pred := s.predicate(mode, term, secondary)
	if pred == nil {
		return nil
	}
	return s.filter(pred)
}

func (s *Searcher) filter(pred func(types.DeedRecord) bool) []types.DeedRecord {
	var out []types.DeedRecord
	for r := range s.corpus.All() {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// predicate builds the per-record rule for a single query, or nil when the
// query cannot match anything.
func (s *Searcher) predicate(mode Mode, term, secondary string) func(types.DeedRecord) bool {
	lterm := strings.ToLower(term)
	lsecondary := strings.ToLower(secondary)

	switch mode {
	case ModeGeneral:
		if term == "" {
			return nil
		}
		return func(r types.DeedRecord) bool { return anyFieldContains(r, lterm) }
	case ModeHajry:
		if term == "" {
			return nil
		}
		return func(r types.DeedRecord) bool { return contains(r.Mazaya, lterm) }
	case ModeCombined:
		return func(r types.DeedRecord) bool {
			if term != "" && !anyFieldContains(r, lterm) {
				return false
			}
			return secondary == "" || contains(r.BuildingNo, lsecondary)
		}
	case ModeMazaya:
		if term == "" {
			return nil
		}
		return func(r types.DeedRecord) bool { return contains(r.Title, lterm) }
	case ModeBulk:
		if term == "" {
			return nil
		}
		// Exact and case-sensitive.
		return func(r types.DeedRecord) bool { return r.Mazaya != "" && r.Mazaya == term }
	}
	return nil
}

// contains reports whether value equals or contains the lowercased term,
// ignoring case. Absent values never match.
func contains(value, lterm string) bool {
	if value == "" {
		return false
	}
	v := strings.ToLower(value)
	return v == lterm || strings.Contains(v, lterm)
}

func anyFieldContains(r types.DeedRecord, lterm string) bool {
	for _, f := range types.Fields {
		if contains(r.Get(f), lterm) {
			return true
		}
	}
	return false
}
