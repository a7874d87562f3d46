package database

import (
	"iter"
	"slices"

	"deedfind/internal/types"

	"github.com/cespare/xxhash/v2"
)

// Store is the fixed, ordered deed dataset. It is built once and never
// mutated, so a single Store can be shared between sessions without locking.
type Store struct {
	records     []types.DeedRecord
	source      string
	fingerprint uint64
}

// NewStore copies records into a new Store. source is a human-readable
// description of where the records came from.
func NewStore(source string, records []types.DeedRecord) *Store {
	s := &Store{
		records: slices.Clone(records),
		source:  source,
	}

	h := xxhash.New()
	for _, r := range s.records {
		h.WriteString(r.Key())
		h.WriteString("\n")
	}
	s.fingerprint = h.Sum64()
	return s
}

// Len returns the number of records, duplicates included.
func (s *Store) Len() int {
	return len(s.records)
}

// Source describes where the records were loaded from.
func (s *Store) Source() string {
	return s.source
}

// Fingerprint is a hash over every record key in order. Two stores with the
// same fingerprint hold the same dataset.
func (s *Store) Fingerprint() uint64 {
	return s.fingerprint
}

// All iterates the records in load order.
func (s *Store) All() iter.Seq[types.DeedRecord] {
	return func(yield func(types.DeedRecord) bool) {
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Records returns a copy of the records in load order.
func (s *Store) Records() []types.DeedRecord {
	return slices.Clone(s.records)
}
