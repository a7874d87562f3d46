package search

import "errors"

var (
	// ErrUnknownMode is returned by ParseMode for names it does not recognize.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrCorpusRequired is returned when a Searcher is built without records.
	ErrCorpusRequired = errors.New("record corpus required")

	// ErrAliasConflict is returned when one value is declared as an alias of two
	// building ids, or as both an alias and a canonical id.
	ErrAliasConflict = errors.New("conflicting building alias")

	// ErrEmptyAlias is returned for blank canonical ids or aliases.
	ErrEmptyAlias = errors.New("empty building alias")
)
