package search

import (
	"fmt"

	"deedfind/internal/types"
)

// Grid is a decoded spreadsheet: one header row and the data rows below it.
// Cells are strings, numbers or nil.
type Grid struct {
	Header []string
	Rows   [][]any
}

// Outcome tells apart the ways a query can come back empty.
type Outcome int

const (
	// OutcomeNoQuery means nothing was searched.
	OutcomeNoQuery Outcome = iota
	// OutcomeFound means at least one record matched.
	OutcomeFound
	// OutcomeNotFound means a query ran and matched nothing.
	OutcomeNotFound
	// OutcomeUnrecognized means the grid was empty or had none of the expected columns.
	OutcomeUnrecognized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoQuery:
		return "no query"
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not found"
	case OutcomeUnrecognized:
		return "unrecognized input"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// RowRule is the matching rule chosen for one grid row.
type RowRule int

const (
	RuleSkip RowRule = iota
	RulePrimaryBuilding
	RuleSecondaryBuilding
	RulePrimary
	RuleSecondary
	RuleBuilding
)

func (r RowRule) String() string {
	switch r {
	case RuleSkip:
		return "skip"
	case RulePrimaryBuilding:
		return "primary+building"
	case RuleSecondaryBuilding:
		return "secondary+building"
	case RulePrimary:
		return "primary"
	case RuleSecondary:
		return "secondary"
	case RuleBuilding:
		return "building"
	}
	return fmt.Sprintf("RowRule(%d)", int(r))
}

// SelectRule picks the most precise rule the present values allow. Rows that
// carry a building number next to an identifier are matched on both.
func SelectRule(primary, secondary, building string) RowRule {
	switch {
	case primary != "" && building != "":
		return RulePrimaryBuilding
	case secondary != "" && building != "":
		return RuleSecondaryBuilding
	case primary != "":
		return RulePrimary
	case secondary != "":
		return RuleSecondary
	case building != "":
		return RuleBuilding
	}
	return RuleSkip
}

// BulkResult is the outcome of MatchBulk.
type BulkResult struct {
	Records []types.DeedRecord
	Outcome Outcome
	Columns ColumnMap

	// RowsSearched counts rows that were not skipped.
	RowsSearched int
	// RowsMatched counts rows with at least one match.
	RowsMatched int
}

// MatchBulk matches every data row of grid and returns the deduplicated union.
//
// In ModeBulk each row is matched exactly using the first applicable rule of
// SelectRule. Any other mode runs Match on each non-empty recognized cell.
func (s *Searcher) MatchBulk(grid Grid, mode Mode) BulkResult {
	if len(grid.Header) == 0 || len(grid.Rows) == 0 {
		s.logger.Info("bulk search skipped: grid has no data", "headers", len(grid.Header), "rows", len(grid.Rows))
		return BulkResult{Outcome: OutcomeUnrecognized}
	}

	cols := s.columns.Detect(grid.Header)
	if !cols.Any() {
		s.logger.Info("bulk search skipped: no recognized columns",
			"available", grid.Header,
			"expected", []string{s.columns.Primary, s.columns.Secondary, s.columns.Building})
		return BulkResult{Outcome: OutcomeUnrecognized, Columns: cols}
	}

	primaryIdx, _ := cols.Index(RolePrimary)
	secondaryIdx, _ := cols.Index(RoleSecondary)
	buildingIdx, _ := cols.Index(RoleBuilding)
	s.logger.Debug("bulk column detection",
		"primary", primaryIdx, "secondary", secondaryIdx, "building", buildingIdx)

	res := BulkResult{Columns: cols}
	var union []types.DeedRecord
	for n, row := range grid.Rows {
		primary := cols.value(row, RolePrimary)
		secondary := cols.value(row, RoleSecondary)
		building := cols.value(row, RoleBuilding)

		var matches []types.DeedRecord
		if mode == ModeBulk {
			rule := SelectRule(primary, secondary, building)
			if rule == RuleSkip {
				continue
			}
			matches = s.matchRow(rule, primary, secondary, building)
			s.logger.Debug("bulk row",
				"row", n+1, "rule", rule,
				"primary", primary, "secondary", secondary, "building", building,
				"matches", len(matches))
		} else {
			if primary == "" && secondary == "" && building == "" {
				continue
			}
			matches = s.matchCells(mode, primary, secondary, building)
		}

		res.RowsSearched++
		if len(matches) > 0 {
			res.RowsMatched++
			union = append(union, matches...)
		}
	}

	res.Records = Dedup(union)
	switch {
	case len(res.Records) > 0:
		res.Outcome = OutcomeFound
	case res.RowsSearched > 0:
		res.Outcome = OutcomeNotFound
	default:
		res.Outcome = OutcomeNoQuery
	}

	s.logger.Info("bulk search completed",
		"mode", mode,
		"rows", len(grid.Rows),
		"searched", res.RowsSearched,
		"matched", res.RowsMatched,
		"unique", len(res.Records))
	return res
}

// matchRow applies one exact bulk rule.
func (s *Searcher) matchRow(rule RowRule, primary, secondary, building string) []types.DeedRecord {
	inBuilding := func(r types.DeedRecord) bool {
		return s.equivalence.Matches(r.BuildingNo, building)
	}

	switch rule {
	case RulePrimaryBuilding:
		return s.filter(func(r types.DeedRecord) bool { return r.Mazaya == primary && inBuilding(r) })
	case RuleSecondaryBuilding:
		return s.filter(func(r types.DeedRecord) bool { return r.Title == secondary && inBuilding(r) })
	case RulePrimary:
		return s.filter(func(r types.DeedRecord) bool { return r.Mazaya == primary })
	case RuleSecondary:
		return s.filter(func(r types.DeedRecord) bool { return r.Title == secondary })
	case RuleBuilding:
		return s.filter(inBuilding)
	}
	return nil
}

// matchCells runs single-query matching on each recognized cell of a row.
func (s *Searcher) matchCells(mode Mode, primary, secondary, building string) []types.DeedRecord {
	if mode == ModeCombined {
		var out []types.DeedRecord
		if primary == "" && secondary == "" {
			return s.Match(mode, "", building)
		}
		for _, term := range []string{primary, secondary} {
			if term != "" {
				out = append(out, s.Match(mode, term, building)...)
			}
		}
		return out
	}

	var out []types.DeedRecord
	for _, term := range []string{primary, secondary, building} {
		if term != "" {
			out = append(out, s.Match(mode, term, "")...)
		}
	}
	return out
}
