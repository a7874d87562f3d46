package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"deedfind/internal/search"
	"deedfind/internal/session"
	"deedfind/internal/sheet"
	"deedfind/internal/types"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// view selects the columns of a result table.
type view int

const (
	viewCompact view = iota
	viewFull
	viewBulk
	viewBulkFull
)

func viewFor(bulk, full bool) view {
	switch {
	case bulk && full:
		return viewBulkFull
	case bulk:
		return viewBulk
	case full:
		return viewFull
	}
	return viewCompact
}

// column is one displayed field. The "Hajry" column shows the Mazaya field and
// the "Mazaya" column shows Title; the dataset names the two schemes the other
// way round.
type column struct {
	header string
	value  func(types.DeedRecord, *search.Equivalence) string
}

var (
	colBuilding = column{"Building No.", func(r types.DeedRecord, eq *search.Equivalence) string {
		return eq.DisplayBuilding(r.BuildingNo)
	}}
	colHajry = column{"Hajry", func(r types.DeedRecord, _ *search.Equivalence) string {
		return r.Mazaya
	}}
	colMazaya = column{"Mazaya", func(r types.DeedRecord, _ *search.Equivalence) string {
		return r.Title
	}}
	colPlot = column{"Plot", func(r types.DeedRecord, _ *search.Equivalence) string {
		return r.HajryPlotNumber
	}}
	colReference = column{"Reference Deed", func(r types.DeedRecord, eq *search.Equivalence) string {
		return eq.DisplayReference(r.ReferenceDeed)
	}}
	colMunicipality = column{"Municipality/Title Deed", func(r types.DeedRecord, _ *search.Equivalence) string {
		return r.MunicipalityTitleDeed
	}}
	colActualPlot = column{"Actual Hajry Plot No.", func(r types.DeedRecord, _ *search.Equivalence) string {
		return r.HajryPlotNumber
	}}
)

func (v view) columns() []column {
	switch v {
	case viewFull:
		return []column{colBuilding, colHajry, colMazaya, colReference, colMunicipality, colActualPlot}
	case viewBulk:
		return []column{colBuilding, colHajry, colMazaya, colPlot, colReference}
	case viewBulkFull:
		return []column{colBuilding, colHajry, colMazaya, colPlot, colReference, colMunicipality}
	}
	return []column{colBuilding, colHajry, colMazaya, colPlot, colReference}
}

// displayValue renders an absent value as a dash.
func displayValue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// resultTable renders records for display or export.
func resultTable(records []types.DeedRecord, v view, eq *search.Equivalence) sheet.Table {
	cols := v.columns()
	t := sheet.Table{
		Header: make([]string, len(cols)),
		Rows:   make([][]string, 0, len(records)),
	}
	for i, c := range cols {
		t.Header[i] = c.header
	}
	for _, r := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = displayValue(c.value(r, eq))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// tableLines lays out t as aligned text: the header, a rule, then one line per row.
func tableLines(t sheet.Table) []string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if n := utf8.RuneCountInString(v); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c))
		}
		return strings.TrimRight(strings.Join(parts, " | "), " ")
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, format(t.Header))
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	lines = append(lines, strings.Join(rule, "-+-"))
	for _, row := range t.Rows {
		lines = append(lines, format(row))
	}
	return lines
}

// printer writes user-facing output, optionally with ANSI colors.
type printer struct {
	out   io.Writer
	color bool
}

func (p printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p printer) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p printer) table(t sheet.Table) {
	for _, l := range tableLines(t) {
		p.println(l)
	}
}

// results prints a result header and table.
func (p printer) results(title string, records []types.DeedRecord, v view, eq *search.Equivalence) {
	p.println(p.paint(colorGreen, fmt.Sprintf("%s: %d record(s)", title, len(records))))
	p.table(resultTable(records, v, eq))
}

// notFound prints the no-results message for a single query.
func (p printer) notFound(mode search.Mode, term, building string) {
	p.println(p.paint(colorRed, "No Results Found"))
	p.println("No properties match your search criteria")
	if term != "" {
		p.printf("  %s: %q\n", notFoundLabel(mode), term)
	}
	if mode == search.ModeCombined && building != "" {
		p.printf("  Building No.: %q\n", building)
	}
	p.println("Try adjusting your search terms or check the spelling.")
}

func notFoundLabel(mode search.Mode) string {
	if mode == search.ModeCombined {
		return "Hajry Details"
	}
	return mode.Title()
}

// unrecognized prints the message for a spreadsheet without usable columns.
func (p printer) unrecognized(cols search.Columns) {
	p.println(p.paint(colorRed, "No Results Found"))
	p.printf("Please ensure your spreadsheet has columns named %q, %q, or %q and contains valid search terms.\n",
		cols.Primary, cols.Secondary, cols.Building)
}

// bulkStats prints the row counters of a bulk search.
func (p printer) bulkStats(res search.BulkResult) {
	p.printf("Rows searched: %d, rows with matches: %d, unique results: %d\n",
		res.RowsSearched, res.RowsMatched, len(res.Records))
}

// bulk prints the outcome of a bulk search.
func (p printer) bulk(res search.BulkResult, full bool, cols search.Columns, eq *search.Equivalence) {
	switch res.Outcome {
	case search.OutcomeUnrecognized:
		p.unrecognized(cols)
		return
	case search.OutcomeNoQuery:
		p.println("The spreadsheet has no search terms.")
		return
	}
	p.bulkStats(res)
	if res.Outcome == search.OutcomeNotFound {
		p.unrecognized(cols)
		return
	}
	p.results(search.ModeBulk.Title(), res.Records, viewFor(true, full), eq)
}

// session prints the current state of s after a transition.
func (p printer) session(s *session.Session, cols search.Columns, eq *search.Equivalence) {
	if s.State() != session.Results {
		return
	}
	if err := s.DecodeError(); err != nil {
		_, name := s.Grid()
		p.println(p.paint(colorRed, fmt.Sprintf("Could not read %s: %v", name, err)))
		return
	}
	if s.FullView() {
		p.results("All Records", s.Records(), viewFull, eq)
		return
	}
	if res, ok := s.BulkStats(); ok {
		p.bulk(res, false, cols, eq)
		return
	}
	if s.NotFound() {
		term, building := s.Terms()
		p.notFound(s.Mode(), term, building)
		return
	}
	p.results(s.Mode().Title(), s.Records(), viewCompact, eq)
}

// deed prints every field of one record.
func (p printer) deed(r types.DeedRecord, eq *search.Equivalence) {
	p.println(strings.Repeat("-", 60))
	p.printf("Building No.            : %s\n", displayValue(eq.DisplayBuilding(r.BuildingNo)))
	p.printf("Hajry                   : %s\n", displayValue(r.Mazaya))
	p.printf("Mazaya                  : %s\n", displayValue(r.Title))
	p.printf("Hajry Plot No.          : %s\n", displayValue(r.HajryPlotNumber))
	p.printf("Municipality/Title Deed : %s\n", displayValue(r.MunicipalityTitleDeed))
	ref := eq.DisplayReference(r.ReferenceDeed)
	if ref != r.ReferenceDeed {
		ref += p.paint(colorCyan, " ["+r.ReferenceDeed+"]")
	}
	p.printf("Reference Deed          : %s\n", displayValue(ref))
	p.println(strings.Repeat("-", 60))
}
