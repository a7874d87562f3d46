package search

import (
	"fmt"
	"strings"
)

// Mode selects the matching rule applied to a query.
type Mode int

const (
	// ModeGeneral matches the term against every deed field.
	ModeGeneral Mode = iota
	// ModeHajry matches the term against the Mazaya field, shown as "Hajry".
	ModeHajry
	// ModeCombined matches the term against every field and a second term
	// against the building number.
	ModeCombined
	// ModeMazaya matches the term against the Title field, shown as "Mazaya".
	ModeMazaya
	// ModeBulk matches the Mazaya field exactly. Spreadsheet rows use it.
	ModeBulk
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeGeneral, ModeHajry, ModeCombined, ModeMazaya, ModeBulk}

var modeInfo = [...]struct {
	name, title, label, placeholder string
}{
	ModeGeneral:  {"general", "General Search", "General Search Term", "e.g., 108, SH(A3-01), A3"},
	ModeHajry:    {"hajry", "Hajry Search", "Hajry Value", "e.g., 108, 107, 211, 210"},
	ModeCombined: {"combined", "Combined Search", "Hajry Details", "e.g., SH(A3-01), 108"},
	ModeMazaya:   {"mazaya", "Mazaya Search", "Mazaya (Source Column) Value", "e.g., 108, 104"},
	ModeBulk:     {"bulk", "Excel Upload", "Search Term", "Enter search term"},
}

func (m Mode) valid() bool {
	return m >= 0 && int(m) < len(modeInfo)
}

// String returns the name used on the command line.
func (m Mode) String() string {
	if !m.valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeInfo[m].name
}

// Title is the menu caption of the mode.
func (m Mode) Title() string {
	if !m.valid() {
		return m.String()
	}
	return modeInfo[m].title
}

// Label is the caption of the main input field for the mode.
func (m Mode) Label() string {
	if !m.valid() {
		return "Search Term"
	}
	return modeInfo[m].label
}

// Placeholder shows example input for the mode.
func (m Mode) Placeholder() string {
	if !m.valid() {
		return "Enter search term"
	}
	return modeInfo[m].placeholder
}

// ParseMode resolves a mode name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Modes {
		if modeInfo[m].name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// ModeNames returns the names accepted by ParseMode.
func ModeNames() []string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = m.String()
	}
	return names
}
