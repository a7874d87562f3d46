package search

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnRole is the logical meaning of a spreadsheet column.
type ColumnRole int

const (
	// RolePrimary holds values of the Mazaya field (header "Hajry").
	RolePrimary ColumnRole = iota
	// RoleSecondary holds values of the Title field (header "Mazaya").
	RoleSecondary
	// RoleBuilding holds building numbers.
	RoleBuilding
)

// Roles lists the column roles in detection order.
var Roles = []ColumnRole{RolePrimary, RoleSecondary, RoleBuilding}

func (r ColumnRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleBuilding:
		return "building"
	}
	return fmt.Sprintf("ColumnRole(%d)", int(r))
}

// Columns maps each role to the exact, case-sensitive header that carries it.
type Columns struct {
	Primary   string
	Secondary string
	Building  string
}

// DefaultColumns returns the headers of the bulk search template.
func DefaultColumns() Columns {
	return Columns{
		Primary:   "Hajry",
		Secondary: "Mazaya",
		Building:  "Building No.",
	}
}

// Header returns the header name configured for role.
func (c Columns) Header(role ColumnRole) string {
	switch role {
	case RolePrimary:
		return c.Primary
	case RoleSecondary:
		return c.Secondary
	case RoleBuilding:
		return c.Building
	}
	return ""
}

// ColumnMap is the result of matching a header row against Columns.
type ColumnMap struct {
	index [3]int
}

// Detect finds the first header equal to each configured name.
func (c Columns) Detect(header []string) ColumnMap {
	m := ColumnMap{index: [3]int{-1, -1, -1}}
	for _, role := range Roles {
		name := c.Header(role)
		if name == "" {
			continue
		}
		for i, h := range header {
			if h == name {
				m.index[role] = i
				break
			}
		}
	}
	return m
}

// Index returns the column position of role.
func (m ColumnMap) Index(role ColumnRole) (int, bool) {
	if role < 0 || int(role) >= len(m.index) {
		return -1, false
	}
	i := m.index[role]
	return i, i >= 0
}

// Any reports whether at least one role was found.
func (m ColumnMap) Any() bool {
	for _, i := range m.index {
		if i >= 0 {
			return true
		}
	}
	return false
}

// value reads role's cell from row, or "" when the column or cell is absent.
func (m ColumnMap) value(row []any, role ColumnRole) string {
	i, ok := m.Index(role)
	if !ok || i >= len(row) {
		return ""
	}
	return CellString(row[i])
}

// CellString renders a grid cell as a trimmed search term. Whole numbers lose
// any fractional part so that a numeric 108 reads "108".
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case bool:
		return strconv.FormatBool(c)
	case fmt.Stringer:
		return strings.TrimSpace(c.String())
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
