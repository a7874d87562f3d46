package sheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the worksheet name of the bulk search template.
const TemplateSheet = "DeedFind Template"

// templateRows is the content of the bulk search template: the header, example
// rows for each combination and the filling instructions.
var templateRows = [][]string{
	{"Hajry", "Mazaya", "Building No.", "Description"},
	{"108", "", "1143", "Search by Hajry + Building No."},
	{"", "105", "1153", "Search by Mazaya + Building No."},
	{"211", "201", "1142", "Search by both Hajry and Mazaya + Building No."},
	{"210", "", "1144", "Mixed search combinations"},
	{"209", "203", "", "Building No. is optional"},
	{"208", "", "1145", ""},
	{"207", "301", "1151", ""},
	{"311", "", "1152", ""},
	{"310", "302", "", ""},
	{"309", "", "1143", ""},
	{"308", "304", "1153", ""},
	{"", "", "", ""},
	{"", "", "", "INSTRUCTIONS:"},
	{"", "", "", "1. Fill Hajry column with values like: 108, 107, 211, 210, etc."},
	{"", "", "", "2. Fill Mazaya column with values like: 101, 102, 103, 104, 105, 201, 202, etc."},
	{"", "", "", "3. Fill Building No. column with values like: 1143, 1144, 1145, 1142, 1153, etc."},
	{"", "", "", "4. COMBINED SEARCH OPTIONS:"},
	{"", "", "", "   - Hajry + Building No. (more precise results)"},
	{"", "", "", "   - Mazaya + Building No. (more precise results)"},
	{"", "", "", "   - Hajry only OR Mazaya only (broader search)"},
	{"", "", "", "5. Leave unused cells empty"},
	{"", "", "", "6. System will automatically detect and use available combinations"},
	{"", "", "", "7. Valid Mazaya values: 101-105, 201-205, 301-305 (per building)"},
}

// TemplateRows returns a copy of the template content, header first.
func TemplateRows() [][]string {
	out := make([][]string, len(templateRows))
	for i, r := range templateRows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// TemplateName is the default file name of the template written on day t.
func TemplateName(t time.Time) string {
	return fmt.Sprintf("DeedFind_Template_%s.xlsx", t.Format("2006-01-02"))
}

// WriteTemplate writes the bulk search template workbook to w.
func WriteTemplate(w io.Writer) error {
	return writeWorkbook(w, TemplateSheet, templateRows, []float64{15, 15, 15, 45})
}

// writeWorkbook writes rows to a single-sheet workbook with a highlighted
// header row. widths, if given, set the column widths from column A.
func writeWorkbook(w io.Writer, sheet string, rows [][]string, widths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F46E5"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	return f.Write(w)
}
