// Package export renders employees into an XLSX workbook. The sheet layout is
// described by a YAML document; layout.yaml is embedded as the default.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

//go:embed layout.yaml
var defaultLayout []byte

// Layout describes the exported sheet.
type Layout struct {
	Sheet        string         `yaml:"sheet"`
	Title        string         `yaml:"title"`
	FreezeHeader bool           `yaml:"freeze_header"`
	HeaderStyle  *StyleTemplate `yaml:"header_style"`
	Columns      []ColumnConfig `yaml:"columns"`
}

// ColumnConfig maps an employee field to a sheet column.
type ColumnConfig struct {
	// Field is one of id, first_name, last_name or email.
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

var fieldValues = map[string]func(e domain.Employee) interface{}{
	"id":         func(e domain.Employee) interface{} { return e.ID },
	"first_name": func(e domain.Employee) interface{} { return e.FirstName },
	"last_name":  func(e domain.Employee) interface{} { return e.LastName },
	"email":      func(e domain.Employee) interface{} { return e.Email },
}

// ParseLayout decodes and checks a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if l.Sheet == "" {
		l.Sheet = "Sheet1"
	}
	if len(l.Columns) == 0 {
		return nil, fmt.Errorf("layout has no columns")
	}
	for _, col := range l.Columns {
		if _, ok := fieldValues[col.Field]; !ok {
			return nil, fmt.Errorf("unknown column field %q", col.Field)
		}
	}
	return &l, nil
}

// DefaultLayout returns the embedded layout.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("embedded export layout: %v", err))
	}
	return l
}

// Exporter writes employees using a fixed layout.
type Exporter struct {
	layout *Layout
}

func NewExporter(layout *Layout) *Exporter {
	return &Exporter{layout: layout}
}

// WriteTo renders employees as a workbook into w.
func (x *Exporter) WriteTo(w io.Writer, employees []domain.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := x.layout.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if x.layout.Title != "" {
		if err := f.SetCellValue(sheet, "A1", x.layout.Title); err != nil {
			return fmt.Errorf("write title: %w", err)
		}
		row++
	}

	headerRow := row
	for i, col := range x.layout.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if col.Width > 0 {
			colName, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
				return fmt.Errorf("set column width: %w", err)
			}
		}
	}

	if x.layout.HeaderStyle != nil {
		styleID, err := createStyle(f, x.layout.HeaderStyle)
		if err != nil {
			return fmt.Errorf("create header style: %w", err)
		}
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(x.layout.Columns), headerRow)
		if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
			return fmt.Errorf("apply header style: %w", err)
		}
	}
	row++

	for _, e := range employees {
		values := make([]interface{}, len(x.layout.Columns))
		for i, col := range x.layout.Columns {
			values[i] = fieldValues[col.Field](e)
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if x.layout.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return f.NewStyle(style)
}
