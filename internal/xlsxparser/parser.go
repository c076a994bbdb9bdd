// =============================================================================
// Ennovatis Header Converter - Workbook Parser
// =============================================================================
//
// This module is responsible for reading Excel workbooks. Only the first
// sheet is read. Its first row is the header row and its first column is
// the row-index column, the same layout as the CSV exports.
//
// CELL TYPES:
//   Unlike CSV input, workbook cells keep their type so that they are
//   written back unchanged:
//   - numbers stay numbers
//   - booleans stay booleans
//   - numbers with a date or time number format become timestamps
//   - everything else is text
//
// SUPPORTED FILES:
//   - .xlsx via excelize
//   - .xls (BIFF) via xlrd-go, see legacy.go
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// Parse reads the first sheet of an .xlsx workbook.
//
// PARAMETERS:
//   - path: The path to the workbook.
//
// RETURNS:
//   - A pointer to the table with typed cells.
//   - table.ErrEmpty if the first sheet has no header row, or the read error.
func Parse(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, table.ErrEmpty
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, table.ErrEmpty
	}

	s := &sheetReader{
		f:      f,
		sheet:  sheetName,
		styles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	t := &table.Table{
		Header: table.NameColumns(rows[0], width),
		Source: path,
	}

	for r, raw := range rows[1:] {
		row := make([]table.Cell, width)
		for c, value := range raw {
			cell, err := s.cell(r+2, c+1, value)
			if err != nil {
				return nil, err
			}
			row[c] = cell
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// isoDateLayouts are the layouts of cells stored as ISO 8601 dates (t="d").
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// sheetReader converts raw cell values of one sheet to typed cells.
type sheetReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool

	// styles caches whether a style index has a date number format.
	styles map[int]bool
}

// cell returns the typed cell at 1-based row and column.
func (s *sheetReader) cell(row, col int, raw string) (table.Cell, error) {
	if raw == "" {
		return table.Cell{}, nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Cell{}, err
	}

	typ, err := s.f.GetCellType(s.sheet, ref)
	if err != nil {
		return table.Cell{}, fmt.Errorf("failed to read cell %s: %w", ref, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return table.String(raw), nil
	case excelize.CellTypeBool:
		return table.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return table.Time(ts), nil
			}
		}
		return table.String(raw), nil
	}

	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.String(raw), nil
	}

	isDate, err := s.isDate(ref)
	if err != nil {
		return table.Cell{}, err
	}
	if isDate {
		if ts, err := excelize.ExcelDateToTime(number, s.date1904); err == nil {
			return table.Time(ts), nil
		}
	}

	return table.Number(number), nil
}

// isDate reports whether the cell at ref has a date or time number format.
func (s *sheetReader) isDate(ref string) (bool, error) {
	idx, err := s.f.GetCellStyle(s.sheet, ref)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s: %w", ref, err)
	}

	if isDate, ok := s.styles[idx]; ok {
		return isDate, nil
	}

	isDate := false
	if style, err := s.f.GetStyle(idx); err == nil && style != nil {
		isDate = isBuiltinDateFormat(style.NumFmt)
		if !isDate && style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}

	s.styles[idx] = isDate
	return isDate, nil
}

// =============================================================================
// NUMBER FORMATS
// =============================================================================

// isBuiltinDateFormat reports whether a built-in number format id shows a
// date or a time.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom number format code shows a date
// or a time. Quoted literals, escaped characters and bracketed sections
// other than elapsed time ([h], [mm], [ss]) are ignored.
func isDateFormatCode(code string) bool {
	// Only the first section (positive numbers) decides.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	if strings.EqualFold(code, "general") {
		return false
	}

	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]

		switch {
		case ch == '"':
			inQuote = !inQuote
			continue
		case inQuote:
			continue
		case ch == '\\' || ch == '_' || ch == '*':
			i++
			continue
		case ch == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if strings.Trim(inner, "hms") == "" && inner != "" {
				return true
			}
			i += end
			continue
		}

		switch ch {
		case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
			return true
		}
	}

	return false
}
