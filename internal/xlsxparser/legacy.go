package xlsxparser

import (
	"fmt"
	"math"

	"github.com/yamitzky/xlrd-go/xlrd"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// ParseLegacy reads the first sheet of a BIFF (.xls) workbook.
// Cell typing follows Parse: text, numbers, booleans and dates are kept.
// Error cells become their error text, for example "#DIV/0!".
func ParseLegacy(path string) (*table.Table, error) {
	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{FormattingInfo: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if book.NSheets == 0 {
		return nil, table.ErrEmpty
	}

	sheet, err := book.SheetByIndex(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read first sheet: %w", err)
	}
	if sheet.NRows == 0 {
		return nil, table.ErrEmpty
	}

	header := make([]string, sheet.NCols)
	for c := 0; c < sheet.NCols; c++ {
		header[c] = legacyCell(book, sheet, 0, c).String()
	}

	t := &table.Table{
		Header: table.NameColumns(header, sheet.NCols),
		Source: path,
	}

	for r := 1; r < sheet.NRows; r++ {
		row := make([]table.Cell, sheet.NCols)
		for c := 0; c < sheet.NCols; c++ {
			row[c] = legacyCell(book, sheet, r, c)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// legacyCell returns the typed cell at 0-based row and column.
func legacyCell(book *xlrd.Book, sheet *xlrd.Sheet, row, col int) table.Cell {
	value := sheet.CellValue(row, col)

	switch sheet.CellType(row, col) {
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return table.Cell{}
	case xlrd.XL_CELL_NUMBER:
		number, ok := toFloat(value)
		if !ok {
			return table.String(fmt.Sprint(value))
		}
		if isLegacyDateCell(book, sheet.CellXFIndex(row, col)) && !math.IsNaN(number) && !math.IsInf(number, 0) {
			if ts, err := xlrd.XldateAsDatetime(number, book.Datemode); err == nil {
				return table.Time(ts)
			}
		}
		return table.Number(number)
	case xlrd.XL_CELL_BOOLEAN:
		switch v := value.(type) {
		case bool:
			return table.Bool(v)
		case int:
			return table.Bool(v != 0)
		}
		return table.String(fmt.Sprint(value))
	case xlrd.XL_CELL_ERROR:
		return table.String(errorText(value))
	default:
		if value == nil {
			return table.Cell{}
		}
		if s, ok := value.(string); ok {
			return table.String(s)
		}
		return table.String(fmt.Sprint(value))
	}
}

// isLegacyDateCell reports whether the XF record of a cell has a date format.
func isLegacyDateCell(book *xlrd.Book, xfIndex int) bool {
	if xfIndex < 0 || xfIndex >= len(book.XFList) {
		return false
	}

	key := book.XFList[xfIndex].FormatKey
	if isBuiltinDateFormat(key) {
		return true
	}
	if book.FormatMap == nil {
		return false
	}

	f := book.FormatMap[key]
	if f == nil || f.FormatString == "" {
		return false
	}
	return xlrd.IsDateFormatString(book, f.FormatString)
}

func errorText(value interface{}) string {
	switch v := value.(type) {
	case byte:
		if text, ok := xlrd.ErrorTextFromCode[v]; ok {
			return text
		}
	case int:
		if text, ok := xlrd.ErrorTextFromCode[byte(v)]; ok {
			return text
		}
	}
	return "#ERROR"
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
