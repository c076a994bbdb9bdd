// =============================================================================
// Ennovatis Header Converter - Table Types
// =============================================================================
//
// This package contains the in-memory table shared by the readers, the
// writers and the converter. Types defined here are used by:
//   - csvparser
//   - xlsxparser
//   - converter
//
// LAYOUT:
//   Header[0] is the name of the row-index column (the first column of the
//   input). Header[1:] are the data column names, which are the only names
//   the converter rewrites. Every row holds the index cell at position 0.
//
// =============================================================================

package table

import (
	"errors"
	"strconv"
	"time"
)

// ErrEmpty is returned by readers when a file has no header row.
var ErrEmpty = errors.New("table has no header row")

// =============================================================================
// CELL
// =============================================================================

// Kind is the type of value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "empty"
	}
}

// Cell is a single typed value.
// CSV input only produces string and empty cells. Workbook input keeps
// numbers, booleans and timestamps so they are written back with their type.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

// TimeLayout is used when a timestamp cell is rendered as text.
const TimeLayout = "2006-01-02 15:04:05"

// String returns a cell.
func String(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: KindString, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: KindNumber, Number: f}
}

// Bool returns a boolean cell.
func Bool(b bool) Cell {
	return Cell{Kind: KindBool, Bool: b}
}

// Time returns a timestamp cell.
func Time(t time.Time) Cell {
	return Cell{Kind: KindTime, Time: t}
}

// String renders the cell as text, the way it is written to CSV.
func (c Cell) String() string {
	switch c.Kind {
	case KindString:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case KindTime:
		return c.Time.Format(TimeLayout)
	default:
		return ""
	}
}

// Value returns the cell as a Go value suitable for a spreadsheet writer.
// Empty cells return nil.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case KindString:
		return c.Text
	case KindNumber:
		return c.Number
	case KindBool:
		return c.Bool
	case KindTime:
		return c.Time
	default:
		return nil
	}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is a loaded spreadsheet: a header row and data rows.
type Table struct {
	// Header holds the index column name followed by the data column names.
	Header []string

	// Rows holds the data rows. Rows may be shorter than Header; missing
	// trailing cells are empty.
	Rows [][]Cell

	// Source is the path the table was loaded from.
	Source string
}

// IndexName returns the header of the row-index column.
func (t *Table) IndexName() string {
	if len(t.Header) == 0 {
		return ""
	}
	return t.Header[0]
}

// Columns returns the data column names (the header without the index column).
func (t *Table) Columns() []string {
	if len(t.Header) <= 1 {
		return nil
	}
	return t.Header[1:]
}

// SetColumns replaces the data column names.
// The index column name is left untouched.
func (t *Table) SetColumns(cols []string) {
	header := make([]string, 0, len(cols)+1)
	header = append(header, t.IndexName())
	header = append(header, cols...)
	t.Header = header
}

// NameColumns returns header padded to width cells, with every empty data
// column named "Unnamed: <position>". The index column name is kept as is,
// even when empty.
func NameColumns(header []string, width int) []string {
	if width < len(header) {
		width = len(header)
	}

	named := make([]string, width)
	copy(named, header)
	for i := 1; i < width; i++ {
		if named[i] == "" {
			named[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}
	return named
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Width returns the number of columns including the index column.
func (t *Table) Width() int {
	return len(t.Header)
}
