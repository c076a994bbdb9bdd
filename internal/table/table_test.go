package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name     string
		cell     Cell
		expected string
	}{
		{"Empty", Cell{}, ""},
		{"String", String("12,5"), "12,5"},
		{"Integer number", Number(42), "42"},
		{"Decimal number", Number(3.25), "3.25"},
		{"True", Bool(true), "True"},
		{"False", Bool(false), "False"},
		{"Time", Time(ts), "2021-03-04 05:06:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cell.String())
		})
	}
}

func TestStringEmptyIsEmptyCell(t *testing.T) {
	assert.Equal(t, KindEmpty, String("").Kind)
	assert.Nil(t, String("").Value())
}

func TestTableColumns(t *testing.T) {
	tbl := &Table{Header: []string{"Zeit", "A", "B"}}

	assert.Equal(t, "Zeit", tbl.IndexName())
	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Width())

	tbl.SetColumns([]string{"X", "Y"})
	assert.Equal(t, []string{"Zeit", "X", "Y"}, tbl.Header)
}

func TestTableIndexOnly(t *testing.T) {
	tbl := &Table{Header: []string{"Zeit"}}

	assert.Nil(t, tbl.Columns())

	tbl.SetColumns(nil)
	assert.Equal(t, []string{"Zeit"}, tbl.Header)
}

func TestNameColumns(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		width    int
		expected []string
	}{
		{"Complete", []string{"Zeit", "A"}, 2, []string{"Zeit", "A"}},
		{"Empty data column", []string{"Zeit", "", "B"}, 3, []string{"Zeit", "Unnamed: 1", "B"}},
		{"Empty index kept", []string{"", "A"}, 2, []string{"", "A"}},
		{"Wider rows", []string{"Zeit"}, 3, []string{"Zeit", "Unnamed: 1", "Unnamed: 2"}},
		{"Width below header", []string{"Zeit", "A"}, 1, []string{"Zeit", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NameColumns(tt.header, tt.width))
		})
	}
}

func TestNameColumnsDoesNotMutate(t *testing.T) {
	header := []string{"Zeit", ""}
	NameColumns(header, 2)
	assert.Equal(t, "", header[1])
}

func TestTableEmpty(t *testing.T) {
	tbl := &Table{}

	assert.Equal(t, "", tbl.IndexName())
	assert.Nil(t, tbl.Columns())
	assert.Equal(t, 0, tbl.RowCount())
}
