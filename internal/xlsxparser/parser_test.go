package xlsxparser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// writeWorkbook saves rows to a new workbook in a temp dir and returns its path.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", ref, &row))
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 15, 0, 0, time.UTC)
	path := writeWorkbook(t, [][]interface{}{
		{"Zeit", "Außentemperatur, °C, Zone1, extra", "Durchfluss", "Aktiv"},
		{ts, 12.5, "n/a", true},
		{"zweite", 3, nil, false},
	})

	tbl, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, []string{"Zeit", "Außentemperatur, °C, Zone1, extra", "Durchfluss", "Aktiv"}, tbl.Header)
	require.Equal(t, 2, tbl.RowCount())

	first := tbl.Rows[0]
	require.Len(t, first, 4)
	assert.Equal(t, table.KindTime, first[0].Kind)
	assert.WithinDuration(t, ts, first[0].Time, time.Second)
	assert.Equal(t, table.Number(12.5), first[1])
	assert.Equal(t, table.String("n/a"), first[2])
	assert.Equal(t, table.Bool(true), first[3])

	second := tbl.Rows[1]
	assert.Equal(t, table.String("zweite"), second[0])
	assert.Equal(t, table.Number(3), second[1])
	assert.Equal(t, table.KindEmpty, second[2].Kind)
	assert.Equal(t, table.Bool(false), second[3])
}

func TestParseNamesEmptyHeaders(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Zeit", nil, "B"},
		{1, 2, 3, 4},
	})

	tbl, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeit", "Unnamed: 1", "B", "Unnamed: 3"}, tbl.Header)
	assert.Len(t, tbl.Rows[0], 4)
}

func TestParseEmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := Parse(path)
	assert.ErrorIs(t, err, table.ErrEmpty)
}

func TestParseNotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("Zeit;A\n"), 0o600))

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestWriteThenParse(t *testing.T) {
	ts := time.Date(2022, 6, 30, 23, 45, 0, 0, time.UTC)
	tbl := &table.Table{
		Header: []string{"Zeit", "Ruecklauf, °C", "Status"},
		Rows: [][]table.Cell{
			{table.Time(ts), table.Number(41.25), table.String("ok")},
			{table.String("Summe"), {}, table.Bool(false)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	back, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, tbl.Header, back.Header)
	require.Equal(t, 2, back.RowCount())
	assert.Equal(t, table.KindTime, back.Rows[0][0].Kind)
	assert.WithinDuration(t, ts, back.Rows[0][0].Time, time.Second)
	assert.Equal(t, table.Number(41.25), back.Rows[0][1])
	assert.Equal(t, table.String("ok"), back.Rows[0][2])
	assert.Equal(t, table.String("Summe"), back.Rows[1][0])
	assert.Equal(t, table.KindEmpty, back.Rows[1][1].Kind)
	assert.Equal(t, table.Bool(false), back.Rows[1][2])
}

func TestWriteStylesHeader(t *testing.T) {
	tbl := &table.Table{
		Header: []string{"Zeit", "A"},
		Rows:   [][]table.Cell{{table.String("1"), table.Number(2)}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))

	idx, err := f.GetCellStyle(SheetName, "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.NotEmpty(t, style.Border)

	idx, err = f.GetCellStyle(SheetName, "B2")
	require.NoError(t, err)
	assert.Zero(t, idx)
}

func TestIsBuiltinDateFormat(t *testing.T) {
	for _, id := range []int{14, 18, 22, 30, 45, 47, 57} {
		assert.True(t, isBuiltinDateFormat(id), "format %d", id)
	}
	for _, id := range []int{0, 1, 2, 9, 10, 11, 12, 13, 23, 37, 44, 49} {
		assert.False(t, isBuiltinDateFormat(id), "format %d", id)
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"yyyy-mm-dd hh:mm:ss", true},
		{"dd.mm.yyyy", true},
		{"[$-407]dd. mmmm yyyy", true},
		{"[h]:mm", true},
		{"[ss]", true},
		{"hh:mm;@", true},
		{"General", false},
		{"0.00", false},
		{"#,##0.00 \"m³\"", false},
		{"0.00\" Tage\"", false},
		{"[Red]0.00", false},
		{"0.00E+00", false},
		{"@", false},
		{`0.0\s`, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDateFormatCode(tt.code))
		})
	}
}

func TestParseLegacy(t *testing.T) {
	tbl, err := ParseLegacy(filepath.Join("testdata", "sample.xls"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Zeit", "Außentemperatur, °C, Zone1, extra", "Menge", "Status", "Fehler"}, tbl.Header)
	require.Equal(t, 2, tbl.RowCount())

	first := tbl.Rows[0]
	require.Equal(t, table.KindTime, first[0].Kind)
	assert.Equal(t, "2021-01-01 12:00:00", first[0].Time.Format(table.TimeLayout))
	assert.Equal(t, table.Number(12.5), first[1])
	assert.Equal(t, table.Number(3), first[2])
	assert.Equal(t, table.Bool(true), first[3])
	assert.Equal(t, table.String("#DIV/0!"), first[4])

	second := tbl.Rows[1]
	assert.Equal(t, table.String("t2"), second[0])
	assert.Equal(t, table.KindEmpty, second[1].Kind)
	assert.Equal(t, table.Number(4), second[2])
	assert.Equal(t, table.Bool(false), second[3])
	assert.Equal(t, table.String("ok"), second[4])
}

func TestParseLegacyMissingFile(t *testing.T) {
	_, err := ParseLegacy(filepath.Join(t.TempDir(), "absent.xls"))
	assert.Error(t, err)
}

func TestIsLegacyDateCellOutOfRange(t *testing.T) {
	book := &xlrd.Book{}
	assert.False(t, isLegacyDateCell(book, -1))
	assert.False(t, isLegacyDateCell(book, 0))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "#ERROR", errorText("x"))
	assert.Equal(t, "#ERROR", errorText(byte(0xff)))
}
