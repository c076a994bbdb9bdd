package xlsxparser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// SheetName is the name of the sheet written by Write.
const SheetName = "Sheet1"

// DateTimeFormat is the number format of timestamp cells.
const DateTimeFormat = "yyyy-mm-dd hh:mm:ss"

// writerStyles holds the style ids used by Write.
type writerStyles struct {
	header    int
	index     int
	indexDate int
	date      int
}

// Write serializes t to w as an .xlsx workbook with a single sheet.
//
// PARAMETERS:
//   - w: The destination.
//   - t: The table to write.
//
// LAYOUT:
//   - Row 1 holds the header, bold and bordered.
//   - Column A holds the row index, bold and bordered.
//   - Cells keep their type; timestamps get DateTimeFormat.
func Write(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWriterStyles(f)
	if err != nil {
		return err
	}

	for c, name := range t.Header {
		ref, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, ref, name); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", ref, err)
		}
		if err := f.SetCellStyle(SheetName, ref, ref, styles.header); err != nil {
			return fmt.Errorf("failed to style header cell %s: %w", ref, err)
		}
	}

	for r, row := range t.Rows {
		for c, cell := range row {
			if err := writeCell(f, styles, r+2, c+1, cell); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeCell writes one data cell at 1-based row and column.
func writeCell(f *excelize.File, styles writerStyles, row, col int, cell table.Cell) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if value := cell.Value(); value != nil {
		if err := f.SetCellValue(SheetName, ref, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", ref, err)
		}
	}

	style := 0
	switch {
	case col == 1 && cell.Kind == table.KindTime:
		style = styles.indexDate
	case col == 1:
		style = styles.index
	case cell.Kind == table.KindTime:
		style = styles.date
	}
	if style == 0 {
		return nil
	}

	if err := f.SetCellStyle(SheetName, ref, ref, style); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", ref, err)
	}
	return nil
}

// newWriterStyles registers the styles used by Write.
func newWriterStyles(f *excelize.File) (writerStyles, error) {
	var s writerStyles

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	dateFmt := DateTimeFormat

	definitions := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
		}},
		{&s.index, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Border:    border,
			Alignment: &excelize.Alignment{Vertical: "top"},
		}},
		{&s.indexDate, &excelize.Style{
			Font:         &excelize.Font{Bold: true},
			Border:       border,
			Alignment:    &excelize.Alignment{Vertical: "top"},
			CustomNumFmt: &dateFmt,
		}},
		{&s.date, &excelize.Style{
			CustomNumFmt: &dateFmt,
		}},
	}

	for _, d := range definitions {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("failed to create style: %w", err)
		}
		*d.id = id
	}

	return s, nil
}
