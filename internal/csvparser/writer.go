package csvparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/ennovatis-konverter/internal/config"
	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// Writer writes CSV records with every field quoted.
// encoding/csv only quotes fields that need it, so records are assembled
// here.
type Writer struct {
	w              *bufio.Writer
	delimiter      rune
	lineTerminator string
}

// NewWriter creates a Writer using the delimiter and line terminator from
// settings.
func NewWriter(w io.Writer, settings config.CSVSettings) (*Writer, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}
	term, err := settings.Terminator()
	if err != nil {
		return nil, err
	}

	return &Writer{
		w:              bufio.NewWriter(w),
		delimiter:      comma,
		lineTerminator: term,
	}, nil
}

// WriteRow writes one record.
func (cw *Writer) WriteRow(fields []string) error {
	var buf bytes.Buffer
	for i, field := range fields {
		if i > 0 {
			buf.WriteRune(cw.delimiter)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString(cw.lineTerminator)

	_, err := cw.w.Write(buf.Bytes())
	return err
}

// WriteTable writes the header row followed by every data row and flushes.
func (cw *Writer) WriteTable(t *table.Table) error {
	if err := cw.WriteRow(t.Header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	fields := make([]string, 0, t.Width())
	for i, row := range t.Rows {
		fields = fields[:0]
		for _, cell := range row {
			fields = append(fields, cell.String())
		}
		if err := cw.WriteRow(fields); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return cw.w.Flush()
}

// Write serializes t to w as quoted CSV.
func Write(w io.Writer, t *table.Table, settings config.CSVSettings) error {
	cw, err := NewWriter(w, settings)
	if err != nil {
		return err
	}
	return cw.WriteTable(t)
}
