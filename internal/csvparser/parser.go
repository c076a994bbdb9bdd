// =============================================================================
// Ennovatis Header Converter - CSV Parser Module
// =============================================================================
//
// This module is responsible for reading the CSV exports. It handles:
//   - Different delimiters (semicolon by default, comma, pipe, tab)
//   - Different input encodings (UTF-8 with or without BOM, Windows-1252,
//     ISO-8859-1, ISO-8859-15)
//   - Quoted fields, including stray quotes inside unquoted fields
//
// FILE LAYOUT:
//   The first record is the header row. Its first cell names the row-index
//   column. Every following record is a data row. Cell text is kept
//   verbatim: no trimming, no type inference.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/ginjaninja78/ennovatis-konverter/internal/config"
	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// ErrRaggedRow is returned when a data row has more fields than the header.
var ErrRaggedRow = errors.New("row has more fields than the header")

// ErrInvalidUTF8 is returned when a file read as UTF-8 contains bytes that
// are not valid UTF-8, typically a Windows-1252 export.
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns it as a table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the configuration.
//
// RETURNS:
//   - A pointer to the table. Cells are string or empty cells.
//   - table.ErrEmpty if the file has no records, ErrRaggedRow if a data
//     row is wider than the header, ErrInvalidUTF8 if UTF-8 input has
//     invalid bytes, or the read error.
//
// PARSING PROCESS:
//   1. Open the file and decode it from the configured encoding
//   2. Configure the CSV reader with the configured delimiter
//   3. Take the first record as the header row; empty data column names
//      become "Unnamed: <position>"
//   4. Read the data rows, padding short rows with empty cells
func Parse(filePath string, settings config.CSVSettings) (*table.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	t, err := Decode(file, settings)
	if err != nil {
		return nil, err
	}

	t.Source = filePath
	return t, nil
}

// Decode reads a table from r.
func Decode(r io.Reader, settings config.CSVSettings) (*table.Table, error) {
	reader, err := textReader(r, settings)
	if err != nil {
		return nil, err
	}
	checkText := settings.IsUTF8()

	csvReader := csv.NewReader(reader)
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, table.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if checkText {
		if err := checkUTF8(csvReader, header); err != nil {
			return nil, err
		}
	}

	rows, err := extractDataRows(csvReader, len(header), checkText)
	if err != nil {
		return nil, err
	}

	return &table.Table{Header: table.NameColumns(header, len(header)), Rows: rows}, nil
}

// textReader returns r as UTF-8 text. UTF-8 input is read as is, minus a
// leading byte order mark, and checked record by record with checkUTF8.
// Other encodings are decoded.
func textReader(r io.Reader, settings config.CSVSettings) (io.Reader, error) {
	buffered := bufio.NewReader(r)

	if settings.IsUTF8() {
		if head, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := buffered.Discard(len(utf8BOM)); err != nil {
				return nil, err
			}
		}
		return buffered, nil
	}

	enc, err := settings.Decoder()
	if err != nil {
		return nil, err
	}
	return transform.NewReader(buffered, enc.NewDecoder()), nil
}

// checkUTF8 returns ErrInvalidUTF8 with the position of the first field
// of record that is not valid UTF-8.
func checkUTF8(reader *csv.Reader, record []string) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, column := reader.FieldPos(i)
			return fmt.Errorf("%w: line %d, column %d (set csv.encoding, for example windows-1252)",
				ErrInvalidUTF8, line, column)
		}
	}
	return nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Row width is checked against the header in extractDataRows.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	return nil
}

// extractDataRows reads the remaining records as table rows.
//
// PARAMETERS:
//   - reader: The CSV reader positioned after the header row.
//   - width: The number of header cells.
//   - checkText: Whether every record is checked with checkUTF8.
//
// RETURNS:
//   - The rows, each exactly width cells long.
//   - An error if a record cannot be read or is wider than the header.
func extractDataRows(reader *csv.Reader, width int, checkText bool) ([][]table.Cell, error) {
	var rows [][]table.Cell

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}

		if checkText {
			if err := checkUTF8(reader, record); err != nil {
				return nil, err
			}
		}

		if len(record) > width {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrRaggedRow, line, len(record), width)
		}

		row := make([]table.Cell, width)
		for i, value := range record {
			row[i] = table.String(value)
		}
		rows = append(rows, row)
	}
}
