// =============================================================================
// Ennovatis Header Converter - File Formats
// =============================================================================
//
// This package decides how a file is read and written based on its
// extension, and holds the registry of readers and writers per format.
//
// DISPATCH RULES:
//   - ".xlsx" -> Excel
//   - ".xls"  -> LegacyExcel (read only; written back as Excel)
//   - anything else -> CSV
//
// Extension matching is case-sensitive, so "REPORT.XLSX" is read as CSV.
//
// =============================================================================

package format

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

// ErrUnsupported is returned when no reader or writer is registered for a
// format.
var ErrUnsupported = errors.New("unsupported file format")

// Format is the on-disk representation of a table.
type Format int

const (
	CSV Format = iota
	Excel
	LegacyExcel
)

func (f Format) String() string {
	switch f {
	case Excel:
		return "xlsx"
	case LegacyExcel:
		return "xls"
	default:
		return "csv"
	}
}

// Lookup returns the format of path based on its extension.
func Lookup(path string) Format {
	switch {
	case strings.HasSuffix(path, ".xlsx"):
		return Excel
	case strings.HasSuffix(path, ".xls"):
		return LegacyExcel
	default:
		return CSV
	}
}

// Output returns the format a file of this format is written as.
func (f Format) Output() Format {
	if f == LegacyExcel {
		return Excel
	}
	return f
}

// OutputPath returns path with its extension adjusted to the output format.
// Only ".xls" paths change; they become ".xlsx".
func OutputPath(path string) string {
	if Lookup(path) != LegacyExcel {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
}

// =============================================================================
// REGISTRY
// =============================================================================

// Reader loads a table from the file at path.
type Reader func(path string) (*table.Table, error)

// Writer serializes a table to w.
type Writer func(w io.Writer, t *table.Table) error

// Codec pairs the reader and writer of one format. Either may be nil.
type Codec struct {
	Read  Reader
	Write Writer
}

// Registry maps formats to codecs.
type Registry struct {
	codecs map[Format]Codec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[Format]Codec)}
}

// Register sets the codec of f, replacing any previous one.
func (r *Registry) Register(f Format, c Codec) {
	r.codecs[f] = c
}

// Reader returns the reader registered for f.
func (r *Registry) Reader(f Format) (Reader, error) {
	c, ok := r.codecs[f]
	if !ok || c.Read == nil {
		return nil, fmt.Errorf("%w: no reader for %s", ErrUnsupported, f)
	}
	return c.Read, nil
}

// Writer returns the writer registered for f.
func (r *Registry) Writer(f Format) (Writer, error) {
	c, ok := r.codecs[f]
	if !ok || c.Write == nil {
		return nil, fmt.Errorf("%w: no writer for %s", ErrUnsupported, f)
	}
	return c.Write, nil
}
