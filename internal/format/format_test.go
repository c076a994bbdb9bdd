package format

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"data/a.csv", CSV},
		{"report.xlsx", Excel},
		{"legacy.xls", LegacyExcel},
		{"notes.txt", CSV},
		{"no_extension", CSV},
		{"REPORT.XLSX", CSV},
		{"dir.xlsx/file.csv", CSV},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lookup(tt.path))
		})
	}
}

func TestOutput(t *testing.T) {
	assert.Equal(t, CSV, CSV.Output())
	assert.Equal(t, Excel, Excel.Output())
	assert.Equal(t, Excel, LegacyExcel.Output())
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "a/b.csv", OutputPath("a/b.csv"))
	assert.Equal(t, "a/b.xlsx", OutputPath("a/b.xlsx"))
	assert.Equal(t, "a/b.xlsx", OutputPath("a/b.xls"))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(CSV, Codec{
		Read:  func(string) (*table.Table, error) { return &table.Table{}, nil },
		Write: func(io.Writer, *table.Table) error { return nil },
	})
	reg.Register(LegacyExcel, Codec{
		Read: func(string) (*table.Table, error) { return &table.Table{}, nil },
	})

	_, err := reg.Reader(CSV)
	require.NoError(t, err)
	_, err = reg.Writer(CSV)
	require.NoError(t, err)

	_, err = reg.Reader(LegacyExcel)
	require.NoError(t, err)

	_, err = reg.Writer(LegacyExcel)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = reg.Reader(Excel)
	assert.ErrorIs(t, err, ErrUnsupported)
}
