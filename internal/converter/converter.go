// =============================================================================
// Ennovatis Header Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It loads a table, rewrites
// its data column headers and writes the converted copy.
//
// CONVERSION PIPELINE (per file):
//   1. Pick the reader from the file extension (.xlsx, .xls, else CSV)
//   2. Load the table; column 0 is the row-index column
//   3. Rename every data column through the header transformer
//   4. Write the table with the writer of the output format
//   5. Print the destination path
//
// RUN MODES:
//   - ConvertFolder: every discovered file under a root folder, written to
//     a mirrored tree under <root>_converted
//   - ConvertFiles: selected files, written next to the originals with the
//     file suffix inserted before the extension
//
// FAILURE SEMANTICS:
//   The first failing file aborts the run. Files already written stay.
//
// CONCURRENCY:
//   Files are processed one after another. The context is checked between
//   files, not while a file is being read or written.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/ennovatis-konverter/internal/config"
	"github.com/ginjaninja78/ennovatis-konverter/internal/csvparser"
	"github.com/ginjaninja78/ennovatis-konverter/internal/format"
	"github.com/ginjaninja78/ennovatis-konverter/internal/header"
	"github.com/ginjaninja78/ennovatis-konverter/internal/logging"
	"github.com/ginjaninja78/ennovatis-konverter/internal/table"
	"github.com/ginjaninja78/ennovatis-konverter/internal/xlsxparser"
	"github.com/ginjaninja78/ennovatis-konverter/pkg/utils"
)

// ErrDuplicateDestination is returned before anything is written when two
// different inputs would be written to the same file, for example a.xls and
// a.xlsx in one folder.
var ErrDuplicateDestination = errors.New("two inputs map to the same output file")

// =============================================================================
// SUMMARY STRUCTURE
// =============================================================================

// Summary contains information about a finished run.
type Summary struct {
	StartTime time.Time
	EndTime   time.Time

	// Jobs lists the files written, in order.
	Jobs []utils.Job

	// Rows is the total number of data rows written.
	Rows int
}

// Duration returns the time the run took.
func (s Summary) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts the headers of CSV and Excel files.
type Converter struct {
	cfg         *config.Config
	transformer *header.Transformer
	files       *utils.FileManager
	formats     *format.Registry

	// logger receives progress and diagnostics.
	logger *slog.Logger

	// out receives one destination path per converted file.
	out io.Writer
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default drops every record.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithOutput sets where destination paths are printed. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.out = w
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The validated configuration.
//   - opts: Optional logger and output overrides.
//
// RETURNS:
//   - A new Converter instance with the CSV, Excel and legacy Excel formats
//     registered.
func New(cfg *config.Config, opts ...Option) *Converter {
	c := &Converter{
		cfg: cfg,
		transformer: header.NewTransformer(header.Options{
			FoldUppercase: cfg.Header.FoldUppercaseUmlauts,
			NormalizeNFC:  cfg.Header.NormalizeUnicode,
		}),
		files:   utils.NewFileManager(cfg.DiscoverExtensions, cfg.ConvertedDirSuffix, cfg.FileSuffix),
		formats: format.NewRegistry(),
		logger:  logging.Discard(),
		out:     os.Stdout,
	}

	c.formats.Register(format.CSV, format.Codec{
		Read: func(path string) (*table.Table, error) {
			return csvparser.Parse(path, cfg.CSV)
		},
		Write: func(w io.Writer, t *table.Table) error {
			return csvparser.Write(w, t, cfg.CSV)
		},
	})
	c.formats.Register(format.Excel, format.Codec{
		Read:  xlsxparser.Parse,
		Write: xlsxparser.Write,
	})
	c.formats.Register(format.LegacyExcel, format.Codec{
		Read: xlsxparser.ParseLegacy,
	})

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// =============================================================================
// SINGLE FILE CONVERSION
// =============================================================================

// Convert loads the file at path and renames its data columns.
//
// PARAMETERS:
//   - path: The input file. The reader is chosen from its extension.
//
// RETURNS:
//   - The table with transformed headers. The index column name and all
//     row data are unchanged.
//   - An error wrapping the read failure, with the path.
func (c *Converter) Convert(path string) (*table.Table, error) {
	read, err := c.formats.Reader(format.Lookup(path))
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	t, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	before := t.Columns()
	after := c.transformer.Columns(before)
	for i := range before {
		if before[i] != after[i] {
			c.logger.Debug("renamed column",
				slog.String("file", path),
				slog.String("from", before[i]),
				slog.String("to", after[i]))
		}
	}
	t.SetColumns(after)

	return t, nil
}

// Write writes t to dest in format f. The parent directory of dest must
// exist. The file appears at dest only once it is complete.
func (c *Converter) Write(t *table.Table, dest string, f format.Format) error {
	write, err := c.formats.Writer(f)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	if err := utils.WriteAtomic(dest, func(w io.Writer) error {
		return write(w, t)
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return nil
}

// plan sets the final destination of every job (.xls inputs are written
// as .xlsx) and rejects runs where two inputs share a destination.
func plan(jobs []utils.Job) ([]utils.Job, error) {
	planned := make([]utils.Job, len(jobs))
	sources := make(map[string]string, len(jobs))

	for i, job := range jobs {
		job.Destination = format.OutputPath(job.Destination)
		if prev, ok := sources[job.Destination]; ok && prev != job.Source {
			return nil, fmt.Errorf("%w: %s and %s both write %s",
				ErrDuplicateDestination, prev, job.Source, job.Destination)
		}
		sources[job.Destination] = job.Source
		planned[i] = job
	}

	return planned, nil
}

// convertJob converts one file and writes it to the job destination.
func (c *Converter) convertJob(job utils.Job) (utils.Job, int, error) {
	t, err := c.Convert(job.Source)
	if err != nil {
		return job, 0, err
	}

	in := format.Lookup(job.Source)

	if err := utils.EnsureDir(filepath.Dir(job.Destination)); err != nil {
		return job, 0, err
	}
	if err := c.Write(t, job.Destination, in.Output()); err != nil {
		return job, 0, err
	}

	fmt.Fprintln(c.out, job.Destination)

	c.logger.Debug("converted file",
		slog.String("source", job.Source),
		slog.String("destination", job.Destination),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns())))

	return job, t.RowCount(), nil
}

// =============================================================================
// RUN MODES
// =============================================================================

// ConvertFolder converts every discovered file under root into the
// mirrored tree under <root>_converted.
//
// PARAMETERS:
//   - ctx: Checked before each file; cancellation stops the run.
//   - root: The folder to scan. A trailing separator is ignored.
//
// RETURNS:
//   - The jobs that were written, in order.
//   - The first error. Jobs written before it are still returned.
func (c *Converter) ConvertFolder(ctx context.Context, root string) ([]utils.Job, error) {
	jobs, err := c.files.BatchJobs(root)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Converted files:",
		slog.String("root", filepath.Clean(root)),
		slog.String("output", c.files.OutputRoot(root)),
		slog.Int("files", len(jobs)))

	return c.run(ctx, jobs)
}

// ConvertFiles converts each file in paths to a sibling file with the
// configured suffix inserted before the extension. An empty list is a
// no-op.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string) ([]utils.Job, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	return c.run(ctx, c.files.FileJobs(paths))
}

// run converts jobs in order and stops at the first failure.
func (c *Converter) run(ctx context.Context, jobs []utils.Job) ([]utils.Job, error) {
	jobs, err := plan(jobs)
	if err != nil {
		return nil, err
	}

	summary := Summary{StartTime: time.Now()}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary.Jobs, err
		}

		done, rows, err := c.convertJob(job)
		if err != nil {
			return summary.Jobs, err
		}

		summary.Jobs = append(summary.Jobs, done)
		summary.Rows += rows
	}

	summary.EndTime = time.Now()
	c.logger.Info("conversion finished",
		slog.Int("files", len(summary.Jobs)),
		slog.Int("rows", summary.Rows),
		slog.Duration("duration", summary.Duration()))

	return summary.Jobs, nil
}
