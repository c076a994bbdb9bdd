// =============================================================================
// Ennovatis Header Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter, including:
//   - File discovery under a root folder
//   - Destination naming for batch and single-file runs
//   - Directory management
//   - Atomic file writes
//
// NAMING CONVENTIONS:
//   - Batch:       <root>/sub/a.csv  ->  <root>_converted/sub/a.csv
//   - Single file: dir/report.xlsx   ->  dir/report_geändert.xlsx
//
// Both suffixes are configurable.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Job pairs an input file with the path its converted copy is written to.
type Job struct {
	Source      string
	Destination string
}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// Extensions lists the extensions picked up by discovery.
	// Matching is case-sensitive.
	Extensions []string

	// ConvertedDirSuffix is appended to the root folder of a batch run.
	ConvertedDirSuffix string

	// FileSuffix is inserted before the extension in single-file runs.
	FileSuffix string
}

// NewFileManager creates a new FileManager.
func NewFileManager(extensions []string, convertedDirSuffix, fileSuffix string) *FileManager {
	return &FileManager{
		Extensions:         extensions,
		ConvertedDirSuffix: convertedDirSuffix,
		FileSuffix:         fileSuffix,
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans root recursively for files with one of the
// configured extensions.
//
// PARAMETERS:
//   - root: The folder to scan.
//
// RETURNS:
//   - The matching file paths in lexical order.
//   - An error if root cannot be read.
//
// Hidden files and directories (names starting with ".") are skipped,
// the way a shell glob such as "**/*.csv" skips them. Symbolic links to
// directories are not followed.
func (fm *FileManager) DiscoverInputFiles(root string) ([]string, error) {
	root = filepath.Clean(root)

	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if fm.matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// matches reports whether name ends with one of the configured extensions.
func (fm *FileManager) matches(name string) bool {
	for _, ext := range fm.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// =============================================================================
// DESTINATION NAMING
// =============================================================================

// OutputRoot returns the output folder of a batch run over root.
// root is cleaned first, so "data/" and "data" both give "data_converted".
func (fm *FileManager) OutputRoot(root string) string {
	return filepath.Clean(root) + fm.ConvertedDirSuffix
}

// BatchJobs discovers the input files under root and pairs each with its
// destination under OutputRoot(root), keeping the relative path.
func (fm *FileManager) BatchJobs(root string) ([]Job, error) {
	files, err := fm.DiscoverInputFiles(root)
	if err != nil {
		return nil, err
	}

	root = filepath.Clean(root)
	outRoot := fm.OutputRoot(root)

	jobs := make([]Job, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s relative to %s: %w", file, root, err)
		}
		jobs = append(jobs, Job{
			Source:      file,
			Destination: filepath.Join(outRoot, rel),
		})
	}

	return jobs, nil
}

// SuffixedDestination returns the destination of a single-file run:
// the same directory, with FileSuffix inserted before the extension.
//
// EXAMPLE:
//   "dir/report.xlsx" -> "dir/report_geändert.xlsx"
//   "dir/notes"       -> "dir/notes_geändert"
//   "dir/.env.csv"    -> "dir/.env_geändert.csv"
//   "dir/.hidden"     -> "dir/.hidden_geändert"
func (fm *FileManager) SuffixedDestination(path string) string {
	ext := Ext(path)
	return path[:len(path)-len(ext)] + fm.FileSuffix + ext
}

// Ext returns the extension of the last path element. Leading dots of
// the name do not start an extension, so ".hidden" has none.
func Ext(path string) string {
	name := strings.TrimLeft(filepath.Base(path), ".")
	return filepath.Ext(name)
}

// FileJobs pairs every path with its single-file destination.
func (fm *FileManager) FileJobs(paths []string) []Job {
	jobs := make([]Job, 0, len(paths))
	for _, path := range paths {
		jobs = append(jobs, Job{Source: path, Destination: fm.SuffixedDestination(path)})
	}
	return jobs
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteAtomic writes a file through write and moves it into place.
//
// PARAMETERS:
//   - path: The final file path. Its directory must exist.
//   - write: Writes the file content.
//
// RETURNS:
//   - An error if writing or renaming fails. The temporary file is removed
//     and an existing file at path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
