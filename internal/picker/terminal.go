package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal is a Picker backed by an interactive file browser.
type Terminal struct {
	// FolderDir is where the folder browser starts. Empty means the
	// user's home directory.
	FolderDir string

	// FilesDir is where the files browser starts. Empty means the
	// working directory.
	FilesDir string

	// AllowedTypes limits which files can be selected in files mode.
	AllowedTypes []string

	// Input and Output default to the process terminal.
	Input  io.Reader
	Output io.Writer
}

// PickFolder lets the user browse to a folder and choose it with "c".
func (t Terminal) PickFolder(ctx context.Context) (string, bool, error) {
	dir := t.FolderDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, fmt.Errorf("failed to find home directory: %w", err)
		}
		dir = home
	}

	m, err := t.run(ctx, newModel(modeFolder, dir, nil))
	if err != nil {
		return "", false, err
	}
	if m.cancelled || !m.done {
		return "", false, nil
	}
	return m.folder, true, nil
}

// PickFiles lets the user toggle files with enter and finish with "d".
func (t Terminal) PickFiles(ctx context.Context) ([]string, error) {
	dir := t.FilesDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to find working directory: %w", err)
		}
		dir = wd
	}

	m, err := t.run(ctx, newModel(modeFiles, dir, t.AllowedTypes))
	if err != nil {
		return nil, err
	}
	if m.cancelled || !m.done {
		return nil, nil
	}
	return m.selected, nil
}

func (t Terminal) run(ctx context.Context, m model) (model, error) {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}
	if t.Input != nil {
		opts = append(opts, tea.WithInput(t.Input))
	}
	if t.Output != nil {
		opts = append(opts, tea.WithOutput(t.Output))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return m, ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return model{cancelled: true}, nil
		}
		return m, fmt.Errorf("file browser failed: %w", err)
	}

	result, ok := final.(model)
	if !ok {
		return m, fmt.Errorf("file browser returned unexpected model %T", final)
	}
	return result, nil
}
