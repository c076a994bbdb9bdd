package picker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPickFolder(t *testing.T) {
	folder, ok, err := Static{Folder: "/data"}.PickFolder(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/data", folder)

	_, ok, err = Static{}.PickFolder(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticPickFiles(t *testing.T) {
	files, err := Static{Files: []string{"a.csv", "b.xlsx"}}.PickFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.xlsx"}, files)
}

func TestStaticCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Static{Folder: "/data"}.PickFolder(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Static{Files: []string{"a.csv"}}.PickFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns m after its initial directory listing arrived.
func loaded(t *testing.T, m model) model {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(model)
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestFolderModeChoosesCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	m := loaded(t, newModel(modeFolder, dir, nil))

	next, cmd := m.Update(runes("c"))
	result := next.(model)

	assert.True(t, isQuit(t, cmd))
	assert.True(t, result.done)
	assert.Equal(t, dir, result.folder)
}

func TestFolderModeOpensSubdirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0o755))
	m := loaded(t, newModel(modeFolder, dir, nil))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Equal(t, filepath.Join(dir, "data"), m.filepicker.CurrentDirectory)

	next, _ = m.Update(runes("c"))
	assert.Equal(t, filepath.Join(dir, "data"), next.(model).folder)
}

func TestFolderModeIgnoresDone(t *testing.T) {
	m := loaded(t, newModel(modeFolder, t.TempDir(), nil))

	next, _ := m.Update(runes("d"))
	assert.False(t, next.(model).done)
}

func TestCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m := loaded(t, newModel(modeFiles, t.TempDir(), nil))

			next, cmd := m.Update(key)
			assert.True(t, isQuit(t, cmd))
			assert.True(t, next.(model).cancelled)
			assert.Empty(t, next.(model).View())
		})
	}
}

func TestFilesModeTogglesSelection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("x"), 0o600))

	m := loaded(t, newModel(modeFiles, dir, []string{".csv"}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv")}, m.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, m.selected)
	assert.Contains(t, m.View(), "2 selected")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Equal(t, []string{filepath.Join(dir, "b.csv")}, m.selected)

	next, cmd := m.Update(runes("d"))
	assert.True(t, isQuit(t, cmd))
	assert.True(t, next.(model).done)
}

func TestFilesModeRejectsOtherTypes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	m := loaded(t, newModel(modeFiles, dir, []string{".csv"}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Empty(t, m.selected)
	assert.Contains(t, m.notice, "notes.txt")
}

func TestWindowResize(t *testing.T) {
	m := newModel(modeFiles, t.TempDir(), nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Equal(t, 28, next.(model).filepicker.Height)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	assert.Equal(t, 5, next.(model).filepicker.Height)
}

func TestToggle(t *testing.T) {
	m := model{}
	m.toggle("a")
	m.toggle("b")
	m.toggle("c")
	m.toggle("b")
	assert.Equal(t, []string{"a", "c"}, m.selected)
}
