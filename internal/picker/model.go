package picker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeFolder mode = iota
	modeFiles
)

// model is the Bubble Tea model behind Terminal.
type model struct {
	mode       mode
	filepicker filepicker.Model

	// folder is the chosen directory in folder mode.
	folder string

	// selected holds the toggled files in files mode, in selection order.
	selected []string

	done      bool
	cancelled bool
	notice    string
}

func newModel(m mode, dir string, allowedTypes []string) model {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = allowedTypes
	fp.AutoHeight = false
	fp.SetHeight(15)

	switch m {
	case modeFolder:
		fp.DirAllowed = false
		fp.FileAllowed = false
	case modeFiles:
		fp.DirAllowed = false
		fp.FileAllowed = true
	}

	fp.Styles.Cursor = cursorStyle
	fp.Styles.Directory = directoryStyle
	fp.Styles.File = fileStyle
	fp.Styles.Permission = dimStyle
	fp.Styles.FileSize = dimStyle
	fp.Styles.Selected = selectedStyle
	fp.Styles.DisabledFile = dimStyle

	return model{mode: m, filepicker: fp}
}

func (m model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.filepicker.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		case "c":
			if m.mode == modeFolder {
				m.folder = m.filepicker.CurrentDirectory
				m.done = true
				return m, tea.Quit
			}
		case "d":
			if m.mode == modeFiles {
				m.done = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if m.mode == modeFiles {
		if ok, path := m.filepicker.DidSelectFile(msg); ok {
			m.toggle(path)
		}
		if ok, path := m.filepicker.DidSelectDisabledFile(msg); ok {
			m.notice = filepath.Base(path) + " cannot be converted"
		}
	}

	return m, cmd
}

// toggle adds path to the selection, or removes it when already selected.
func (m *model) toggle(path string) {
	for i, p := range m.selected {
		if p == path {
			m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			return
		}
	}
	m.selected = append(m.selected, path)
}

func (m model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var s strings.Builder

	switch m.mode {
	case modeFolder:
		s.WriteString(TitleStyle.Render("Select the folder to convert"))
	case modeFiles:
		s.WriteString(TitleStyle.Render("Select the files to convert"))
	}
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(PathStyle.Render(m.filepicker.CurrentDirectory)))
	s.WriteString("\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")

	if m.mode == modeFiles && len(m.selected) > 0 {
		s.WriteString("\n")
		for _, p := range m.selected {
			s.WriteString(CheckedStyle.Render("✓ " + filepath.Base(p)))
			s.WriteString("\n")
		}
	}

	if m.notice != "" {
		s.WriteString(NoticeStyle.Render(m.notice))
		s.WriteString("\n")
	}

	switch m.mode {
	case modeFolder:
		s.WriteString(HelpStyle.Render("↑/↓: navigate • enter/→: open • ←: up • c: choose this folder • q: cancel"))
	case modeFiles:
		s.WriteString(HelpStyle.Render(fmt.Sprintf("↑/↓: navigate • enter: toggle file • d: done (%d selected) • q: cancel", len(m.selected))))
	}

	return s.String()
}
