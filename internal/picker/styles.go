package picker

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E86AB")).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginBottom(1)

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A3D5FF"))

	CheckedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F6AE2D")).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginTop(1)
)

var (
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E86AB"))
	directoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3D5FF"))
	fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E86AB")).Bold(true)
)
