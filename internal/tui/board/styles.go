package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskq/internal/domain"
)

// Colors defines the color palette for the board.
var Colors = struct {
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Background lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	Ready      lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
	Expired    lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)

	Ready:      lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green
	Expired:    lipgloss.Color("#D63031"), // Red
}

// Styles contains all the lipgloss styles for the board.
type Styles struct {
	Header lipgloss.Style

	SelectionIndicator lipgloss.Style
	TaskID             lipgloss.Style
	TaskTitle          lipgloss.Style
	TaskMeta           lipgloss.Style
	LeaseExpired       lipgloss.Style

	StatusReady      lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style

	StatusBar      lipgloss.Style
	StatusBarError lipgloss.Style
}

// DefaultStyles returns the default styles for the board.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		SelectionIndicator: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected),

		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskMeta: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		LeaseExpired: lipgloss.NewStyle().
			Foreground(Colors.Expired),

		StatusReady: lipgloss.NewStyle().
			Foreground(Colors.Ready),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(Colors.InProgress),

		StatusDone: lipgloss.NewStyle().
			Foreground(Colors.Done),

		StatusBar: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		StatusBarError: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusReady:
		return s.StatusReady
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusDone:
		return s.StatusDone
	default:
		return s.StatusReady
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusReady:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✓"
	default:
		return "?"
	}
}
