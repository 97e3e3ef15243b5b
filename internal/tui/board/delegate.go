package board

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/taskq/internal/domain"
)

type taskItem struct {
	task *domain.Task
	now  time.Time
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// metaLine builds the second display line: claim state for claimed
// tasks, blockers otherwise.
func (t taskItem) metaLine() string {
	if t.task.HasClaim() {
		if t.task.LeaseExpired(t.now) {
			return fmt.Sprintf("claimed by %s, lease expired %s ago",
				t.task.ClaimedBy, formatDuration(t.now.Sub(*t.task.LeaseExpiresAt)))
		}
		return fmt.Sprintf("claimed by %s, lease %s left",
			t.task.ClaimedBy, formatDuration(t.task.LeaseExpiresAt.Sub(t.now)))
	}
	if len(t.task.BlockedBy) > 0 {
		return "blocked by " + strings.Join(t.task.BlockedBy, ", ")
	}
	return ""
}

// formatDuration renders a duration in the coarsest useful unit.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 1
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicatorChar := " "
	if selected {
		indicatorChar = ">"
	}

	statusIcon := StatusIcon(task.Status)
	statusText := fmt.Sprintf("%-11s", string(task.Status))

	prefixWidth := 27
	listWidth := m.Width()
	maxTitleLen := listWidth - prefixWidth - 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := task.Title
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen-3, "...")
	}

	statusStyle := d.styles.StatusStyle(task.Status)
	idStyle := d.styles.TaskID
	titleStyle := d.styles.TaskTitle
	indicatorStyle := d.styles.SelectionIndicator
	if selected {
		statusStyle = statusStyle.Bold(true)
		idStyle = idStyle.Bold(true)
		titleStyle = titleStyle.Bold(true)
		indicatorStyle = indicatorStyle.Bold(true)
	}

	line := "  " + indicatorStyle.Render(indicatorChar) +
		" " + idStyle.Render(task.ID) +
		"  " + statusStyle.Render(statusIcon) +
		" " + statusStyle.Render(statusText) +
		"  " + titleStyle.Render(title)
	lineWidth := runewidth.StringWidth(line)
	if lineWidth < listWidth {
		line += fmt.Sprintf("%*s", listWidth-lineWidth, "")
	}
	_, _ = fmt.Fprintln(w, line)

	metaLine := "          "
	if meta := ti.metaLine(); meta != "" {
		maxMetaLen := listWidth - len(metaLine) - 2
		if maxMetaLen < 10 {
			maxMetaLen = 10
		}
		if runewidth.StringWidth(meta) > maxMetaLen {
			meta = runewidth.Truncate(meta, maxMetaLen-3, "...")
		}
		metaLine += meta
	}
	metaStyle := d.styles.TaskMeta
	if task.LeaseExpired(ti.now) {
		metaStyle = d.styles.LeaseExpired
	}
	metaLineWidth := runewidth.StringWidth(metaLine)
	if metaLineWidth < listWidth {
		metaLine += fmt.Sprintf("%*s", listWidth-metaLineWidth, "")
	}
	_, _ = fmt.Fprint(w, metaStyle.Render(metaLine))
}
