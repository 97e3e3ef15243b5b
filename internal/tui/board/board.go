// Package board provides a read-only terminal view of the task queue.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskq/internal/domain"
)

// refreshInterval is how often the board reloads the store on its own.
const refreshInterval = 2 * time.Second

// statusFilter selects which tasks the board shows.
type statusFilter int

const (
	filterAll statusFilter = iota
	filterReady
	filterInProgress
	filterDone
	filterCount
)

func (f statusFilter) String() string {
	switch f {
	case filterReady:
		return "ready"
	case filterInProgress:
		return "in_progress"
	case filterDone:
		return "done"
	default:
		return "all"
	}
}

func (f statusFilter) next() statusFilter {
	return (f + 1) % filterCount
}

func (f statusFilter) matches(task *domain.Task) bool {
	switch f {
	case filterReady:
		return task.Status == domain.StatusReady
	case filterInProgress:
		return task.Status == domain.StatusInProgress
	case filterDone:
		return task.Status == domain.StatusDone
	default:
		return true
	}
}

// Messages
type tasksLoadedMsg struct {
	tasks []*domain.Task
	now   time.Time
}

type errMsg struct {
	err error
}

type tickMsg struct{}

// Model is the bubbletea model for the task board. It only ever reads
// the store; every reload sees the latest state written by other
// processes.
type Model struct {
	store domain.TaskStore
	clock domain.Clock
	err   error

	tasks []*domain.Task
	now   time.Time

	keys     KeyMap
	styles   Styles
	taskList list.Model

	filter   statusFilter
	width    int
	height   int
	quitting bool
}

// New creates a new board model over the given store.
func New(store domain.TaskStore, clock domain.Clock) Model {
	styles := DefaultStyles()
	delegate := newTaskDelegate(styles)
	taskList := list.New([]list.Item{}, delegate, 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return Model{
		store:    store,
		clock:    clock,
		keys:     DefaultKeyMap(),
		styles:   styles,
		taskList: taskList,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks,
		m.tick(),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadTasks reads a fresh copy of the index.
func (m Model) loadTasks() tea.Msg {
	var tasks []*domain.Task
	err := m.store.View(func(ix *domain.Index) error {
		tasks = append([]*domain.Task{}, ix.Tasks...)
		return nil
	})
	if err != nil {
		return errMsg{err: err}
	}
	return tasksLoadedMsg{tasks: tasks, now: m.clock.Now()}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.now = msg.now
		m.err = nil
		m.applyFilter()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		// Reload periodically so claims made by other processes show up
		return m, tea.Batch(m.loadTasks, m.tick())
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks

	case key.Matches(msg, m.keys.CycleFilter):
		m.filter = m.filter.next()
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) updateLayout() {
	// Header: 1 line, status bar: 1 line, margins: 1 line
	listHeight := m.height - 3
	if listHeight < 3 {
		listHeight = 3
	}
	m.taskList.SetSize(m.width, listHeight)
}

// applyFilter rebuilds the visible items from the loaded tasks.
func (m *Model) applyFilter() {
	items := make([]list.Item, 0, len(m.tasks))
	for _, task := range m.tasks {
		if m.filter.matches(task) {
			items = append(items, taskItem{task: task, now: m.now})
		}
	}
	m.taskList.SetItems(items)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(" taskq board "))
	b.WriteString("\n")
	b.WriteString(m.taskList.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.err != nil {
		return m.styles.StatusBarError.Render(fmt.Sprintf(" Error: %v", m.err))
	}

	status := fmt.Sprintf(" Filter: %s | %d task(s) | Tab: filter | r: reload | q: quit",
		m.filter, len(m.taskList.Items()))
	if !m.now.IsZero() {
		status = fmt.Sprintf(" Filter: %s | %d task(s) | Updated %s | Tab: filter | r: reload | q: quit",
			m.filter, len(m.taskList.Items()), m.now.Format("15:04:05"))
	}
	return m.styles.StatusBar.Render(status)
}
