// Package tui renders a live terminal view of the workspace grid,
// driven by the daemon's notification stream.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gridshift/internal/command"
	"github.com/1broseidon/gridshift/internal/ipc"
	"github.com/1broseidon/gridshift/internal/visualizer"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	currentCellStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	visitedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236"))

	emptyCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	gestureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

type notificationMsg visualizer.Notification

type streamClosedMsg struct{}

type statusMsg *ipc.StatusData

type statusErrMsg struct{ err error }

type tickMsg time.Time

// watchModel is the root bubbletea model for `gridshift watch`.
type watchModel struct {
	client        *ipc.Client
	notifications <-chan visualizer.Notification

	backend   string
	workspace int
	uptime    time.Duration
	current   command.Coordinate
	visited   map[command.Coordinate]bool
	pinned    bool

	previewing bool
	progress   float64
	direction  command.Direction
	dx, dy     float64

	width  int
	height int
	errMsg string
}

func newWatchModel(client *ipc.Client, ch <-chan visualizer.Notification) watchModel {
	return watchModel{
		client:        client,
		notifications: ch,
		visited:       map[command.Coordinate]bool{},
	}
}

// RunWatch subscribes to the daemon and runs the grid view until the
// user quits.
func RunWatch(client *ipc.Client) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := client.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to daemon: %w", err)
	}

	p := tea.NewProgram(newWatchModel(client, ch), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m watchModel) fetchStatus() tea.Msg {
	status, err := m.client.Status()
	if err != nil {
		return statusErrMsg{err: err}
	}
	return statusMsg(status)
}

func (m watchModel) waitNotification() tea.Msg {
	n, ok := <-m.notifications
	if !ok {
		return streamClosedMsg{}
	}
	return notificationMsg(n)
}

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus, m.waitNotification, tick())
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "t":
			if err := m.client.Send(command.ToggleVisualizer()); err != nil {
				m.errMsg = err.Error()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.backend = msg.Backend
		m.workspace = msg.Workspace
		m.uptime = time.Duration(msg.UptimeSeconds) * time.Second
		m.current = msg.Current
		m.pinned = msg.Pinned
		for _, c := range msg.Visited {
			m.visited[c] = true
		}
		m.errMsg = ""
		return m, nil

	case statusErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchStatus, tick())

	case notificationMsg:
		m.apply(visualizer.Notification(msg))
		return m, m.waitNotification

	case streamClosedMsg:
		m.errMsg = "daemon disconnected"
		return m, nil
	}

	return m, nil
}

func (m *watchModel) apply(n visualizer.Notification) {
	switch n.Kind {
	case visualizer.KindPositionChanged:
		if n.Current != nil {
			m.current = *n.Current
		}
		for _, c := range n.Visited {
			m.visited[c] = true
		}
	case visualizer.KindGesturePreview:
		m.previewing = true
		m.progress = n.Progress
		m.direction = n.Direction
		m.dx = n.DX
		m.dy = n.DY
	case visualizer.KindGestureEnd:
		m.previewing = false
	case visualizer.KindToggled:
		m.pinned = n.Pinned
	}
}

// bounds returns the grid's bounding box covering every visited cell
// and the cursor.
func (m watchModel) bounds() (cols, rows int) {
	cols, rows = m.current.X+1, m.current.Y+1
	for c := range m.visited {
		if c.X+1 > cols {
			cols = c.X + 1
		}
		if c.Y+1 > rows {
			rows = c.Y + 1
		}
	}
	return cols, rows
}

// View implements tea.Model.
func (m watchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := headerStyle.Render(fmt.Sprintf("gridshift  %s  workspace %d  up %s",
		m.backend, m.workspace, m.uptime.Round(time.Second)))

	grid := m.renderGrid()

	gesture := ""
	if m.previewing {
		gesture = gestureStyle.Render(fmt.Sprintf("%s %s %.0f%%",
			directionArrow(m.direction), renderProgressBar(m.progress, 20), m.progress*100))
	}

	status := ""
	if m.pinned {
		status = "pinned"
	}
	if m.errMsg != "" {
		status = errStyle.Render(m.errMsg)
	}

	help := helpStyle.Render("t toggle pin  q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", grid, "", gesture, status, help)
}

func (m watchModel) renderGrid() string {
	cols, rows := m.bounds()

	lines := make([]string, 0, rows)
	for y := 0; y < rows; y++ {
		row := make([]string, 0, cols)
		for x := 0; x < cols; x++ {
			coord := command.Coordinate{X: x, Y: y}
			label := fmt.Sprintf(" %d,%d ", x, y)
			switch {
			case coord == m.current:
				row = append(row, currentCellStyle.Render(label))
			case m.visited[coord]:
				row = append(row, visitedCellStyle.Render(label))
			default:
				row = append(row, emptyCellStyle.Render(label))
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return "[" + string(bar) + "]"
}

func directionArrow(dir command.Direction) string {
	switch dir {
	case command.DirLeft:
		return "←"
	case command.DirRight:
		return "→"
	case command.DirUp:
		return "↑"
	case command.DirDown:
		return "↓"
	}
	return "·"
}
