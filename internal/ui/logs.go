package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// logState holds the activity log view state.
type logState struct {
	lines  []logtail.Line
	err    error
	follow bool
	gen    int // bumped each time the view opens; stale ticks are ignored
}

type logLinesMsg struct {
	lines []logtail.Line
	err   error
}

type logTickMsg struct {
	gen int
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func logTickCmd(gen int) tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg {
		return logTickMsg{gen: gen}
	})
}

// openLogs switches to the log view and starts rereading the file.
func (m *Model) openLogs() tea.Cmd {
	m.currentView = ViewLogs
	m.logState.gen++
	m.logState.follow = true
	return tea.Batch(readLogsCmd(m.logPath), logTickCmd(m.logState.gen))
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 1), max(m.contentHeight()-2, 1))
}

// updateLogViewport resizes the viewport and rerenders its content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Activity Log"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	content := m.logViewport.View()
	if m.logState.err != nil {
		styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
		content = styles.DangerText.Render("Could not read log: " + m.logState.err.Error())
	}
	return m.renderTitledBox(title, content, m.width, m.contentHeight(), true)
}

func (m *Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	if len(m.logState.lines) == 0 {
		return bg.Render("No activity yet", styles.MutedText)
	}

	out := make([]string, 0, len(m.logState.lines))
	for _, line := range m.logState.lines {
		out = append(out, m.formatLogLine(line, styles, bg))
	}
	return strings.Join(out, "\n")
}

// formatLogLine renders "15:04:05 LEVEL message key=value ...".
func (m *Model) formatLogLine(line logtail.Line, styles Styles, bg BgStyle) string {
	if line.Level == "" {
		return bg.Render(line.Raw, styles.MutedText)
	}

	parts := make([]string, 0, 3+len(line.Attrs))
	if !line.Time.IsZero() {
		parts = append(parts, bg.Render(line.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	parts = append(parts,
		bg.Render(padRight(line.Level, 5), m.levelStyle(line.Level, styles)),
		bg.Render(line.Message, styles.Text),
	)
	for _, a := range line.Attrs {
		parts = append(parts, bg.Render(a.Key+"=", styles.FaintText)+bg.Render(a.Value, styles.MutedText))
	}
	return strings.Join(parts, bg.Space())
}

func (m *Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}
