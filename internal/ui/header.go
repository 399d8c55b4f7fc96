package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, book count, fetch state and
// the API the client talks to.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{
		bg.Render("shelf", styles.Logo),
		bg.Render(pluralize(len(snap.Books), "book"), styles.Text),
	}

	switch {
	case snap.Loading:
		parts = append(parts, bg.Render("Refreshing...", styles.WarningText.Bold(true)))
	case snap.IsOffline():
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}
	if snap.LastError != nil {
		parts = append(parts, bg.Render(truncate(firstLine(snap.LastError.Error()), 60), styles.DangerText))
	}
	if !snap.UpdatedAt.IsZero() {
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Space()+
				bg.Render(snap.UpdatedAt.Local().Format("15:04:05"), styles.MutedText))
	}
	if m.apiURL != "" && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar lists the keys that act on the current view. Checkout is
// left out for a checked-out book.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"l", "Library"},
			{"?", "More"},
		}
	default:
		commands = []cmd{{"r", "Refresh"}, {"a", "Add"}}
		if book, ok := m.selectedBook(); ok {
			if book.Available() {
				commands = append(commands, cmd{"c", "Checkout"})
			}
			commands = append(commands, cmd{"d", "Delete"}, cmd{"D", "Delete all"}, cmd{"j/k", "Navigate"})
		}
		detail := "Hide detail"
		if m.hideDetail {
			detail = "Show detail"
		}
		commands = append(commands, cmd{"v", detail}, cmd{"l", "Log"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Join(segments, "  "))
}

// renderFooter renders the alert line, blank when there is none.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var text string
	switch m.alert.tone {
	case toneDanger:
		text = bg.Render(m.alert.text, styles.DangerText)
	case toneSuccess:
		text = bg.Render(m.alert.text, styles.SuccessText)
	default:
		text = bg.Render(m.alert.text, styles.MutedText)
	}
	return styles.Header.Width(m.width).Render(text)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
