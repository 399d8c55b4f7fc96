package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderDetailContent renders the selected book's fields.
func (m Model) renderDetailContent(b catalog.Book, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	if b.ID == 0 && b.Title == "" {
		return bg.Render("Select a book", styles.MutedText)
	}

	labelStyle := styles.MutedText
	labelWidth := 18
	field := func(label, value string) string {
		return bg.Render(padRight(label, labelWidth), labelStyle) +
			bg.Render(truncate(value, max(width-labelWidth, 8)), styles.Text)
	}

	badgeStyle := styles.BadgeStyle(statusCheckedOut)
	if b.Available() {
		badgeStyle = styles.BadgeStyle(statusAvailable)
	}

	lines := []string{
		bg.Render(truncate(b.Title, width), styles.Text.Bold(true)),
		bg.Render(truncate("by "+b.Author, width), styles.MutedText),
		"",
		badgeStyle.Render(availabilityLabel(b)),
		"",
		field("Publisher:", b.Publisher),
		field("Tags:", b.Categories),
	}
	if b.LastCheckout != nil {
		lines = append(lines, field("Last Checked Out:", formatCheckout(b.LastCheckout, time.Local)))
	}
	lines = append(lines, "", bg.Render("#"+strconv.Itoa(b.ID), styles.FaintText))

	return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Render(strings.Join(lines, "\n"))
}
