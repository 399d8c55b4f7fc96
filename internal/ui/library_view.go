package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// listHeight is the number of rows visible in the book list.
func (m Model) listHeight() int {
	h := m.contentHeight() - 2
	if m.stackedDetail() {
		h = m.contentHeight()*6/10 - 2
	}
	return max(h, 1)
}

// stackedDetail reports whether the detail pane sits under the list.
func (m Model) stackedDetail() bool {
	return !m.hideDetail && m.width < LayoutCompactWidth
}

// renderLibrary renders the book list with the detail pane beside or below it.
func (m Model) renderLibrary() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.snapshot.Books) == 0 {
		msg := "No books yet. Press a to add one."
		if !m.snapshot.HasFetched && m.snapshot.LastError == nil {
			msg = "Loading books..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	title := fmt.Sprintf("Books (%d)", len(m.snapshot.Books))
	book, _ := m.selectedBook()

	if m.hideDetail {
		return m.renderTitledBox(title, m.renderBookList(m.width-2, m.listHeight()), m.width, height, true)
	}

	if m.stackedDetail() {
		listBoxHeight := m.listHeight() + 2
		list := m.renderTitledBox(title, m.renderBookList(m.width-2, m.listHeight()), m.width, listBoxHeight, true)
		detail := m.renderTitledBox("Details", m.renderDetailContent(book, m.width-4, m.theme.SurfaceAlt), m.width, height-listBoxHeight, false)
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}

	listWidth := m.width * 45 / 100
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width * 35 / 100
	}
	detailWidth := m.width - listWidth

	list := m.renderTitledBox(title, m.renderBookList(listWidth-2, m.listHeight()), listWidth, height, true)
	detail := m.renderTitledBox("Details", m.renderDetailContent(book, detailWidth-4, m.theme.SurfaceAlt), detailWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderBookList renders the visible window of books, keeping the selection
// in view.
func (m Model) renderBookList(width, rows int) string {
	books := m.snapshot.Books
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(start+rows, len(books))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		bg := m.theme.FocusBg
		if i == m.selectedRow {
			bg = m.theme.SelectionBg
		}
		content := m.formatBookRow(books[i], width, bg, i == m.selectedRow)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(bg)).Width(width).Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatBookRow formats "#ID Title · Author  Badge".
// Selected rows render every part in SelectionText for contrast.
func (m Model) formatBookRow(b catalog.Book, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", b.ID)
	mark := "●"
	textWidth := max(width-len(idStr)-6, 10)
	titleWidth := max(textWidth*2/3, 6)
	authorWidth := max(textWidth-titleWidth, 4)

	var idStyle, titleStyle, sepStyle, authorStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, titleStyle, sepStyle, authorStyle = selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		authorStyle = styles.MutedText
	}
	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.badgeColor(b.Available())))

	return bg.Render(mark, markStyle) + bg.Space() +
		bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(truncate(b.Title, titleWidth), titleStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(truncate(b.Author, authorWidth), authorStyle)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	rows := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}
