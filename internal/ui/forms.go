package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

const (
	missingFieldsMessage = "Please enter missing fields."
	saveFailedMessage    = "An error occurred"
	missingNameMessage   = "Please enter a name."
)

var addFieldLabels = [...]string{"Title", "Author", "Publisher", "Categories"}

// addForm collects a new book. It stays open while the save is in flight and
// on failure, so nothing typed is lost.
type addForm struct {
	inputs         [len(addFieldLabels)]textinput.Model
	focus          int
	err            string
	saving         bool
	confirmDiscard bool
}

func newAddForm() *addForm {
	f := &addForm{}
	for i, label := range addFieldLabels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = 36
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

func (f *addForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *addForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd, false
	}
	if f.saving {
		return f, nil, false
	}

	if f.confirmDiscard {
		switch {
		case key.Matches(keyMsg, keys.Yes):
			return f, nil, true
		case key.Matches(keyMsg, keys.No):
			f.confirmDiscard = false
		}
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		if f.hasData() {
			f.confirmDiscard = true
			return f, nil, false
		}
		return f, nil, true

	case key.Matches(keyMsg, keys.Submit):
		return f.submit()

	case key.Matches(keyMsg, keys.Confirm):
		if f.focus == len(f.inputs)-1 {
			return f.submit()
		}
		return f, f.setFocus(f.focus + 1), false

	case key.Matches(keyMsg, keys.NextField):
		return f, f.setFocus((f.focus + 1) % len(f.inputs)), false

	case key.Matches(keyMsg, keys.PrevField):
		return f, f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs)), false
	}

	f.err = ""
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *addForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *addForm) submit() (Modal, tea.Cmd, bool) {
	book, ok := f.value()
	if !ok {
		f.err = missingFieldsMessage
		return f, nil, false
	}
	f.err = ""
	f.saving = true
	return f, func() tea.Msg { return submitAddMsg{book: book} }, false
}

// value returns the trimmed fields; every one must be non-empty.
func (f *addForm) value() (catalog.NewBook, bool) {
	var vals [len(addFieldLabels)]string
	for i, in := range f.inputs {
		vals[i] = strings.TrimSpace(in.Value())
		if vals[i] == "" {
			return catalog.NewBook{}, false
		}
	}
	return catalog.NewBook{Title: vals[0], Author: vals[1], Publisher: vals[2], Categories: vals[3]}, true
}

func (f *addForm) hasData() bool {
	for _, in := range f.inputs {
		if strings.TrimSpace(in.Value()) != "" {
			return true
		}
	}
	return false
}

// fail reopens the form for editing after a failed save.
func (f *addForm) fail(text string) {
	f.saving = false
	f.err = text
}

func (f *addForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	if f.confirmDiscard {
		b.WriteString(styles.WarningText.Bold(true).Render("Discard changes"))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render("You will lose the entered data. Would you like to continue?"))
		b.WriteString("\n\n")
		b.WriteString(renderChoices(styles))
		return renderModal(theme, width, height, 50, b.String())
	}

	b.WriteString(styles.Text.Bold(true).Render("Add Book"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Width(12)
	for i, label := range addFieldLabels {
		style := labelStyle.Inherit(styles.MutedText)
		if i == f.focus {
			style = labelStyle.Inherit(styles.AccentText)
		}
		b.WriteString(style.Render(label))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(styles.MutedText.Render("Saving..."))
	case f.err == missingFieldsMessage:
		b.WriteString(styles.DangerText.Render("Missing fields"))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(f.err))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	default:
		b.WriteString(styles.FaintText.Render("enter next · ctrl+s save · esc cancel"))
	}
	return renderModal(theme, width, height, 54, b.String())
}

// checkoutPrompt asks who is taking out a book.
type checkoutPrompt struct {
	book  catalog.Book
	input textinput.Model
	err   string
}

func newCheckoutPrompt(book catalog.Book) *checkoutPrompt {
	ti := textinput.New()
	ti.Placeholder = "Name"
	ti.Prompt = "> "
	ti.CharLimit = 100
	ti.Width = 30
	ti.Focus()
	return &checkoutPrompt{book: book, input: ti}
}

func (p *checkoutPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p *checkoutPrompt) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			return p, nil, true
		case key.Matches(keyMsg, keys.Confirm):
			by := strings.TrimSpace(p.input.Value())
			if by == "" {
				p.err = missingNameMessage
				return p, nil, false
			}
			book := p.book
			return p, func() tea.Msg { return submitCheckoutMsg{book: book, by: by} }, true
		}
		p.err = ""
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *checkoutPrompt) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Checkout the book"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(truncate(p.book.Title, 40)))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Who is checking out?"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	if p.err != "" {
		b.WriteString(styles.DangerText.Render(p.err))
	} else {
		b.WriteString(styles.FaintText.Render("enter checkout · esc cancel"))
	}
	return renderModal(theme, width, height, 46, b.String())
}

// confirmDialog asks a yes/no question and emits onYes when confirmed.
type confirmDialog struct {
	title   string
	message string
	onYes   tea.Msg
}

func newConfirmDialog(title, message string, onYes tea.Msg) *confirmDialog {
	return &confirmDialog{title: title, message: message, onYes: onYes}
}

func (d *confirmDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		onYes := d.onYes
		return d, func() tea.Msg { return onYes }, true
	case key.Matches(keyMsg, keys.No):
		return d, nil, true
	}
	return d, nil, false
}

func (d *confirmDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := styles.WarningText.Bold(true).Render(d.title) + "\n\n" +
		styles.Text.Render(d.message) + "\n\n" +
		renderChoices(styles)
	return renderModal(theme, width, height, 44, content)
}

func renderChoices(styles Styles) string {
	return styles.AccentText.Render("y") + styles.MutedText.Render(":Yes  ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(":No")
}
