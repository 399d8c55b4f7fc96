package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewLibrary View = iota
	ViewLogs
)

// changeBuffer bounds change notifications waiting for the UI. A dropped
// notification only delays the next snapshot read.
const changeBuffer = 64

// Library is the catalog the UI drives. *library.Manager implements it.
type Library interface {
	FetchBooks(refresh bool, done func(ok bool)) bool
	AddBook(book catalog.NewBook, done func(*catalog.Book))
	Checkout(book catalog.Book, by string, done func(*catalog.Book))
	Delete(book catalog.Book, done func(ok bool))
	DeleteAll(done func(ok bool))
	Snapshot() library.Snapshot
	OnChange(fn func(library.Change))
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Library   Library
	Logger    *slog.Logger
	LogPath   string
	APIURL    string
	Prefs     prefs.Prefs
	PrefsPath string // empty uses default ~/.config/shelf/prefs.toml
}

type alertTone int

const (
	toneInfo alertTone = iota
	toneSuccess
	toneDanger
)

// alert is the footer message; it clears on the next key press.
type alert struct {
	tone alertTone
	text string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	lib       Library
	logger    *slog.Logger
	logPath   string
	apiURL    string
	prefsPath string
	changes   chan library.Change
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	hideDetail  bool
	showHelp    bool
	modal       Modal
	alert       alert

	// Data state
	snapshot    library.Snapshot
	selectedRow int

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a model over opts.Library and subscribes to its changes.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	m := Model{
		ctx:         ctx,
		lib:         opts.Library,
		logger:      logger.With("component", "ui"),
		logPath:     opts.LogPath,
		apiURL:      opts.APIURL,
		prefsPath:   opts.PrefsPath,
		changes:     make(chan library.Change, changeBuffer),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewLibrary,
		hideDetail:  opts.Prefs.HideDetail,
		logState:    logState{follow: true},
	}
	if m.lib != nil {
		changes := m.changes
		m.lib.OnChange(func(c library.Change) {
			select {
			case changes <- c:
			default:
			}
		})
		m.snapshot = m.lib.Snapshot()
	}
	return m
}

// Init implements tea.Model. The first fetch replaces the catalog.
func (m Model) Init() tea.Cmd {
	if m.lib == nil {
		return nil
	}
	return tea.Batch(
		waitForChange(m.ctx, m.changes),
		fetchCmd(m.lib, true),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case changeMsg:
		m.applySnapshot(m.lib.Snapshot())
		return m, waitForChange(m.ctx, m.changes)

	case opDoneMsg:
		return m.handleOpDone(msg)

	case refreshSkippedMsg:
		m.alert = alert{tone: toneInfo, text: "Refresh already in progress"}
		return m, nil

	case submitAddMsg:
		return m, addCmd(m.lib, msg.book)

	case submitCheckoutMsg:
		return m, checkoutCmd(m.lib, msg.book, msg.by)

	case confirmDeleteAllMsg:
		return m, deleteAllCmd(m.lib)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logTickMsg:
		if msg.gen != m.logState.gen || m.currentView != ViewLogs {
			return m, nil
		}
		return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(msg.gen))
	}

	// Cursor blinks and the like belong to the open form.
	if m.modal != nil {
		next, cmd, _ := m.modal.Update(msg, m.keys)
		m.modal = next
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.alert = alert{}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetail):
		m.hideDetail = !m.hideDetail
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewLibrary
			return m, nil
		}
		return m, m.openLogs()

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewLibrary
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleLibraryKey(msg)
	}
}

// handleLibraryKey processes keyboard input for the library view.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, fetchCmd(m.lib, true)

	case key.Matches(msg, m.keys.Add):
		form := newAddForm()
		m.modal = form
		return m, form.Init()

	case key.Matches(msg, m.keys.DeleteAll):
		if len(m.snapshot.Books) == 0 {
			return m, nil
		}
		m.modal = newConfirmDialog("Delete all books", "Are you sure to delete all books?", confirmDeleteAllMsg{})
		return m, nil
	}

	book, ok := m.selectedBook()
	if !ok {
		return m, nil
	}
	count := len(m.snapshot.Books)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow = min(m.selectedRow+1, count-1)
	case key.Matches(msg, m.keys.Up):
		m.selectedRow = max(m.selectedRow-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(m.selectedRow+max(m.listHeight()/2, 1), count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(m.selectedRow-max(m.listHeight()/2, 1), 0)

	case key.Matches(msg, m.keys.Checkout):
		if !book.Available() {
			return m, nil
		}
		prompt := newCheckoutPrompt(book)
		m.modal = prompt
		return m, prompt.Init()

	case key.Matches(msg, m.keys.Delete):
		return m, deleteCmd(m.lib, book)
	}

	return m, nil
}

// handleOpDone reports the outcome of an operation the user started.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if m.lib != nil {
		m.applySnapshot(m.lib.Snapshot())
	}

	switch msg.op {
	case library.OpFetch:
		if !msg.ok {
			m.alert = alert{tone: toneDanger, text: "Could not load books"}
		}

	case library.OpAdd:
		form, formOpen := m.modal.(*addForm)
		switch {
		case msg.ok:
			if formOpen {
				m.modal = nil
			}
			m.alert = alert{tone: toneSuccess, text: "Saved!"}
			if msg.book != nil {
				m.selectByID(msg.book.ID)
			}
		case formOpen:
			form.fail(saveFailedMessage)
		default:
			m.alert = alert{tone: toneDanger, text: saveFailedMessage}
		}

	case library.OpCheckout:
		if !msg.ok {
			m.alert = alert{tone: toneDanger, text: "An error occurred while checking out the book"}
		} else if msg.book != nil && msg.book.LastCheckout != nil {
			m.alert = alert{tone: toneSuccess, text: "Checked out to " + msg.book.LastCheckout.By}
		}

	case library.OpDelete:
		if !msg.ok {
			m.alert = alert{tone: toneDanger, text: "An error occurred while deleting books"}
		}

	case library.OpDeleteAll:
		if msg.ok {
			m.alert = alert{tone: toneSuccess, text: "All books deleted"}
		} else {
			m.alert = alert{tone: toneDanger, text: "An error occurred while deleting books"}
		}
	}
	return m, nil
}

// applySnapshot installs snap and keeps the selection on the same book when
// it is still listed, otherwise clamps the row.
func (m *Model) applySnapshot(snap library.Snapshot) {
	selectedID, hadSelection := 0, false
	if b, ok := m.selectedBook(); ok {
		selectedID, hadSelection = b.ID, true
	}

	m.snapshot = snap
	count := len(snap.Books)
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if hadSelection && m.selectByID(selectedID) {
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
}

// selectByID moves the selection to the book with id.
func (m *Model) selectByID(id int) bool {
	for i, b := range m.snapshot.Books {
		if b.ID == id {
			m.selectedRow = i
			return true
		}
	}
	return false
}

// selectedBook returns the highlighted book.
func (m Model) selectedBook() (catalog.Book, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Books) {
		return catalog.Book{}, false
	}
	return m.snapshot.Books[m.selectedRow], true
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, HideDetail: m.hideDetail}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// renderMain renders header, command bar, content and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderLibrary()
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeRows, 3)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
