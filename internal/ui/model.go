// internal/ui/model.go
package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/vmdang/querypad/internal/config"
	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/session"
	"github.com/vmdang/querypad/internal/templates"
)

type mode int

const (
	modeEditor mode = iota
	modeHistory
	modeTemplates
	modeSaveTemplate
)

// Model is the root bubbletea model. It only calls the core's public
// operations; all query semantics live in the session coordinator and the
// stores.
type Model struct {
	cfg           *config.Config
	session       *session.Coordinator
	historyLog    *history.Store
	templateStore *templates.Store

	editor    textarea.Model
	results   bbtable.Model
	nameInput textinput.Model
	spin      spinner.Model

	historyList  list.Model
	templateList list.Model

	mode           mode
	focusResults   bool
	hasResults     bool
	running        bool
	readOnly       bool
	favoritesOnly  bool
	templateFilter db.DriverType
	defaultType    db.DriverType

	lastSummary string
	status      string
	statusIsErr bool

	width  int
	height int
}

// New creates the root model
func New(cfg *config.Config, sess *session.Coordinator, historyLog *history.Store, templateStore *templates.Store) Model {
	editor := textarea.New()
	editor.Placeholder = "Write a query, ctrl+r to run"
	editor.ShowLineNumbers = false
	editor.Focus()

	nameInput := textinput.New()
	nameInput.Placeholder = "template name"
	nameInput.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	historyList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "History"
	historyList.SetShowStatusBar(false)

	templateList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	templateList.Title = "Templates"
	templateList.SetShowStatusBar(false)

	readOnly := cfg.ReadOnlyDefault
	defaultType := db.Postgres
	if active := sess.ActiveConnection(); active != nil {
		defaultType = active.Type
	}

	return Model{
		cfg:           cfg,
		session:       sess,
		historyLog:    historyLog,
		templateStore: templateStore,
		editor:        editor,
		nameInput:     nameInput,
		spin:          spin,
		historyList:   historyList,
		templateList:  templateList,
		readOnly:      readOnly,
		defaultType:   defaultType,
	}
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// setStatus records a transient status line message
func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusIsErr = isErr
}

// layout recomputes component sizes after a window resize
func (m *Model) layout() {
	editorHeight := 8
	if m.height < 20 {
		editorHeight = m.height / 3
	}
	m.editor.SetWidth(m.width - 4)
	m.editor.SetHeight(editorHeight)

	listHeight := m.height - 4
	if listHeight < 5 {
		listHeight = 5
	}
	m.historyList.SetSize(m.width-4, listHeight)
	m.templateList.SetSize(m.width-4, listHeight)

	if m.hasResults {
		m.results = m.results.WithTargetWidth(m.width - 4)
	}
}
