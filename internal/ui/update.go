// internal/ui/update.go
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update is the bubbletea message loop
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case QueryResultMsg:
		m.running = false
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.results = resultsTable(msg.Result, m.width-4)
		m.hasResults = msg.Result != nil && len(msg.Result.Columns) > 0
		m.lastSummary = resultSummary(msg.Result)
		m.setStatus(m.lastSummary, false)
		return m, nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = historyItem{entry: e}
		}
		return m, m.historyList.SetItems(items)

	case TemplatesLoadedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		items := make([]list.Item, len(msg.Templates))
		for i, t := range msg.Templates {
			items[i] = templateItem{template: t}
		}
		return m, m.templateList.SetItems(items)

	case FavoriteToggledMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		return m, m.loadHistoryCmd(m.favoritesOnly)

	case HistoryDeletedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		return m, m.loadHistoryCmd(m.favoritesOnly)

	case TemplateAppliedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.editor.SetValue(msg.QueryText)
		m.mode = modeEditor
		m.editor.Focus()
		m.setStatus("template loaded into editor", false)
		return m, nil

	case TemplateSavedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		m.mode = modeEditor
		m.editor.Focus()
		m.setStatus("template saved: "+msg.Template.Name, false)
		return m, nil

	case TemplateDeletedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return m, nil
		}
		return m, m.loadTemplatesCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses by mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeEditor:
		return m.handleEditorKey(msg)
	case modeHistory:
		return m.handleHistoryKey(msg)
	case modeTemplates:
		return m.handleTemplatesKey(msg)
	case modeSaveTemplate:
		return m.handleSaveTemplateKey(msg)
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		queryText := m.editor.Value()
		if strings.TrimSpace(queryText) == "" {
			m.setStatus("nothing to run", true)
			return m, nil
		}
		m.running = true
		m.setStatus("running...", false)
		return m, tea.Batch(m.spin.Tick, m.executeQueryCmd(queryText, m.readOnly))

	case "ctrl+x":
		m.session.Cancel()
		m.setStatus("cancel requested", false)
		return m, nil

	case "ctrl+o":
		m.readOnly = !m.readOnly
		if m.readOnly {
			m.setStatus("read-only mode on", false)
		} else {
			m.setStatus("read-only mode off", false)
		}
		return m, nil

	case "ctrl+h":
		m.mode = modeHistory
		m.editor.Blur()
		return m, m.loadHistoryCmd(m.favoritesOnly)

	case "ctrl+t":
		m.mode = modeTemplates
		m.editor.Blur()
		if active := m.session.ActiveConnection(); active != nil {
			m.templateFilter = active.Type
		}
		return m, m.loadTemplatesCmd()

	case "ctrl+s":
		if strings.TrimSpace(m.editor.Value()) == "" {
			m.setStatus("nothing to save as a template", true)
			return m, nil
		}
		m.mode = modeSaveTemplate
		m.editor.Blur()
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, nil

	case "tab":
		if m.hasResults {
			m.focusResults = !m.focusResults
			if m.focusResults {
				m.editor.Blur()
				m.results = m.results.Focused(true)
			} else {
				m.editor.Focus()
				m.results = m.results.Focused(false)
			}
		}
		return m, nil
	}

	if m.focusResults {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list's filter input consume keys while filtering
	if m.historyList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.mode = modeEditor
		m.editor.Focus()
		return m, nil

	case "enter":
		if item, ok := m.historyList.SelectedItem().(historyItem); ok {
			m.editor.SetValue(item.entry.QueryText)
			m.mode = modeEditor
			m.editor.Focus()
			m.setStatus("query loaded from history", false)
		}
		return m, nil

	case "f":
		if item, ok := m.historyList.SelectedItem().(historyItem); ok {
			return m, m.toggleFavoriteCmd(item.entry.ID)
		}
		return m, nil

	case "v":
		m.favoritesOnly = !m.favoritesOnly
		if m.favoritesOnly {
			m.historyList.Title = "History (favorites)"
		} else {
			m.historyList.Title = "History"
		}
		return m, m.loadHistoryCmd(m.favoritesOnly)

	case "d":
		if item, ok := m.historyList.SelectedItem().(historyItem); ok {
			return m, m.deleteHistoryCmd(item.entry.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m Model) handleTemplatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.templateList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.templateList, cmd = m.templateList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.mode = modeEditor
		m.editor.Focus()
		return m, nil

	case "enter":
		if item, ok := m.templateList.SelectedItem().(templateItem); ok {
			return m, m.applyTemplateCmd(item.template.ID)
		}
		return m, nil

	case "a":
		// Toggle between all templates and the active connection's type
		if m.templateFilter == "" {
			if active := m.session.ActiveConnection(); active != nil {
				m.templateFilter = active.Type
			}
		} else {
			m.templateFilter = ""
		}
		return m, m.loadTemplatesCmd()

	case "d":
		if item, ok := m.templateList.SelectedItem().(templateItem); ok {
			return m, m.deleteTemplateCmd(item.template.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.templateList, cmd = m.templateList.Update(msg)
	return m, cmd
}

func (m Model) handleSaveTemplateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeEditor
		m.nameInput.Blur()
		m.editor.Focus()
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		m.nameInput.Blur()
		return m, m.saveTemplateCmd(name, m.editor.Value())
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}
