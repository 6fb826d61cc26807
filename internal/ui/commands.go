// internal/ui/commands.go
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const queryTimeout = 30 * time.Second

// executeQueryCmd runs the query asynchronously through the session
// coordinator so the interface stays responsive
func (m Model) executeQueryCmd(queryText string, readOnly bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		result, err := m.session.Run(ctx, queryText, readOnly)
		return QueryResultMsg{Result: result, Err: err}
	}
}

// loadHistoryCmd loads history entries, optionally favorites only
func (m Model) loadHistoryCmd(favoritesOnly bool) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.historyLog.List(favoritesOnly)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// loadTemplatesCmd loads templates filtered by the active connection's type
func (m Model) loadTemplatesCmd() tea.Cmd {
	return func() tea.Msg {
		filter := m.templateFilter
		tmpls, err := m.templateStore.List(filter)
		return TemplatesLoadedMsg{Templates: tmpls, Err: err}
	}
}

// toggleFavoriteCmd flips the favorite flag on a history entry
func (m Model) toggleFavoriteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.historyLog.ToggleFavorite(id)
		return FavoriteToggledMsg{Entry: entry, Err: err}
	}
}

// deleteHistoryCmd removes a history entry
func (m Model) deleteHistoryCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.historyLog.Delete(id)
		return HistoryDeletedMsg{ID: id, Err: err}
	}
}

// applyTemplateCmd loads a template's query text into the editor without
// executing it
func (m Model) applyTemplateCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		text, err := m.session.ApplyTemplate(id)
		return TemplateAppliedMsg{QueryText: text, Err: err}
	}
}

// saveTemplateCmd saves the editor buffer as a named template
func (m Model) saveTemplateCmd(name, queryText string) tea.Cmd {
	return func() tea.Msg {
		active := m.session.ActiveConnection()
		if active == nil {
			tmpl, err := m.templateStore.Create(name, m.defaultType, queryText)
			return TemplateSavedMsg{Template: tmpl, Err: err}
		}
		tmpl, err := m.templateStore.Create(name, active.Type, queryText)
		return TemplateSavedMsg{Template: tmpl, Err: err}
	}
}

// deleteTemplateCmd removes a template
func (m Model) deleteTemplateCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.templateStore.Delete(id)
		return TemplateDeletedMsg{ID: id, Err: err}
	}
}
