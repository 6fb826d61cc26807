// internal/ui/view.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/logging"
	"github.com/vmdang/querypad/internal/ui/highlight"
)

// View renders the current mode
func (m Model) View() string {
	switch m.mode {
	case modeHistory:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.historyList.View(),
			m.historyPreview(),
			HelpStyle.Render("enter: load · f: favorite · v: favorites only · d: delete · esc: back"),
		)

	case modeTemplates:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.templateList.View(),
			HelpStyle.Render("enter: load into editor · a: all/filtered · d: delete · esc: back"),
		)

	case modeSaveTemplate:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusBar(),
			PaneStyle.Render(m.editor.View()),
			TitleStyle.Render("Save as template"),
			m.nameInput.View(),
			HelpStyle.Render("enter: save · esc: cancel"),
		)
	}

	sections := []string{
		m.statusBar(),
		PaneStyle.Render(m.editor.View()),
	}

	if m.hasResults {
		sections = append(sections, m.results.View())
	} else if m.lastSummary != "" {
		sections = append(sections, FaintStyle.Render(m.lastSummary))
	}

	if m.status != "" {
		if m.statusIsErr {
			sections = append(sections, ErrorStyle.Render(m.status))
		} else {
			sections = append(sections, SuccessStyle.Render(m.status))
		}
	}

	sections = append(sections,
		HelpStyle.Render("ctrl+r: run · ctrl+h: history · ctrl+t: templates · ctrl+s: save template · ctrl+o: read-only · ctrl+x: cancel · ctrl+c: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// historyPreview renders the selected entry's full query, highlighted
func (m Model) historyPreview() string {
	item, ok := m.historyList.SelectedItem().(historyItem)
	if !ok {
		return ""
	}
	text := item.entry.QueryText
	if item.entry.DatabaseType == db.MongoDB {
		return PaneStyle.Render(highlight.JSON(text))
	}
	return PaneStyle.Render(highlight.SQL(text))
}

// statusBar renders connection, mode, and activity indicators
func (m Model) statusBar() string {
	var parts []string

	if active := m.session.ActiveConnection(); active != nil {
		parts = append(parts, ModeStyle.Render(strings.ToUpper(string(active.Type))))
		parts = append(parts, FaintStyle.Render(logging.SanitizeURL(active.URL)))
		if active.TableName != "" {
			parts = append(parts, FaintStyle.Render("table="+active.TableName))
		}
	} else {
		parts = append(parts, WarningStyle.Render("no connection"))
	}

	if m.readOnly {
		parts = append(parts, SuccessStyle.Render("[read-only]"))
	} else {
		parts = append(parts, WarningStyle.Render("[read-write]"))
	}

	if m.running {
		parts = append(parts, fmt.Sprintf("%s running", m.spin.View()))
	}

	return StatusBarStyle.Render(strings.Join(parts, " "))
}
