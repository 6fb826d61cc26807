// internal/ui/messages.go
package ui

import (
	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/templates"
)

// QueryResultMsg sent when query execution completes
type QueryResultMsg struct {
	Result *db.QueryResult
	Err    error
}

// HistoryLoadedMsg sent when the history list loads
type HistoryLoadedMsg struct {
	Entries []history.HistoryEntry
	Err     error
}

// TemplatesLoadedMsg sent when the template list loads
type TemplatesLoadedMsg struct {
	Templates []templates.Template
	Err       error
}

// FavoriteToggledMsg sent after a favorite flip
type FavoriteToggledMsg struct {
	Entry *history.HistoryEntry
	Err   error
}

// TemplateAppliedMsg carries a template's query text into the editor
type TemplateAppliedMsg struct {
	QueryText string
	Err       error
}

// TemplateSavedMsg sent after saving the editor buffer as a template
type TemplateSavedMsg struct {
	Template *templates.Template
	Err      error
}

// HistoryDeletedMsg sent after deleting a history entry
type HistoryDeletedMsg struct {
	ID  int64
	Err error
}

// TemplateDeletedMsg sent after deleting a template
type TemplateDeletedMsg struct {
	ID  int64
	Err error
}
