// internal/ui/items.go
package ui

import (
	"fmt"

	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/templates"
)

// historyItem adapts a HistoryEntry for the bubbles list
type historyItem struct {
	entry history.HistoryEntry
}

func (i historyItem) Title() string {
	star := "  "
	if i.entry.Favorite {
		star = "★ "
	}
	return star + i.entry.QueryPreview(60)
}

func (i historyItem) Description() string {
	return fmt.Sprintf("%s · %s",
		i.entry.DatabaseType,
		i.entry.ExecutedAt.Local().Format("2006-01-02 15:04:05"))
}

func (i historyItem) FilterValue() string { return i.entry.QueryText }

// templateItem adapts a Template for the bubbles list
type templateItem struct {
	template templates.Template
}

func (i templateItem) Title() string { return i.template.Name }

func (i templateItem) Description() string {
	preview := i.template.QueryText
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	return fmt.Sprintf("%s · %s", i.template.DatabaseType, preview)
}

func (i templateItem) FilterValue() string {
	return i.template.Name + " " + i.template.QueryText
}
