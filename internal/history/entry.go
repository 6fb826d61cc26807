// internal/history/entry.go
package history

import (
	"time"

	"github.com/vmdang/querypad/internal/db"
)

// HistoryEntry represents a single executed query. Immutable once recorded,
// except for the favorite flag.
type HistoryEntry struct {
	ID           int64
	QueryText    string
	DatabaseType db.DriverType
	Favorite     bool
	ExecutedAt   time.Time
}

// QueryPreview returns a truncated version of the query for list rendering
func (e *HistoryEntry) QueryPreview(maxLen int) string {
	q := e.QueryText
	if len(q) > maxLen {
		return q[:maxLen-3] + "..."
	}
	return q
}
