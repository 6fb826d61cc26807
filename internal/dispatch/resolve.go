// internal/dispatch/resolve.go
package dispatch

import (
	"fmt"
	"strings"

	"github.com/vmdang/querypad/internal/apperrors"
)

// TablePlaceholder is the literal token substituted with the active
// connection's table name before dispatch.
const TablePlaceholder = "{table_name}"

// ResolveTableName replaces every occurrence of the table placeholder with
// tableName. When the placeholder is present but no table name is set, the
// query is rejected before any driver sees it.
func ResolveTableName(queryText, tableName string) (string, error) {
	if !strings.Contains(queryText, TablePlaceholder) {
		return queryText, nil
	}
	if tableName == "" {
		return "", fmt.Errorf("%w: query uses %s but no table name is set on the connection",
			apperrors.ErrInvalid, TablePlaceholder)
	}
	return strings.ReplaceAll(queryText, TablePlaceholder, tableName), nil
}
