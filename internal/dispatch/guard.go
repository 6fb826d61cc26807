// internal/dispatch/guard.go
package dispatch

import (
	"fmt"
	"strings"

	"github.com/vmdang/querypad/internal/apperrors"
)

// Statement keywords rejected in read-only mode. The check is purely
// syntactic on the leading keyword: it is advisory, not a security boundary,
// and does not catch a mutating statement smuggled after a leading SELECT.
var mutatingKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"DROP":     true,
	"ALTER":    true,
	"TRUNCATE": true,
	"CREATE":   true,
}

// CheckReadOnly rejects queries whose leading keyword indicates a mutating
// statement
func CheckReadOnly(queryText string) error {
	fields := strings.Fields(queryText)
	if len(fields) == 0 {
		return nil
	}
	keyword := strings.ToUpper(fields[0])
	if mutatingKeywords[keyword] {
		return fmt.Errorf("%w: %s", apperrors.ErrForbidden, keyword)
	}
	return nil
}
