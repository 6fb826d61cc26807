// internal/templates/template.go
package templates

import "github.com/vmdang/querypad/internal/db"

// Template is a named, reusable query tagged with a database type. QueryText
// may contain {table_name} placeholders resolved at dispatch time.
type Template struct {
	ID           int64
	Name         string
	DatabaseType db.DriverType
	QueryText    string
}

// UpdateParams carries the mutable fields of a template. Nil fields are
// left unchanged.
type UpdateParams struct {
	Name         *string
	DatabaseType *db.DriverType
	QueryText    *string
}
