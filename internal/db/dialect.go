package db

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dialect identifiers supported by the database layer.
const (
	// DialectPostgres is the PostgreSQL dialect name.
	DialectPostgres = "postgres"
	// DialectSQLite is the SQLite dialect name.
	DialectSQLite = "sqlite"
)

// DialectName returns the active database dialect name.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection uses SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// OAuthAccountContainsExpr returns a SQL expression testing whether a
// JSON array column contains an object with the given provider and id.
// The expression binds exactly the values produced by
// OAuthAccountContainsValues, in order.
func OAuthAccountContainsExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(%s) WHERE json_extract(value, '$.provider') = ? AND json_extract(value, '$.id') = ?)",
			column,
		)
	}
	return fmt.Sprintf("%s @> ?", column)
}

// OAuthAccountContainsValues returns the bind values matching
// OAuthAccountContainsExpr for the current dialect.
func OAuthAccountContainsValues(conn *gorm.DB, provider, id string) []any {
	if IsSQLite(conn) {
		return []any{provider, id}
	}
	payload, _ := json.Marshal([]map[string]string{{"provider": provider, "id": id}})
	return []any{datatypes.JSON(payload)}
}
