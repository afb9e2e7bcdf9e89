// Package sqlite implements the persistent store adapter for localbase.
// SQLite is the durable engine; each logical table is one SQLite table
// holding the full record as a JSON body plus extracted primary-key and
// index columns for keyed and indexed lookup.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/rewardmaths/localbase/pkg/types"
)

// createTableSQL builds the DDL for one declared table. The primary key
// becomes the first column; each secondary index field gets its own column
// so the index can be declared over it; the record itself lives in body.
func createTableSQL(spec types.TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", spec.Name)

	switch {
	case spec.AutoIncrement:
		fmt.Fprintf(&b, "    %s INTEGER PRIMARY KEY AUTOINCREMENT", spec.PrimaryKey)
	case spec.KeyKind == types.KeyInt:
		fmt.Fprintf(&b, "    %s INTEGER PRIMARY KEY", spec.PrimaryKey)
	default:
		fmt.Fprintf(&b, "    %s TEXT PRIMARY KEY", spec.PrimaryKey)
	}

	for _, idx := range spec.Indexes {
		fmt.Fprintf(&b, ",\n    %s TEXT", idx.Field)
	}
	b.WriteString(",\n    body TEXT NOT NULL\n);")
	return b.String()
}

// createIndexSQL builds the DDL for the table's secondary indexes.
func createIndexSQL(spec types.TableSpec) []string {
	var stmts []string
	for _, idx := range spec.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf(
			"CREATE %sINDEX IF NOT EXISTS idx_%s_%s ON %s (%s);",
			unique, spec.Name, idx.Field, spec.Name, idx.Field))
	}
	return stmts
}

// dropTableSQL builds the DDL to remove a table during destructive migration.
func dropTableSQL(spec types.TableSpec) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", spec.Name)
}
