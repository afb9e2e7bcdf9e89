package sqlite

import (
	"strings"
	"testing"

	"github.com/rewardmaths/localbase/pkg/types"
)

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		name     string
		spec     types.TableSpec
		contains []string
	}{
		{
			name: "string key with indexes",
			spec: types.TableSpec{
				Name:       "profiles",
				PrimaryKey: "id",
				KeyKind:    types.KeyString,
				Indexes:    []types.IndexSpec{{Field: "username", Unique: true}},
			},
			contains: []string{"id TEXT PRIMARY KEY", "username TEXT", "body TEXT NOT NULL"},
		},
		{
			name: "integer key",
			spec: types.TableSpec{
				Name:       "level_configs",
				PrimaryKey: "level",
				KeyKind:    types.KeyInt,
			},
			contains: []string{"level INTEGER PRIMARY KEY"},
		},
		{
			name: "auto increment",
			spec: types.TableSpec{
				Name:          "question_attempts",
				PrimaryKey:    "id",
				KeyKind:       types.KeyInt,
				AutoIncrement: true,
			},
			contains: []string{"id INTEGER PRIMARY KEY AUTOINCREMENT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := createTableSQL(tt.spec)
			for _, want := range tt.contains {
				if !strings.Contains(sql, want) {
					t.Fatalf("DDL missing %q:\n%s", want, sql)
				}
			}
		})
	}
}

func TestCreateIndexSQL(t *testing.T) {
	spec := types.TableSpec{
		Name:       "profiles",
		PrimaryKey: "id",
		Indexes: []types.IndexSpec{
			{Field: "username", Unique: true},
			{Field: "email"},
		},
	}

	stmts := createIndexSQL(spec)
	if len(stmts) != 2 {
		t.Fatalf("stmt count = %d, want 2", len(stmts))
	}
	if !strings.Contains(stmts[0], "CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username") {
		t.Fatalf("unexpected unique index DDL: %s", stmts[0])
	}
	if strings.Contains(stmts[1], "UNIQUE") {
		t.Fatalf("non-unique index declared UNIQUE: %s", stmts[1])
	}
}
