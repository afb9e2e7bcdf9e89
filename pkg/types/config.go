package types

import "errors"

// SchemaVersion is the version of the table layout declared in Tables.
// Opening a store whose persisted version differs migrates destructively:
// every table is dropped and recreated. Acceptable for practice-session
// data, which is replaceable.
const SchemaVersion = 1

// Config holds the parameters for opening a store.
type Config struct {
	// DataDir is the directory holding the database file. Created if
	// missing. Empty means the current directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SchemaVersion selects the table layout. Zero means SchemaVersion.
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
}

// Config validation errors.
var (
	ErrSchemaVersionInvalid = errors.New("schema version must not be negative")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.SchemaVersion < 0 {
		return ErrSchemaVersionInvalid
	}
	return nil
}

// EffectiveSchemaVersion returns the configured version, defaulting to the
// current SchemaVersion when unset.
func (c Config) EffectiveSchemaVersion() int {
	if c.SchemaVersion == 0 {
		return SchemaVersion
	}
	return c.SchemaVersion
}
