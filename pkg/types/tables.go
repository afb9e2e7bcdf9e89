package types

// Standard table names.
const (
	TableProfiles         = "profiles"
	TableGameSessions     = "game_sessions"
	TableQuestionAttempts = "question_attempts"
	TableLevelConfigs     = "level_configs"
	TableLevelHistory     = "level_history"
	TableAuthSessions     = "auth_sessions"
)

// Common field names shared across tables.
const (
	FieldUpdatedAt = "updated_at"
	FieldCreatedAt = "created_at"
)

// KeyKind describes the storage type of a table's primary key.
type KeyKind int

const (
	// KeyString keys are caller-supplied identifiers (profile ids,
	// session ids).
	KeyString KeyKind = iota
	// KeyInt keys are integers, either caller-supplied (level numbers)
	// or assigned by the store when the table auto-increments.
	KeyInt
)

// IndexSpec declares a secondary index on a single field, usable for
// equality lookup without a full-table scan.
type IndexSpec struct {
	Field  string
	Unique bool
}

// TableSpec declares a table's shape: its primary-key field and kind, and
// any secondary indexes. The store derives its physical layout from these.
type TableSpec struct {
	Name          string
	PrimaryKey    string
	KeyKind       KeyKind
	AutoIncrement bool
	// AddOnly tables carry caller-supplied unique keys: inserts fail on a
	// key collision instead of overwriting. Other tables upsert.
	AddOnly bool
	Indexes []IndexSpec
}

// Tables declares every table in the store. Adding or reshaping an entry
// requires bumping the schema version; the store migrates destructively.
var Tables = []TableSpec{
	{
		Name:       TableProfiles,
		PrimaryKey: "id",
		KeyKind:    KeyString,
		AddOnly:    true,
		Indexes: []IndexSpec{
			{Field: "username", Unique: true},
			{Field: "email", Unique: true},
		},
	},
	{
		Name:       TableGameSessions,
		PrimaryKey: "session_id",
		KeyKind:    KeyString,
		Indexes: []IndexSpec{
			{Field: "user_id"},
			{Field: "started_at"},
		},
	},
	{
		Name:          TableQuestionAttempts,
		PrimaryKey:    "id",
		KeyKind:       KeyInt,
		AutoIncrement: true,
		Indexes: []IndexSpec{
			{Field: "session_id"},
			{Field: "user_id"},
		},
	},
	{
		Name:       TableLevelConfigs,
		PrimaryKey: "level",
		KeyKind:    KeyInt,
	},
	{
		Name:          TableLevelHistory,
		PrimaryKey:    "id",
		KeyKind:       KeyInt,
		AutoIncrement: true,
		Indexes: []IndexSpec{
			{Field: "user_id"},
		},
	},
	{
		Name:       TableAuthSessions,
		PrimaryKey: "id",
		KeyKind:    KeyString,
	},
}

// TableByName returns the spec for the named table, or false if the name is
// not a declared table.
func TableByName(name string) (TableSpec, bool) {
	for _, spec := range Tables {
		if spec.Name == name {
			return spec, true
		}
	}
	return TableSpec{}, false
}
