package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sqlite3 "modernc.org/sqlite"

	"github.com/rewardmaths/localbase/pkg/types"
)

// dbFileName is the database file created inside Config.DataDir.
const dbFileName = "localbase.db"

// sqliteConstraintCode is the primary SQLite result code for constraint
// violations; extended unique/primary-key codes share this low byte.
const sqliteConstraintCode = 19

// Store is the persistent store adapter. All primitives resolve to a value
// or a typed *types.Error; driver faults never cross the boundary raw.
// Single-process, single-writer: the mutex serializes writers within this
// process, it does not guard read-modify-write sequences spanning calls.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	open bool
}

// Open creates or opens the store in cfg.DataDir, creating declared tables
// and indexes for the configured schema version. A persisted version that
// differs from the configured one is migrated destructively: every table is
// dropped and recreated.
func Open(cfg types.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, types.StorageFault(err, "creating data dir %s", dataDir)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, types.StorageFault(err, "opening database")
	}

	s := &Store{db: db, open: true}
	if err := s.migrate(cfg.EffectiveSchemaVersion()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle. Idempotent; operations after Close
// return a storage fault.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	if err := s.db.Close(); err != nil {
		return types.StorageFault(err, "closing database")
	}
	return nil
}

// migrate brings the schema to the wanted version. Same version: create
// anything missing, idempotently. Different version: drop and recreate all
// declared tables, then stamp the new version.
func (s *Store) migrate(version int) error {
	var current int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return types.StorageFault(err, "reading schema version")
	}

	if current != 0 && current != version {
		for _, spec := range types.Tables {
			if _, err := s.db.Exec(dropTableSQL(spec)); err != nil {
				return types.StorageFault(err, "dropping table %s", spec.Name)
			}
		}
	}

	for _, spec := range types.Tables {
		if _, err := s.db.Exec(createTableSQL(spec)); err != nil {
			return types.StorageFault(err, "creating table %s", spec.Name)
		}
		for _, stmt := range createIndexSQL(spec) {
			if _, err := s.db.Exec(stmt); err != nil {
				return types.StorageFault(err, "indexing table %s", spec.Name)
			}
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return types.StorageFault(err, "stamping schema version")
	}
	return nil
}

// GetAll returns every record in the table.
func (s *Store) GetAll(table string) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, err := s.specFor(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT body FROM %s", spec.Name))
	if err != nil {
		return nil, types.StorageFault(err, "reading %s", spec.Name)
	}
	defer rows.Close()

	return scanRecords(spec.Name, rows)
}

// Get returns the record with the given primary key, or a not-found error.
func (s *Store) Get(table string, key any) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, err := s.specFor(table)
	if err != nil {
		return nil, err
	}

	var body string
	err = s.db.QueryRow(
		fmt.Sprintf("SELECT body FROM %s WHERE %s = ?", spec.Name, spec.PrimaryKey),
		key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("%s: no record with %s = %v", spec.Name, spec.PrimaryKey, key)
	}
	if err != nil {
		return nil, types.StorageFault(err, "reading %s", spec.Name)
	}
	return decodeRecord(spec.Name, body)
}

// GetByIndex returns all records whose indexed field equals value. The
// index must be declared in the table's spec.
func (s *Store) GetByIndex(table, index string, value any) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, err := s.specFor(table)
	if err != nil {
		return nil, err
	}
	if !hasIndex(spec, index) {
		return nil, types.UnknownOperation("%s: no index on %q", spec.Name, index)
	}

	rows, err := s.db.Query(
		fmt.Sprintf("SELECT body FROM %s WHERE %s = ?", spec.Name, index), value)
	if err != nil {
		return nil, types.StorageFault(err, "reading %s by %s", spec.Name, index)
	}
	defer rows.Close()

	return scanRecords(spec.Name, rows)
}

// Put upserts the record by primary key: an existing row with the same key
// is overwritten, otherwise a new row is inserted. Unique secondary-index
// collisions are rejected with a constraint error.
func (s *Store) Put(table string, record types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, err := s.specFor(table)
	if err != nil {
		return err
	}
	key, ok := keyValue(spec, record)
	if !ok {
		return types.Constraint("%s: record is missing primary key %q", spec.Name, spec.PrimaryKey)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return types.StorageFault(err, "encoding %s record", spec.Name)
	}

	cols := []string{spec.PrimaryKey}
	args := []any{key}
	var updates []string
	for _, idx := range spec.Indexes {
		cols = append(cols, idx.Field)
		args = append(args, record[idx.Field])
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", idx.Field, idx.Field))
	}
	cols = append(cols, "body")
	args = append(args, string(body))
	updates = append(updates, "body = excluded.body")

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		spec.Name,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		spec.PrimaryKey,
		strings.Join(updates, ", "))

	if _, err := s.db.Exec(stmt, args...); err != nil {
		if isConstraintErr(err) {
			return types.Constraint("%s: unique index violated: %v", spec.Name, err)
		}
		return types.StorageFault(err, "writing %s", spec.Name)
	}
	return nil
}

// Add inserts the record, failing with a constraint error if the primary
// key already exists. On an auto-increment table with no key set, the store
// assigns the next id and writes it into the record before returning.
func (s *Store) Add(table string, record types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, err := s.specFor(table)
	if err != nil {
		return err
	}

	key, hasKey := keyValue(spec, record)
	if !hasKey && !spec.AutoIncrement {
		return types.Constraint("%s: record is missing primary key %q", spec.Name, spec.PrimaryKey)
	}

	if !hasKey {
		return s.addAutoIncrement(spec, record)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return types.StorageFault(err, "encoding %s record", spec.Name)
	}

	cols := []string{spec.PrimaryKey}
	args := []any{key}
	for _, idx := range spec.Indexes {
		cols = append(cols, idx.Field)
		args = append(args, record[idx.Field])
	}
	cols = append(cols, "body")
	args = append(args, string(body))

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := s.db.Exec(stmt, args...); err != nil {
		if isConstraintErr(err) {
			return types.Constraint("%s: key or unique index violated: %v", spec.Name, err)
		}
		return types.StorageFault(err, "writing %s", spec.Name)
	}
	return nil
}

// addAutoIncrement inserts without a key, lets SQLite assign one, stamps it
// into the record, and rewrites the body so the stored JSON carries the id.
// The caller holds the write lock.
func (s *Store) addAutoIncrement(spec types.TableSpec, record types.Record) error {
	var cols []string
	var args []any
	for _, idx := range spec.Indexes {
		cols = append(cols, idx.Field)
		args = append(args, record[idx.Field])
	}
	cols = append(cols, "body")
	args = append(args, "")

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := s.db.Exec(stmt, args...)
	if err != nil {
		if isConstraintErr(err) {
			return types.Constraint("%s: unique index violated: %v", spec.Name, err)
		}
		return types.StorageFault(err, "writing %s", spec.Name)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.StorageFault(err, "reading assigned id for %s", spec.Name)
	}
	// JSON value semantics: numbers are float64 once read back.
	record[spec.PrimaryKey] = float64(id)

	body, err := json.Marshal(record)
	if err != nil {
		return types.StorageFault(err, "encoding %s record", spec.Name)
	}
	if _, err := s.db.Exec(
		fmt.Sprintf("UPDATE %s SET body = ? WHERE %s = ?", spec.Name, spec.PrimaryKey),
		string(body), id); err != nil {
		return types.StorageFault(err, "writing %s", spec.Name)
	}
	return nil
}

// Delete removes the record with the given primary key. Deleting a missing
// key is a not-found error.
func (s *Store) Delete(table string, key any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, err := s.specFor(table)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", spec.Name, spec.PrimaryKey), key)
	if err != nil {
		return types.StorageFault(err, "deleting from %s", spec.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.StorageFault(err, "deleting from %s", spec.Name)
	}
	if n == 0 {
		return types.NotFound("%s: no record with %s = %v", spec.Name, spec.PrimaryKey, key)
	}
	return nil
}

// Clear removes every record in the table.
func (s *Store) Clear(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, err := s.specFor(table)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", spec.Name)); err != nil {
		return types.StorageFault(err, "clearing %s", spec.Name)
	}
	return nil
}

// specFor resolves a table name. The caller must hold at least a read lock.
func (s *Store) specFor(table string) (types.TableSpec, error) {
	if !s.open {
		return types.TableSpec{}, types.StorageFault(nil, "store is closed")
	}
	spec, ok := types.TableByName(table)
	if !ok {
		return types.TableSpec{}, types.UnknownOperation("unknown table %q", table)
	}
	return spec, nil
}

// keyValue extracts the primary key from the record, coercing numeric kinds.
func keyValue(spec types.TableSpec, record types.Record) (any, bool) {
	v, ok := record[spec.PrimaryKey]
	if !ok || v == nil {
		return nil, false
	}
	if spec.KeyKind == types.KeyInt {
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			return int64(n), true
		default:
			return nil, false
		}
	}
	s, ok := v.(string)
	return s, ok
}

func hasIndex(spec types.TableSpec, index string) bool {
	for _, idx := range spec.Indexes {
		if idx.Field == index {
			return true
		}
	}
	return false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func decodeRecord(table, body string) (types.Record, error) {
	var rec types.Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, types.StorageFault(err, "decoding %s record", table)
	}
	return rec, nil
}

func scanRecords(table string, rows *sql.Rows) ([]types.Record, error) {
	results := []types.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, types.StorageFault(err, "scanning %s record", table)
		}
		rec, err := decodeRecord(table, body)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageFault(err, "reading %s", table)
	}
	return results, nil
}

// isConstraintErr reports whether the driver error is any flavor of SQLite
// constraint violation (primary key or unique index).
func isConstraintErr(err error) bool {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code()&0xff == sqliteConstraintCode
	}
	return false
}
