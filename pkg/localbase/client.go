// Package localbase presents a remote-database-client-shaped API over the
// local persistent store: fluent queries, table mutations, named procedures,
// computed read-only views, and a session/identity gate. Calling code stays
// agnostic to the storage living in-process.
package localbase

import (
	"time"

	"github.com/rewardmaths/localbase/internal/sqlite"
	"github.com/rewardmaths/localbase/pkg/types"
)

// Store is the persistent-store surface the client builds on. Satisfied by
// *sqlite.Store; tests may substitute their own.
type Store interface {
	GetAll(table string) ([]types.Record, error)
	Get(table string, key any) (types.Record, error)
	GetByIndex(table, index string, value any) ([]types.Record, error)
	Put(table string, record types.Record) error
	Add(table string, record types.Record) error
	Delete(table string, key any) error
	Clear(table string) error
}

// Computed view names, reachable through From like base tables.
const (
	ViewPerformanceAnalysis = "performance_analysis"
	ViewUserStats           = "user_stats"
	ViewDailyPerformance    = "daily_performance"
)

// Client is the embedded data-service handle. One Client per opened store;
// the identity gate hangs off it as Client.Auth.
type Client struct {
	store Store
	views *viewEngine

	// Auth resolves identities and owns the single active session.
	Auth *Auth

	// now is the clock for modification stamps; fixed in tests so that
	// procedure and fallback paths produce identical rows.
	now func() time.Time
}

// New wraps an already-open store.
func New(store Store) *Client {
	c := &Client{
		store: store,
		now:   time.Now,
	}
	c.views = &viewEngine{store: store}
	c.Auth = &Auth{client: c, subs: map[int]func(Event){}}
	return c
}

// Open opens (or creates) the store described by cfg and returns a client
// over it. The returned closer releases the store.
func Open(cfg types.Config) (*Client, func() error, error) {
	store, err := sqlite.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(store), store.Close, nil
}

// From returns the named table, or a handle for one of the computed views.
// Name resolution is deferred: an unknown name errors at execution.
func (c *Client) From(name string) *Table {
	return &Table{client: c, name: name}
}

// isView reports whether the name addresses a computed view rather than a
// base table.
func isView(name string) bool {
	switch name {
	case ViewPerformanceAnalysis, ViewUserStats, ViewDailyPerformance:
		return true
	}
	return false
}

// timestamp renders the client clock as the store's RFC3339 stamp format.
func (c *Client) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}
