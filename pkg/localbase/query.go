package localbase

import (
	"sort"

	"github.com/rewardmaths/localbase/pkg/types"
)

// filterOp is the comparison kind of one accumulated filter.
type filterOp int

const (
	opEq filterOp = iota
	opGte
	opLte
)

type filter struct {
	op    filterOp
	field string
	value any
}

// Table is a handle on one base table or computed view.
type Table struct {
	client *Client
	name   string
}

// Select starts a read query. The field list is cosmetic: results always
// carry whole records, mirroring the remote client this API is shaped
// after. Pass nothing for all fields.
func (t *Table) Select(fields ...string) *Query {
	return &Query{client: t.client, table: t.name, fields: fields}
}

// Query accumulates a filter conjunction, at most one sort key, a row
// limit, and an optional single-row mode. Building is pure configuration;
// Execute performs the read.
type Query struct {
	client  *Client
	table   string
	fields  []string
	filters []filter
	orderBy string
	asc     bool
	ordered bool
	limit   int
	single  bool
}

// Eq adds an equality filter. Filters combine as a logical AND.
func (q *Query) Eq(field string, value any) *Query {
	q.filters = append(q.filters, filter{op: opEq, field: field, value: value})
	return q
}

// Gte adds a greater-or-equal filter.
func (q *Query) Gte(field string, value any) *Query {
	q.filters = append(q.filters, filter{op: opGte, field: field, value: value})
	return q
}

// Lte adds a less-or-equal filter.
func (q *Query) Lte(field string, value any) *Query {
	q.filters = append(q.filters, filter{op: opLte, field: field, value: value})
	return q
}

// Order sets the sort key and direction. At most one; the last call wins.
// Tie order among equal keys is unspecified.
func (q *Query) Order(field string, ascending bool) *Query {
	q.orderBy = field
	q.asc = ascending
	q.ordered = true
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single switches the query to exactly-one-row mode: Execute returns a
// one-element slice, or a not-found error when nothing matches.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Execute runs the query. An empty builder returns the whole table.
// Computed views run through the view engine; their documented sort is
// fixed and a caller Order is ignored, but filters and limit apply.
func (q *Query) Execute() ([]types.Record, error) {
	var data []types.Record
	var err error

	if isView(q.table) {
		// Views compute over full base tables; caller filters restrict
		// the computed rows afterwards and keep the view's fixed sort.
		data, err = q.client.views.run(q.table)
		if err == nil {
			data = applyFilters(data, q.filters)
		}
	} else {
		data, err = q.client.store.GetAll(q.table)
		if err == nil {
			data = applyFilters(data, q.filters)
			if q.ordered {
				sortRecords(data, q.orderBy, q.asc)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	// Truncation always happens after computation; truncating a view's
	// inputs would corrupt its aggregates.
	if q.limit > 0 && len(data) > q.limit {
		data = data[:q.limit]
	}

	if q.single {
		if len(data) == 0 {
			return nil, types.NotFound("%s: query matched no rows", q.table)
		}
		data = data[:1]
	}
	return data, nil
}

// One executes in single mode and returns the matched record.
func (q *Query) One() (types.Record, error) {
	data, err := q.Single().Execute()
	if err != nil {
		return nil, err
	}
	return data[0], nil
}

// applyFilters keeps the records satisfying every filter. A comparison
// across mixed value types never matches.
func applyFilters(data []types.Record, filters []filter) []types.Record {
	if len(filters) == 0 {
		return data
	}
	out := data[:0:0]
	for _, rec := range data {
		if matches(rec, filters) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec types.Record, filters []filter) bool {
	for _, f := range filters {
		cmp, ok := compareValues(rec[f.field], f.value)
		if !ok {
			return false
		}
		switch f.op {
		case opEq:
			if cmp != 0 {
				return false
			}
		case opGte:
			if cmp < 0 {
				return false
			}
		case opLte:
			if cmp > 0 {
				return false
			}
		}
	}
	return true
}

// sortRecords orders by the field's native ordering. Records whose field
// does not compare against the pivot keep an unspecified relative order.
func sortRecords(data []types.Record, field string, asc bool) {
	sort.Slice(data, func(i, j int) bool {
		cmp, ok := compareValues(data[i][field], data[j][field])
		if !ok {
			return false
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
}

// compareValues compares two values by their native ordering: numbers
// numerically across int widths, strings lexically, bools false<true.
// Mixed or unordered types report ok=false.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case bv:
			return -1, true
		}
		return 1, true
	case nil:
		if b == nil {
			return 0, true
		}
		return 0, false
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
