package localbase

import "github.com/rewardmaths/localbase/pkg/types"

// Insert writes the given records. Most tables upsert by primary key;
// add-only tables (caller-supplied unique ids) and auto-increment tables
// without an id go through add, where a collision is the caller's error.
// Inserts never stamp creation time; callers set created_at themselves.
// Returns the written records, with store-assigned ids filled in.
func (t *Table) Insert(records ...types.Record) ([]types.Record, error) {
	if isView(t.name) {
		return nil, types.UnknownOperation("%s: views are read-only", t.name)
	}
	spec, ok := types.TableByName(t.name)
	if !ok {
		return nil, types.UnknownOperation("unknown table %q", t.name)
	}

	for _, rec := range records {
		useAdd := spec.AddOnly || (spec.AutoIncrement && !rec.Has(spec.PrimaryKey))
		var err error
		if useAdd {
			err = t.client.store.Add(t.name, rec)
		} else {
			err = t.client.store.Put(t.name, rec)
		}
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Update starts a partial update: patch fields win, every other field of a
// matched record survives.
func (t *Table) Update(patch types.Record) *Update {
	return &Update{client: t.client, table: t.name, patch: patch}
}

// Update rewrites all rows matching its filter conjunction.
type Update struct {
	client  *Client
	table   string
	patch   types.Record
	filters []filter
}

// Eq adds an equality filter; filters combine as a logical AND.
func (u *Update) Eq(field string, value any) *Update {
	u.filters = append(u.filters, filter{op: opEq, field: field, value: value})
	return u
}

// Execute merges the patch over each matching row, stamps updated_at, and
// rewrites it. Returns the matching rows as they were before the update.
func (u *Update) Execute() ([]types.Record, error) {
	if isView(u.table) {
		return nil, types.UnknownOperation("%s: views are read-only", u.table)
	}

	matched, err := u.client.store.GetAll(u.table)
	if err != nil {
		return nil, err
	}
	matched = applyFilters(matched, u.filters)

	stamp := u.client.timestamp()
	for _, rec := range matched {
		updated := rec.Merge(u.patch)
		updated[types.FieldUpdatedAt] = stamp
		if err := u.client.store.Put(u.table, updated); err != nil {
			return nil, err
		}
	}
	return matched, nil
}

// Delete starts a filtered delete.
func (t *Table) Delete() *Delete {
	return &Delete{client: t.client, table: t.name}
}

// Delete removes all rows matching its filter conjunction. An empty filter
// set removes every row.
type Delete struct {
	client  *Client
	table   string
	filters []filter
}

// Eq adds an equality filter; filters combine as a logical AND.
func (d *Delete) Eq(field string, value any) *Delete {
	d.filters = append(d.filters, filter{op: opEq, field: field, value: value})
	return d
}

// Execute deletes each matching row by primary key.
func (d *Delete) Execute() error {
	if isView(d.table) {
		return types.UnknownOperation("%s: views are read-only", d.table)
	}
	spec, ok := types.TableByName(d.table)
	if !ok {
		return types.UnknownOperation("unknown table %q", d.table)
	}

	matched, err := d.client.store.GetAll(d.table)
	if err != nil {
		return err
	}
	matched = applyFilters(matched, d.filters)

	for _, rec := range matched {
		if err := d.client.store.Delete(d.table, rec[spec.PrimaryKey]); err != nil {
			return err
		}
	}
	return nil
}
