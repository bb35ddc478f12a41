// Package table provides the hash-table implementations shared by the
// machine's global variable store and its string intern table.
package table

import (
	"github.com/dolthub/swiss"
	"github.com/mna/dynac/lang/types"
)

// A Table maps names to values. It backs the machine's global variable
// store, where names are identifiers and values are whatever was last
// assigned to them.
type Table struct {
	m *swiss.Map[string, types.Value]
}

// New returns an empty table with initial capacity for at least size
// entries.
func New(size int) *Table {
	return &Table{m: swiss.NewMap[string, types.Value](uint32(size))}
}

// Get returns the value bound to name, and whether it was found.
func (t *Table) Get(name string) (types.Value, bool) {
	return t.m.Get(name)
}

// Set binds name to v, overwriting any existing binding. It reports whether
// the key was newly inserted.
func (t *Table) Set(name string, v types.Value) bool {
	_, existed := t.m.Get(name)
	t.m.Put(name, v)
	return !existed
}

// Delete removes name from the table. It reports whether the key was
// present.
func (t *Table) Delete(name string) bool {
	return t.m.Delete(name)
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return int(t.m.Count()) }

// Iter calls fn for every entry in the table until fn returns true, which
// stops the iteration early. Iteration order is unspecified. fn must not
// mutate the table.
func (t *Table) Iter(fn func(name string, v types.Value) bool) {
	t.m.Iter(fn)
}
