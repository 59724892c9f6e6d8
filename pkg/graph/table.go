package graph

import (
	"cmp"
	"slices"
)

type row[ID ~int64] interface {
	Node | Edge
	key() ID
	attrMap() Attrs
}

// table holds the rows of one record kind, ascending by ID, plus the ordered
// list of attribute columns ever set on those rows. A table owned by a
// committed Graph is never written; operations clone first.
type table[ID ~int64, R row[ID]] struct {
	rows []R
	cols []string
	last ID
}

func (t table[ID, R]) clone() table[ID, R] {
	return table[ID, R]{
		rows: slices.Clone(t.rows),
		cols: slices.Clone(t.cols),
		last: t.last,
	}
}

func (t *table[ID, R]) index(id ID) (int, bool) {
	return slices.BinarySearchFunc(t.rows, id, func(r R, id ID) int {
		return cmp.Compare(r.key(), id)
	})
}

func (t *table[ID, R]) get(id ID) (R, bool) {
	i, ok := t.index(id)
	if !ok {
		var zero R
		return zero, false
	}
	return t.rows[i], true
}

func (t *table[ID, R]) has(id ID) bool {
	_, ok := t.index(id)
	return ok
}

func (t *table[ID, R]) len() int { return len(t.rows) }

// nextID allocates the next ID. IDs are never handed out twice, even once
// the row that used them is gone.
func (t *table[ID, R]) nextID() ID {
	t.last++
	return t.last
}

// append adds a row whose ID came from nextID.
func (t *table[ID, R]) append(r R) {
	t.rows = append(t.rows, r)
	t.addColumnsFrom(r.attrMap())
}

func (t *table[ID, R]) set(i int, r R) {
	t.rows[i] = r
	t.addColumnsFrom(r.attrMap())
}

// remove drops every row whose ID is in ids and returns how many went.
func (t *table[ID, R]) remove(ids map[ID]bool) int {
	before := len(t.rows)
	t.rows = slices.DeleteFunc(t.rows, func(r R) bool { return ids[r.key()] })
	return before - len(t.rows)
}

func (t *table[ID, R]) hasColumn(name string) bool {
	return slices.Contains(t.cols, name)
}

func (t *table[ID, R]) addColumn(name string) {
	if !t.hasColumn(name) {
		t.cols = append(t.cols, name)
	}
}

// addColumnsFrom registers new attribute names in sorted order so column
// order does not depend on map iteration.
func (t *table[ID, R]) addColumnsFrom(a Attrs) {
	var fresh []string
	for name := range a {
		if !t.hasColumn(name) {
			fresh = append(fresh, name)
		}
	}
	slices.Sort(fresh)
	t.cols = append(t.cols, fresh...)
}

func (t *table[ID, R]) ids() []ID {
	out := make([]ID, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.key()
	}
	return out
}

type nodeTable = table[NodeID, Node]
type edgeTable = table[EdgeID, Edge]
