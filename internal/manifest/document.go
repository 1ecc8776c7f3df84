// Package manifest builds, renders and reads the project manifest
// (pyproject.toml) as an ordered document.
//
// A Document is a sequence of named sections. Each section is a Table, an
// ordered set of keys whose values are one of:
//
//	string
//	[]string
//	*Table    rendered as an inline table
//	[]*Table  rendered as an array of inline tables
//
// Order is significant: it is the order keys and sections are written in.
package manifest

// Table is an ordered key/value mapping.
type Table struct {
	keys   []string
	values map[string]any
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// Set assigns value to key. New keys are appended; existing keys keep their
// position. Set returns the table so calls can be chained.
func (t *Table) Set(key string, value any) *Table {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
	return t
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key string) bool {
	if _, ok := t.values[key]; !ok {
		return false
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// Equal reports whether both tables hold the same keys in the same order
// with equal values. Nil and empty string lists compare equal.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.keys) != len(o.keys) {
		return false
	}
	for i, k := range t.keys {
		if o.keys[i] != k {
			return false
		}
		if !valueEqual(t.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	// An empty array has no element type of its own.
	if la, ok := listLen(a); ok && la == 0 {
		lb, ok := listLen(b)
		return ok && lb == 0
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case *Table:
		bv, ok := b.(*Table)
		return ok && av.Equal(bv)
	case []*Table:
		bv, ok := b.([]*Table)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func listLen(v any) (int, bool) {
	switch l := v.(type) {
	case []string:
		return len(l), true
	case []*Table:
		return len(l), true
	}
	return 0, false
}

// Document is an ordered set of named sections.
type Document struct {
	sections []string
	tables   map[string]*Table
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{tables: make(map[string]*Table)}
}

// Section returns the table for name, appending an empty one if the
// section does not exist yet. Dotted names such as "tool.setuptools"
// denote nested sections.
func (d *Document) Section(name string) *Table {
	if t, ok := d.tables[name]; ok {
		return t
	}
	t := NewTable()
	d.sections = append(d.sections, name)
	d.tables[name] = t
	return t
}

// Lookup returns the table for an existing section.
func (d *Document) Lookup(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Sections returns the section names in order.
func (d *Document) Sections() []string {
	out := make([]string, len(d.sections))
	copy(out, d.sections)
	return out
}

// Equal reports whether both documents have the same sections in the same
// order with equal tables.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.sections) != len(o.sections) {
		return false
	}
	for i, name := range d.sections {
		if o.sections[i] != name {
			return false
		}
		if !d.tables[name].Equal(o.tables[name]) {
			return false
		}
	}
	return true
}

// Merge copies every section and key of overlay into d. Keys present in
// both are replaced in place; nested tables are merged recursively.
func (d *Document) Merge(overlay *Document) {
	if overlay == nil {
		return
	}
	for _, name := range overlay.sections {
		mergeTable(d.Section(name), overlay.tables[name])
	}
}

func mergeTable(dst, src *Table) {
	for _, k := range src.keys {
		sv := src.values[k]
		if st, ok := sv.(*Table); ok {
			if dv, ok := dst.values[k].(*Table); ok {
				mergeTable(dv, st)
				continue
			}
		}
		dst.Set(k, sv)
	}
}
