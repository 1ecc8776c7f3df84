package manifest

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

// Parse reads a TOML manifest into an ordered Document.
//
// Only the value shapes a Document can hold are accepted: strings, arrays
// of strings, inline tables and arrays of inline tables, all below a
// [section] header. Dotted keys become nested tables.
func Parse(data []byte) (*Document, error) {
	// Full decode first: the streaming parser does not catch duplicate
	// keys or redefined tables.
	var check map[string]any
	if err := toml.Unmarshal(data, &check); err != nil {
		return nil, &clierrors.SerializationError{Reason: "invalid TOML", Err: err}
	}

	doc := NewDocument()
	var (
		p       unstable.Parser
		current *Table
		section string
	)
	p.Reset(data)

	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			name, err := sectionName(keyParts(expr.Key()))
			if err != nil {
				return nil, err
			}
			section = name
			current = doc.Section(section)
		case unstable.ArrayTable:
			name := strings.Join(keyParts(expr.Key()), ".")
			return nil, clierrors.NewSerializationError(name, "arrays of tables are not supported")
		case unstable.KeyValue:
			if current == nil {
				key := strings.Join(keyParts(expr.Key()), ".")
				return nil, clierrors.NewSerializationError(key, "key is not inside a section")
			}
			if err := setKeyValue(current, section, expr); err != nil {
				return nil, err
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, &clierrors.SerializationError{Reason: "invalid TOML", Err: err}
	}
	return doc, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// sectionName joins header components with ".". Section names are stored
// joined, so a component may not be empty or contain "." itself.
func sectionName(parts []string) (string, error) {
	name := strings.Join(parts, ".")
	for _, part := range parts {
		if part == "" || strings.Contains(part, ".") {
			return "", clierrors.NewSerializationError(name, "section name components must be non-empty and must not contain '.'")
		}
	}
	return name, nil
}

func setKeyValue(t *Table, path string, kv *unstable.Node) error {
	parts := keyParts(kv.Key())
	target := t
	for _, part := range parts[:len(parts)-1] {
		path += "." + part
		existing, ok := target.Get(part)
		if !ok {
			nested := NewTable()
			target.Set(part, nested)
			target = nested
			continue
		}
		nested, ok := existing.(*Table)
		if !ok {
			return clierrors.NewSerializationError(path, "dotted key extends a non-table value")
		}
		target = nested
	}

	last := parts[len(parts)-1]
	path += "." + last
	v, err := convertValue(path, kv.Value())
	if err != nil {
		return err
	}
	target.Set(last, v)
	return nil
}

func convertValue(path string, n *unstable.Node) (any, error) {
	switch n.Kind {
	case unstable.String:
		return string(n.Data), nil
	case unstable.InlineTable:
		t := NewTable()
		it := n.Children()
		for it.Next() {
			if err := setKeyValue(t, path, it.Node()); err != nil {
				return nil, err
			}
		}
		return t, nil
	case unstable.Array:
		return convertArray(path, n)
	default:
		return nil, clierrors.NewSerializationError(path, fmt.Sprintf("unsupported value kind %s", n.Kind))
	}
}

func convertArray(path string, n *unstable.Node) (any, error) {
	var (
		strs   []string
		tables []*Table
	)
	it := n.Children()
	for i := 0; it.Next(); i++ {
		elem := it.Node()
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		switch elem.Kind {
		case unstable.String:
			strs = append(strs, string(elem.Data))
		case unstable.InlineTable:
			v, err := convertValue(elemPath, elem)
			if err != nil {
				return nil, err
			}
			tables = append(tables, v.(*Table))
		default:
			return nil, clierrors.NewSerializationError(elemPath, fmt.Sprintf("unsupported array element kind %s", elem.Kind))
		}
		if strs != nil && tables != nil {
			return nil, clierrors.NewSerializationError(path, "arrays must hold only strings or only tables")
		}
	}
	if tables != nil {
		return tables, nil
	}
	if strs == nil {
		strs = []string{}
	}
	return strs, nil
}
