package manifest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Serialize renders doc as TOML, keeping section and key order.
//
// The output is parsed back before it is returned; a document that would
// not survive that round trip is reported as a SerializationError instead
// of being handed to the caller.
func Serialize(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, clierrors.NewSerializationError("", "nil document")
	}

	var buf bytes.Buffer
	for i, name := range doc.sections {
		header, err := sectionHeader(name)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(header)
		buf.WriteByte('\n')

		table := doc.tables[name]
		for _, key := range table.keys {
			rendered, err := renderValue(name+"."+key, table.values[key])
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%s = %s\n", formatKey(key), rendered)
		}
	}

	out := buf.Bytes()
	parsed, err := Parse(out)
	if err != nil {
		return nil, &clierrors.SerializationError{Reason: "generated document does not parse", Err: err}
	}
	if !parsed.Equal(doc) {
		return nil, clierrors.NewSerializationError("", "generated document does not match its source")
	}
	return out, nil
}

func sectionHeader(name string) (string, error) {
	if name == "" {
		return "", clierrors.NewSerializationError("", "empty section name")
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			return "", clierrors.NewSerializationError(name, "empty component in section name")
		}
		parts[i] = formatKey(p)
	}
	return "[" + strings.Join(parts, ".") + "]", nil
}

func formatKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return quote(k)
}

func renderValue(path string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		if !utf8.ValidString(val) {
			return "", clierrors.NewSerializationError(path, "string is not valid UTF-8")
		}
		return quote(val), nil
	case []string:
		items := make([]string, len(val))
		for i, s := range val {
			if !utf8.ValidString(s) {
				return "", clierrors.NewSerializationError(fmt.Sprintf("%s[%d]", path, i), "string is not valid UTF-8")
			}
			items[i] = quote(s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case *Table:
		if val == nil {
			return "", clierrors.NewSerializationError(path, "nil table")
		}
		return renderInline(path, val)
	case []*Table:
		items := make([]string, len(val))
		for i, t := range val {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if t == nil {
				return "", clierrors.NewSerializationError(elemPath, "nil table")
			}
			s, err := renderInline(elemPath, t)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	default:
		return "", clierrors.NewSerializationError(path, fmt.Sprintf("unsupported value type %T", v))
	}
}

func renderInline(path string, t *Table) (string, error) {
	if len(t.keys) == 0 {
		return "{}", nil
	}
	pairs := make([]string, len(t.keys))
	for i, k := range t.keys {
		s, err := renderValue(path+"."+k, t.values[k])
		if err != nil {
			return "", err
		}
		pairs[i] = formatKey(k) + " = " + s
	}
	return "{ " + strings.Join(pairs, ", ") + " }", nil
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
