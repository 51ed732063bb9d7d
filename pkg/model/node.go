// Package model defines the typed document tree of an AppDNA application
// definition and the construction protocol shared by every record in it.
//
// Each record type declares an ordered field table: scalar fields keyed by
// their JSON name and child collections keyed by their JSON name plus the
// child record type. A single recursive routine walks those tables to build
// records from loosely-typed JSON (FromRaw, Decode) and to turn them back
// into plain JSON structures (ToRaw, Marshal).
//
// Optional scalars are *string: nil means the author never set the field.
// Boolean flags keep the format's "true"/"false" strings. Child collections
// keep their source order; an empty collection is omitted on output.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Node is implemented by every record type in the document tree.
type Node interface {
	// ToRaw converts the record and its subtree into plain JSON values
	// (map[string]any, []any, string).
	ToRaw() map[string]any

	fields() []field
}

// nodePtr constrains a type parameter to a pointer to a record type.
type nodePtr[T any] interface {
	*T
	Node
}

// field describes one entry of a record's field table. Exactly one of
// scalar and children is set.
type field struct {
	key      string
	decode   func(v any)
	scalar   func() (string, bool)
	children func() []Node
}

// text declares an optional scalar field.
func text(key string, dst **string) field {
	return field{
		key:    key,
		decode: func(v any) { *dst = scalarOf(v) },
		scalar: func() (string, bool) {
			if *dst == nil {
				return "", false
			}
			return **dst, true
		},
	}
}

// required declares a scalar that is always present. A missing raw value
// leaves the zero string; schema validation reports the omission.
func required(key string, dst *string) field {
	return field{
		key: key,
		decode: func(v any) {
			if s := scalarOf(v); s != nil {
				*dst = *s
			}
		},
		scalar: func() (string, bool) { return *dst, true },
	}
}

// collection declares an ordered child collection of record type T.
func collection[T any, P nodePtr[T]](key string, dst *[]P) field {
	return field{
		key:    key,
		decode: func(v any) { *dst = buildChildren[T, P](v) },
		children: func() []Node {
			out := make([]Node, 0, len(*dst))
			for _, c := range *dst {
				if c != nil {
					out = append(out, c)
				}
			}
			return out
		},
	}
}

// scalarOf converts a raw JSON value into an optional scalar. JSON null is
// absent; non-string values are kept and stringified.
func scalarOf(v any) *string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return &x
	default:
		s := fmt.Sprint(x)
		return &s
	}
}

// buildChildren constructs a child collection from a raw array. Elements
// that already are records of the target type are reused as-is, so running
// construction again over a partially built tree never wraps a record twice.
func buildChildren[T any, P nodePtr[T]](v any) []P {
	switch items := v.(type) {
	case []P:
		return append([]P(nil), items...)
	case []map[string]any:
		out := make([]P, 0, len(items))
		for _, item := range items {
			out = append(out, FromRaw[T, P](item))
		}
		return out
	case []any:
		out := make([]P, 0, len(items))
		for _, item := range items {
			switch e := item.(type) {
			case P:
				if e != nil {
					out = append(out, e)
				}
			case map[string]any:
				out = append(out, FromRaw[T, P](e))
			}
		}
		return out
	}
	return nil
}

// FromRaw constructs a record of type T from a loosely-typed JSON object,
// recursively constructing every child collection the raw object carries.
// A nil raw object yields an empty record.
func FromRaw[T any, P nodePtr[T]](raw map[string]any) P {
	n := P(new(T))
	Decode(raw, n)
	return n
}

// Decode copies every field declared by n that raw contains into n. Fields
// the raw object omits are left untouched.
func Decode(raw map[string]any, n Node) {
	for _, f := range n.fields() {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		f.decode(v)
	}
}

// toRaw is the structural inverse of Decode.
func toRaw(n Node) map[string]any {
	out := make(map[string]any)
	for _, f := range n.fields() {
		if f.scalar != nil {
			if s, ok := f.scalar(); ok {
				out[f.key] = s
			}
			continue
		}
		kids := f.children()
		if len(kids) == 0 {
			continue
		}
		items := make([]any, len(kids))
		for i, k := range kids {
			items[i] = k.ToRaw()
		}
		out[f.key] = items
	}
	return out
}

// Marshal encodes n as compact JSON with keys in declaration order, which is
// the order the schema lists them in.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	buf.WriteByte('{')
	first := true
	for _, f := range n.fields() {
		if f.scalar != nil {
			s, ok := f.scalar()
			if !ok {
				continue
			}
			if err := writeKey(buf, f.key, &first); err != nil {
				return err
			}
			if err := writeString(buf, s); err != nil {
				return err
			}
			continue
		}

		kids := f.children()
		if len(kids) == 0 {
			continue
		}
		if err := writeKey(buf, f.key, &first); err != nil {
			return err
		}
		buf.WriteByte('[')
		for i, k := range kids {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, k); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string, first *bool) error {
	if !*first {
		buf.WriteByte(',')
	}
	*first = false
	if err := writeString(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

// writeString writes s as a JSON string without HTML escaping, so text such
// as "<b>" survives a load/save cycle unchanged.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("model: failed to encode string: %w", err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
