package config

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the shape of a Value node.
type Kind int

const (
	// KindNull is an explicit null (or absent) value.
	KindNull Kind = iota
	// KindBool is a boolean scalar.
	KindBool
	// KindNumber is a numeric scalar (integer or float).
	KindNumber
	// KindString is a string scalar.
	KindString
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is a string-keyed map of values.
	KindMapping
)

// String returns the lowercase name of the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single node of a parsed configuration document: a closed
// tagged variant over null, bool, number, string, sequence and mapping.
// A Value tree is immutable once constructed; merge operations build
// new trees rather than mutating their inputs.
type Value struct {
	kind   Kind
	scalar any // nil, bool, int64, float64 or string, per kind
	seq    []Value
	m      map[string]Value
}

// Constructors used by the resolver and by tests building input trees.

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, scalar: b} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{kind: KindNumber, scalar: i} }

// Float wraps a floating-point scalar.
func Float(f float64) Value { return Value{kind: KindNumber, scalar: f} }

// String wraps a string scalar.
func String(s string) Value { return Value{kind: KindString, scalar: s} }

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Mapping wraps a string-keyed map of values.
func Mapping(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMapping, m: m}
}

// FromAny converts a decoded YAML/JSON document (maps, slices and
// scalars produced by the standard decoders) into a Value tree.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			cv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, cv)
		}
		return Sequence(items...), nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			cv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[k] = cv
		}
		return Mapping(m), nil
	case map[any]any:
		// yaml.v3 only produces this for non-string keys; reject them so
		// the mapping invariant (string keys) holds everywhere downstream.
		m := make(map[string]Value, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("non-string mapping key %v", k)
			}
			cv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = cv
		}
		return Mapping(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean scalar, or false when the value is not a bool.
func (v Value) Bool() bool {
	b, _ := v.scalar.(bool)
	return b
}

// Str returns the string scalar, or "" when the value is not a string.
func (v Value) Str() string {
	s, _ := v.scalar.(string)
	return s
}

// Int returns the numeric scalar as an int64 (floats truncate).
func (v Value) Int() int64 {
	switch n := v.scalar.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Sequence returns the underlying items, or nil for non-sequences.
func (v Value) Sequence() []Value { return v.seq }

// Len returns the number of items in a sequence, or entries in a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	default:
		return 0
	}
}

// Get looks up a key in a mapping value. The second result is false
// when the value is not a mapping or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	item, ok := v.m[key]
	return item, ok
}

// Index returns the i-th item of a sequence. The second result is
// false when the value is not a sequence or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Value{}, false
	}
	return v.seq[i], true
}

// Keys returns the mapping keys in sorted order, or nil for non-mappings.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsScalar reports whether the value renders as a single token
// (anything but a sequence or mapping).
func (v Value) IsScalar() bool {
	return v.kind != KindSequence && v.kind != KindMapping
}

// Interface converts the tree back to plain Go values (nil, bool,
// int64, float64, string, []any, map[string]any), suitable for the
// yaml/json encoders.
func (v Value) Interface() any {
	switch v.kind {
	case KindSequence:
		items := make([]any, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.Interface()
		}
		return items
	case KindMapping:
		m := make(map[string]any, len(v.m))
		for k, item := range v.m {
			m[k] = item.Interface()
		}
		return m
	default:
		return v.scalar
	}
}

// StringSlice converts a sequence of scalars to their string forms.
// Non-sequence values yield nil; non-string scalars are stringified.
func (v Value) StringSlice() []string {
	if v.kind != KindSequence {
		return nil
	}
	out := make([]string, 0, len(v.seq))
	for _, item := range v.seq {
		if item.kind == KindString {
			out = append(out, item.Str())
			continue
		}
		out = append(out, fmt.Sprintf("%v", item.Interface()))
	}
	return out
}

// Merge deep-merges overlay onto base and returns the result. Neither
// input is modified. Mappings merge key-wise, sequences concatenate
// with base items first, and any other combination resolves to the
// overlay value (scalar override). The concatenation order is the
// contract the requirement flattener's deduplication relies on: the
// more specific layer's entries always sit later in the sequence.
func Merge(base, overlay Value) Value {
	switch {
	case base.kind == KindMapping && overlay.kind == KindMapping:
		m := make(map[string]Value, len(base.m)+len(overlay.m))
		for k, bv := range base.m {
			m[k] = bv
		}
		for k, ov := range overlay.m {
			if bv, ok := m[k]; ok {
				m[k] = Merge(bv, ov)
				continue
			}
			m[k] = ov
		}
		return Mapping(m)
	case base.kind == KindSequence && overlay.kind == KindSequence:
		items := make([]Value, 0, len(base.seq)+len(overlay.seq))
		items = append(items, base.seq...)
		items = append(items, overlay.seq...)
		return Sequence(items...)
	default:
		return overlay
	}
}

// Without returns a copy of a mapping with the given key removed.
// Non-mapping values are returned unchanged.
func (v Value) Without(key string) Value {
	if v.kind != KindMapping {
		return v
	}
	m := make(map[string]Value, len(v.m))
	for k, item := range v.m {
		if k == key {
			continue
		}
		m[k] = item
	}
	return Mapping(m)
}

// With returns a copy of a mapping with key set to item. Non-mapping
// values are replaced with a fresh single-entry mapping.
func (v Value) With(key string, item Value) Value {
	m := make(map[string]Value, len(v.m)+1)
	for k, existing := range v.m {
		m[k] = existing
	}
	m[key] = item
	return Mapping(m)
}
