// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"encoding/json"
	"iter"
	"sort"
)

// Accessor is implemented by Data. ByKey and ByName resolve through the same
// lookup and always agree.
type Accessor interface {
	ByKey(key string) (any, error)
	ByName(name string) (any, error)
	Get(name string, def any) any
	Has(name string) bool
}

var _ Accessor = (*Data)(nil)

// Data is a read-mostly view over one raw value (mapping, sequence or scalar).
// Nested mappings are wrapped in a fresh *Data on every access; the new view
// shares the nested map, so Set through it is visible from the parent.
type Data struct {
	raw any
}

// Item is a key/value pair returned by Items.
type Item struct {
	Key   string
	Value any
}

// NewData wraps v. A nil v wraps an empty mapping.
func NewData(v any) (*Data, error) {
	if v == nil {
		return &Data{raw: map[string]any{}}, nil
	}
	raw, err := Normalize(v)
	if err != nil {
		return nil, loadError("wrap", "", err, "cannot use %T as config data: %v", v, err)
	}
	return &Data{raw: raw}, nil
}

// MustData is NewData for literals known to be valid; it panics otherwise.
func MustData(v any) *Data {
	d, err := NewData(v)
	if err != nil {
		panic(err)
	}
	return d
}

// wrap applies the lazy-wrap rule: mappings become *Data, everything else is returned as-is.
func wrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		return &Data{raw: m}
	}
	return v
}

func (d *Data) mapping() (map[string]any, bool) {
	if d == nil {
		return nil, false
	}
	m, ok := d.raw.(map[string]any)
	return m, ok
}

func (d *Data) lookup(op, key string) (any, error) {
	m, ok := d.mapping()
	if !ok {
		return nil, noOptionError(op, key)
	}
	v, ok := m[key]
	if !ok {
		return nil, noOptionError(op, key)
	}
	return wrap(v), nil
}

// Kind reports which variant the node holds.
func (d *Data) Kind() Kind {
	if d == nil {
		return KindScalar
	}
	return kindOf(d.raw)
}

// Raw returns the underlying raw value. It is shared, not copied.
func (d *Data) Raw() any {
	if d == nil {
		return nil
	}
	return d.raw
}

// ByKey returns the value stored under key. Mappings come back as *Data,
// sequences and scalars unchanged. A missing key fails with ErrNoOption.
func (d *Data) ByKey(key string) (any, error) {
	return d.lookup("get", key)
}

// ByName is the attribute-style spelling of ByKey.
func (d *Data) ByName(name string) (any, error) {
	return d.lookup("get", name)
}

// Get returns the value under name, or def when it is absent.
func (d *Data) Get(name string, def any) any {
	v, err := d.lookup("get", name)
	if err != nil {
		return def
	}
	return v
}

// Has reports whether name is a key of the mapping. It never fails.
func (d *Data) Has(name string) bool {
	m, ok := d.mapping()
	if !ok {
		return false
	}
	_, ok = m[name]
	return ok
}

// Section returns the mapping stored under name.
func (d *Data) Section(name string) (*Data, error) {
	v, err := d.lookup("section", name)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Data)
	if !ok {
		return nil, configError("section", "option %q is a %s, not a mapping", name, kindOf(v))
	}
	return sub, nil
}

// GetString returns the string stored under name.
func (d *Data) GetString(name string) (string, error) {
	v, err := d.lookup("string", name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch("string", name, "string", v)
	}
	return s, nil
}

// GetInt returns the integer stored under name. Integral floats are accepted.
func (d *Data) GetInt(name string) (int64, error) {
	v, err := d.lookup("int", name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	case json.Number:
		return 0, configError("int", "option %q: %s overflows int64", name, n)
	}
	return 0, typeMismatch("int", name, "integer", v)
}

// GetFloat returns the number stored under name.
func (d *Data) GetFloat(name string) (float64, error) {
	v, err := d.lookup("float", name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
	}
	return 0, typeMismatch("float", name, "number", v)
}

// GetBool returns the boolean stored under name.
func (d *Data) GetBool(name string) (bool, error) {
	v, err := d.lookup("bool", name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch("bool", name, "boolean", v)
	}
	return b, nil
}

func typeMismatch(op, name, want string, got any) error {
	if _, ok := got.(*Data); ok {
		return configError(op, "option %q: expected %s, got mapping", name, want)
	}
	return configError(op, "option %q: expected %s, got %T", name, want, got)
}

// Equal reports whether the raw value structurally equals other.
// other may be a plain Go value or another *Data.
func (d *Data) Equal(other any) bool {
	o, err := Normalize(other)
	if err != nil {
		return false
	}
	return rawEqual(d.Raw(), o)
}

// rawEqual compares raw values; int64 and float64 compare numerically,
// out-of-range integers by their literal.
func rawEqual(a, b any) bool {
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !rawEqual(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !rawEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case float64:
			return x == y
		case int64:
			return x == float64(y)
		}
		return false
	case json.Number:
		y, ok := b.(json.Number)
		return ok && x == y
	default:
		return a == b
	}
}

// Keys returns the mapping keys in sorted order.
func (d *Data) Keys() ([]string, error) {
	m, ok := d.mapping()
	if !ok {
		return nil, configError("keys", "called keys on %s config option", d.Kind())
	}
	return sortedKeys(m), nil
}

// Items returns sorted key/value pairs; nested mappings are wrapped.
func (d *Data) Items() ([]Item, error) {
	m, ok := d.mapping()
	if !ok {
		return nil, configError("items", "called items on %s config option", d.Kind())
	}
	items := make([]Item, 0, len(m))
	for _, k := range sortedKeys(m) {
		items = append(items, Item{Key: k, Value: wrap(m[k])})
	}
	return items, nil
}

// Len is the number of mapping keys or sequence elements; 0 for scalars.
func (d *Data) Len() int {
	switch v := d.Raw().(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

// All yields the mapping keys in sorted order. Non-mappings yield nothing.
func (d *Data) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		m, ok := d.mapping()
		if !ok {
			return
		}
		for _, k := range sortedKeys(m) {
			if !yield(k) {
				return
			}
		}
	}
}

// Set assigns value under name. The node must hold a mapping.
func (d *Data) Set(name string, value any) error {
	m, ok := d.mapping()
	if !ok {
		return configError("set", "cannot set %q on %s config option", name, d.Kind())
	}
	raw, err := Normalize(value)
	if err != nil {
		return configError("set", "cannot store %T under %q: %v", value, name, err)
	}
	m[name] = raw
	return nil
}

// MarshalJSON encodes the raw value. encoding/json sorts map keys.
func (d *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw())
}

// UnmarshalJSON replaces the raw value with the decoded document.
func (d *Data) UnmarshalJSON(b []byte) error {
	v, err := decodeJSON(b)
	if err != nil {
		return loadError("unmarshal", "", err, "invalid JSON: %v", err)
	}
	d.raw = v
	return nil
}

// String renders the raw value as compact JSON.
func (d *Data) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "<invalid config data: " + err.Error() + ">"
	}
	return string(b)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
