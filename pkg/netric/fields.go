package netric

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// Static errors for err113 compliance.
var (
	ErrNotJSONObject   = errors.New("JSON value is not an object")
	ErrTrailingJSON    = errors.New("unexpected data after JSON value")
	ErrUnexpectedToken = errors.New("unexpected JSON token")
)

// Fields is an ordered mapping from field name to raw wire value.
//
// Insertion order is preserved; setting a name that already exists keeps its
// original position. The zero value is ready to use.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields creates an empty field set.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set assigns value to name.
func (f *Fields) Set(name string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}

	if _, exists := f.values[name]; !exists {
		f.keys = append(f.keys, name)
	}

	f.values[name] = wireValue(value)
}

// wireValue unwraps library types to what the server expects: a Value
// becomes its raw value, an entity becomes a reference by id (null while
// unsaved).
func wireValue(value any) any {
	switch typed := value.(type) {
	case Value:
		return typed.raw
	case *Value:
		if typed == nil {
			return nil
		}

		return typed.raw
	case *Entity:
		if typed == nil || typed.IsNew() {
			return nil
		}

		return typed.ID()
	default:
		return value
	}
}

// Get returns the raw value for name.
func (f *Fields) Get(name string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}

	value, ok := f.values[name]

	return value, ok
}

// Has reports whether name is set, even when its value is null.
func (f *Fields) Has(name string) bool {
	_, ok := f.Get(name)

	return ok
}

// Delete removes name.
func (f *Fields) Delete(name string) {
	if f == nil || f.values == nil {
		return
	}

	if _, exists := f.values[name]; !exists {
		return
	}

	delete(f.values, name)

	for i, key := range f.keys {
		if key == name {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)

			break
		}
	}
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}

	return len(f.keys)
}

// Keys returns the field names in order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}

	keys := make([]string, len(f.keys))
	copy(keys, f.keys)

	return keys
}

// Range calls fn for every field in order until fn returns false.
func (f *Fields) Range(fn func(name string, value any) bool) {
	if f == nil {
		return
	}

	for _, key := range f.keys {
		if !fn(key, f.values[key]) {
			return
		}
	}
}

// Clone returns a shallow copy that preserves order.
func (f *Fields) Clone() *Fields {
	clone := NewFields()
	f.Range(func(name string, value any) bool {
		clone.Set(name, value)

		return true
	})

	return clone
}

// ToMap converts the field set into plain Go maps and slices, recursively.
func (f *Fields) ToMap() map[string]any {
	out := make(map[string]any, f.Len())
	f.Range(func(name string, value any) bool {
		out[name] = plain(value)

		return true
	})

	return out
}

func plain(value any) any {
	switch v := value.(type) {
	case *Fields:
		return v.ToMap()
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = plain(item)
		}

		return list
	default:
		return value
	}
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := gojson.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encoding field name %q: %w", key, err)
		}

		value, err := gojson.Marshal(f.values[key])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", key, err)
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping wire order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}

	fields, ok := parsed.(*Fields)
	if !ok {
		return ErrNotJSONObject
	}

	*f = *fields

	return nil
}

// ParseJSON decodes a JSON document into raw wire values: objects become
// *Fields in wire order, arrays []any, numbers json.Number.
func ParseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := parseValue(decoder)
	if err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingJSON
	}

	return value, nil
}

func parseValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON token: %w", err)
	}

	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}

	switch delim {
	case '{':
		return parseObject(decoder)
	case '[':
		return parseArray(decoder)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedToken, delim)
	}
}

func parseObject(decoder *json.Decoder) (*Fields, error) {
	fields := NewFields()

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("reading object key: %w", err)
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedToken, token)
		}

		value, err := parseValue(decoder)
		if err != nil {
			return nil, err
		}

		fields.Set(key, value)
	}

	// closing brace
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("reading object end: %w", err)
	}

	return fields, nil
}

func parseArray(decoder *json.Decoder) ([]any, error) {
	list := []any{}

	for decoder.More() {
		value, err := parseValue(decoder)
		if err != nil {
			return nil, err
		}

		list = append(list, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("reading array end: %w", err)
	}

	return list, nil
}
