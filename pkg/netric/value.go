package netric

import (
	"encoding/json"
	"maps"
	"slices"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
	KindOther
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// Value is a single field value as carried on the wire.
type Value struct {
	raw any
}

// NewValue wraps a raw value.
func NewValue(raw any) Value {
	return Value{raw: raw}
}

// Raw returns the wrapped value unchanged.
func (v Value) Raw() any {
	return v.raw
}

// MarshalJSON encodes the wrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(v.raw)
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case bool:
		return KindBool
	case []any, []string:
		return KindList
	case *Fields, map[string]any:
		return KindObject
	default:
		return KindOther
	}
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// String returns the value formatted as a string; lists and objects yield "".
func (v Value) String() string {
	if kind := v.Kind(); kind == KindList || kind == KindObject {
		return ""
	}

	return cast.ToString(v.raw)
}

// Int returns the value as an integer.
func (v Value) Int() (int64, error) {
	return cast.ToInt64E(v.raw)
}

// Float returns the value as a float.
func (v Value) Float() (float64, error) {
	return cast.ToFloat64E(v.raw)
}

// Bool returns the value as a boolean. Netric encodes flags as "t"/"f" in
// some payloads, so those are accepted too.
func (v Value) Bool() bool {
	if s, ok := v.raw.(string); ok {
		switch s {
		case "t":
			return true
		case "f":
			return false
		}
	}

	return cast.ToBool(v.raw)
}

// List returns the elements of a list value, or nil.
func (v Value) List() []Value {
	switch list := v.raw.(type) {
	case []any:
		values := make([]Value, len(list))
		for i, item := range list {
			values[i] = NewValue(item)
		}

		return values
	case []string:
		values := make([]Value, len(list))
		for i, item := range list {
			values[i] = NewValue(item)
		}

		return values
	default:
		return nil
	}
}

// Object returns the nested field set of an object value, or nil.
func (v Value) Object() *Fields {
	switch object := v.raw.(type) {
	case *Fields:
		return object
	case map[string]any:
		fields := NewFields()
		for _, key := range slices.Sorted(maps.Keys(object)) {
			fields.Set(key, object[key])
		}

		return fields
	default:
		return nil
	}
}
