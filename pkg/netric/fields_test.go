package netric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_Order(t *testing.T) {
	t.Parallel()

	fields := NewFields()
	fields.Set("b", 1)
	fields.Set("a", 2)
	fields.Set("c", 3)
	fields.Set("b", 4)

	assert.Equal(t, []string{"b", "a", "c"}, fields.Keys())

	value, ok := fields.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 4, value)

	fields.Delete("a")
	fields.Delete("missing")
	assert.Equal(t, []string{"b", "c"}, fields.Keys())
	assert.Equal(t, 2, fields.Len())
}

func TestFields_NilAndZero(t *testing.T) {
	t.Parallel()

	var nilFields *Fields

	assert.Equal(t, 0, nilFields.Len())
	assert.Nil(t, nilFields.Keys())
	assert.False(t, nilFields.Has("x"))
	nilFields.Delete("x")
	assert.Equal(t, 0, nilFields.Clone().Len())

	var zero Fields

	zero.Set("x", nil)
	assert.True(t, zero.Has("x"))
}

func TestFields_Range(t *testing.T) {
	t.Parallel()

	fields := NewFields()
	fields.Set("a", 1)
	fields.Set("b", 2)
	fields.Set("c", 3)

	var seen []string

	fields.Range(func(name string, _ any) bool {
		seen = append(seen, name)

		return name != "b"
	})

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestFields_MarshalJSON(t *testing.T) {
	t.Parallel()

	inner := NewFields()
	inner.Set("z", true)
	inner.Set("a", nil)

	fields := NewFields()
	fields.Set("name", "Acme")
	fields.Set("count", json.Number("3"))
	fields.Set("nested", inner)
	fields.Set("list", []any{"x", 1})

	encoded, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Acme","count":3,"nested":{"z":true,"a":null},"list":["x",1]}`, string(encoded))

	empty, err := json.Marshal(NewFields())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestFields_SetUnwrapsLibraryTypes(t *testing.T) {
	t.Parallel()

	owner := NewEntity("user", "9")

	fields := NewFields()
	fields.Set("name", NewValue("Acme"))
	fields.Set("owner_id", owner)
	fields.Set("tags", []any{NewValue("a"), NewValue(json.Number("2"))})

	name, _ := fields.Get("name")
	assert.Equal(t, "Acme", name)

	ownerID, _ := fields.Get("owner_id")
	assert.Equal(t, "9", ownerID)

	encoded, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme","owner_id":"9","tags":["a",2]}`, string(encoded))
}

func TestFields_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var fields Fields

	err := json.Unmarshal([]byte(`{"z":1,"a":{"y":2,"b":3}}`), &fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, fields.Keys())

	nested, _ := fields.Get("a")
	nestedFields, ok := nested.(*Fields)
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nestedFields.Keys())

	err = json.Unmarshal([]byte(`[1]`), &fields)
	require.ErrorIs(t, err, ErrNotJSONObject)
}

func TestFields_ToMap(t *testing.T) {
	t.Parallel()

	inner := NewFields()
	inner.Set("k", "v")

	fields := NewFields()
	fields.Set("obj", inner)
	fields.Set("list", []any{inner})

	assert.Equal(t, map[string]any{
		"obj":  map[string]any{"k": "v"},
		"list": []any{map[string]any{"k": "v"}},
	}, fields.ToMap())
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	t.Run("shapes", func(t *testing.T) {
		t.Parallel()

		value, err := ParseJSON([]byte(`{"s":"x","n":1.5,"b":false,"null":null,"l":[1,"2"],"o":{}}`))
		require.NoError(t, err)

		fields, ok := value.(*Fields)
		require.True(t, ok)
		assert.Equal(t, []string{"s", "n", "b", "null", "l", "o"}, fields.Keys())

		n, _ := fields.Get("n")
		assert.Equal(t, json.Number("1.5"), n)

		l, _ := fields.Get("l")
		assert.Equal(t, []any{json.Number("1"), "2"}, l)

		o, _ := fields.Get("o")
		assert.IsType(t, &Fields{}, o)
	})

	t.Run("scalars and lists", func(t *testing.T) {
		t.Parallel()

		value, err := ParseJSON([]byte(`[]`))
		require.NoError(t, err)
		assert.Equal(t, []any{}, value)

		value, err = ParseJSON([]byte(` "ok" `))
		require.NoError(t, err)
		assert.Equal(t, "ok", value)

		value, err = ParseJSON([]byte(`null`))
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{``, `{`, `{"a":}`, `<html>`, `{"a":1}x`, `[1,2]]`} {
			_, err := ParseJSON([]byte(input))
			assert.Error(t, err, input)
		}
	})
}
