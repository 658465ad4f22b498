package netric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity(t *testing.T) {
	t.Parallel()

	entity := NewEntity("customer", "")
	assert.Equal(t, "customer", entity.Type())
	assert.True(t, entity.IsNew())
	assert.False(t, entity.Has(FieldID))

	entity.Set("name", "Acme")
	entity.Set(FieldID, json.Number("5"))
	assert.Equal(t, "5", entity.ID())
	assert.False(t, entity.IsNew())

	values := entity.Values()
	values.Set("name", "changed")
	assert.Equal(t, "Acme", entity.Get("name").String())

	entity.Unset("name")
	assert.False(t, entity.Has("name"))
	assert.True(t, entity.Get("name").IsNull())

	existing := NewEntity("customer", "42")
	assert.Equal(t, []string{FieldID}, existing.Values().Keys())
}

func TestEntity_Decode(t *testing.T) {
	t.Parallel()

	wire, err := ParseJSON([]byte(`{"id":"42","name":"Acme","employees":"120","active":true,"tags":["a","b"]}`))
	require.NoError(t, err)

	fields, ok := wire.(*Fields)
	require.True(t, ok)

	entity := NewEntity("customer", "")
	fields.Range(func(name string, value any) bool {
		entity.Set(name, value)

		return true
	})

	var customer struct {
		ID        int      `mapstructure:"id"`
		Name      string   `mapstructure:"name"`
		Employees int      `mapstructure:"employees"`
		Active    bool     `mapstructure:"active"`
		Tags      []string `mapstructure:"tags"`
	}

	require.NoError(t, entity.Decode(&customer))
	assert.Equal(t, 42, customer.ID)
	assert.Equal(t, "Acme", customer.Name)
	assert.Equal(t, 120, customer.Employees)
	assert.True(t, customer.Active)
	assert.Equal(t, []string{"a", "b"}, customer.Tags)

	var asMap map[string]any
	require.NoError(t, entity.Decode(&asMap))
	assert.Equal(t, "Acme", asMap["name"])
}
