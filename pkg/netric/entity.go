package netric

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Wire field names shared by entities and queries.
const (
	FieldObjType = "obj_type"
	FieldID      = "id"

	// FvalSuffix marks the resolved display value of a reference field.
	FvalSuffix = "_fval"
)

// Entity is a typed business object with an open set of fields.
//
// An entity with an empty id is new and has not been persisted yet.
type Entity struct {
	objType string
	fields  *Fields
}

// NewEntity creates an entity of objType. Pass an empty id for a new entity.
func NewEntity(objType, id string) *Entity {
	entity := &Entity{
		objType: objType,
		fields:  NewFields(),
	}

	if id != "" {
		entity.fields.Set(FieldID, id)
	}

	return entity
}

// Type returns the object type name, like "customer".
func (e *Entity) Type() string {
	return e.objType
}

// ID returns the entity id, or "" for a new entity.
func (e *Entity) ID() string {
	return e.Get(FieldID).String()
}

// IsNew reports whether the entity has not been saved yet.
func (e *Entity) IsNew() bool {
	return e.ID() == ""
}

// Get returns the value of name; missing fields yield a null Value.
func (e *Entity) Get(name string) Value {
	value, _ := e.fields.Get(name)

	return NewValue(value)
}

// Has reports whether name is set.
func (e *Entity) Has(name string) bool {
	return e.fields.Has(name)
}

// Set assigns a field value. Values are sent to the server verbatim, except
// that a Value is stored as its raw value and an *Entity as its id.
func (e *Entity) Set(name string, value any) {
	if e.fields == nil {
		e.fields = NewFields()
	}

	e.fields.Set(name, value)
}

// Unset removes a field.
func (e *Entity) Unset(name string) {
	e.fields.Delete(name)
}

// Values returns an ordered copy of every field currently set.
func (e *Entity) Values() *Fields {
	return e.fields.Clone()
}

// Decode copies the entity fields into out, a pointer to a struct or map.
// Struct fields are matched through `mapstructure` tags and converted weakly,
// so a numeric id arriving as a string still fills an int field.
func (e *Entity) Decode(out any) error {
	return decodeFields(e.fields, out)
}

func decodeFields(fields *Fields, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("creating field decoder: %w", err)
	}

	err = decoder.Decode(fields.ToMap())
	if err != nil {
		return fmt.Errorf("decoding fields: %w", err)
	}

	return nil
}
