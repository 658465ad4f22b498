package client

import (
	"strings"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// encodeEntity flattens entity into its wire form: obj_type first, then every
// field in the order it was set.
func encodeEntity(entity *netric.Entity) *netric.Fields {
	payload := netric.NewFields()
	payload.Set(constants.FieldObjType, entity.Type())

	entity.Values().Range(func(name string, value any) bool {
		payload.Set(name, value)

		return true
	})

	return payload
}

// decodeEntity builds an entity from a wire object. It reports false when
// wire is not an object or lacks obj_type or id.
//
// A field f with a non-null sibling f_fval takes the _fval value; _fval
// fields themselves are dropped.
func decodeEntity(wire any) (*netric.Entity, bool) {
	fields, ok := wire.(*netric.Fields)
	if !ok {
		return nil, false
	}

	objType, ok := presentString(fields, constants.FieldObjType)
	if !ok {
		return nil, false
	}

	if _, ok := presentString(fields, constants.FieldID); !ok {
		return nil, false
	}

	entity := netric.NewEntity(objType, "")

	fields.Range(func(name string, value any) bool {
		if strings.HasSuffix(name, netric.FvalSuffix) {
			return true
		}

		if resolved, ok := fields.Get(name + netric.FvalSuffix); ok && resolved != nil {
			value = resolved
		}

		entity.Set(name, value)

		return true
	})

	return entity, true
}

// writeBack copies every field of a save response onto entity.
func writeBack(entity *netric.Entity, fields *netric.Fields) {
	fields.Range(func(name string, value any) bool {
		entity.Set(name, value)

		return true
	})
}

// presentString returns the string form of a field. It reports false when
// the field is absent, null or empty.
func presentString(fields *netric.Fields, name string) (string, bool) {
	raw, ok := fields.Get(name)
	if !ok || raw == nil {
		return "", false
	}

	value := netric.NewValue(raw).String()

	return value, value != ""
}

// serverError returns the message of an "error" field, if the payload is an
// object carrying one.
func serverError(payload any) (string, bool) {
	fields, ok := payload.(*netric.Fields)
	if !ok {
		return "", false
	}

	raw, ok := fields.Get(constants.FieldError)
	if !ok || raw == nil {
		return "", false
	}

	return netric.NewValue(raw).String(), true
}
