package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

const queryOperation = "load collection"

// buildQuery produces the entity-query/execute payload for collection.
func buildQuery(collection netric.Collection) *netric.Fields {
	conditions := make([]any, 0, len(collection.Wheres()))
	for _, condition := range collection.Wheres() {
		conditions = append(conditions, condition.ToMap())
	}

	orderBy := collection.OrderBy()
	if orderBy == nil {
		orderBy = []netric.Sort{}
	}

	query := netric.NewFields()
	query.Set(constants.FieldObjType, collection.Type())
	query.Set(constants.FieldOffset, collection.Offset())
	query.Set(constants.FieldLimit, collection.Limit())
	query.Set(constants.FieldConditions, conditions)
	query.Set(constants.FieldOrderBy, orderBy)

	return query
}

// applyPage replaces the entities of collection with the page in result and
// returns the page size reported by the server. The collection is left
// untouched when result is not a query result.
func (c *EntitiesClient) applyPage(collection netric.Collection, result any) (int, error) {
	if message, ok := serverError(result); ok {
		return 0, &netric.ResponseError{Operation: queryOperation, Message: message}
	}

	fields, ok := result.(*netric.Fields)
	if !ok {
		return 0, &netric.ResponseError{Operation: queryOperation, Message: "response is not an object"}
	}

	rawEntities, _ := fields.Get(constants.FieldEntities)
	entities := netric.NewValue(rawEntities).List()

	collection.ClearEntities()
	collection.SetTotalNum(intField(fields, constants.FieldTotalNum, 0))

	for index, item := range entities {
		entity, ok := decodeEntity(item.Raw())
		if !ok {
			c.warn("skipping malformed entity in query result", map[string]interface{}{
				"obj_type": collection.Type(),
				"index":    index,
			})

			continue
		}

		collection.AddEntity(entity)
	}

	return intField(fields, constants.FieldNum, len(entities)), nil
}

// LoadCollection implements netric.EntitiesClient.LoadCollection.
func (c *EntitiesClient) LoadCollection(ctx context.Context, collection netric.Collection) (int, error) {
	if collection == nil {
		return 0, &netric.PreconditionError{Op: queryOperation, Err: netric.ErrCollectionRequired}
	}

	if validatable, ok := collection.(validation.Validatable); ok {
		err := validatable.Validate()
		if err != nil {
			return 0, &netric.PreconditionError{Op: queryOperation, Err: err}
		}
	}

	resp, err := c.httpClient.Post(ctx, actionPath(constants.ControllerQuery, constants.ActionExecuteQuery), buildQuery(collection))
	if err != nil {
		return 0, fmt.Errorf("querying %s entities: %w", collection.Type(), err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		return 0, &netric.ResponseError{Operation: queryOperation, Message: err.Error()}
	}

	return c.applyPage(collection, decoded)
}

// ForEachEntity implements netric.EntitiesClient.ForEachEntity.
func (c *EntitiesClient) ForEachEntity(ctx context.Context, collection netric.Collection, fn func(entity *netric.Entity) error) error {
	if collection == nil {
		return &netric.PreconditionError{Op: queryOperation, Err: netric.ErrCollectionRequired}
	}

	if validatable, ok := collection.(validation.Validatable); ok {
		err := validatable.Validate()
		if err != nil {
			return &netric.PreconditionError{Op: queryOperation, Err: err}
		}
	}

	cursor := &pageCursor{Collection: collection, offset: collection.Offset()}

	for {
		num, err := c.LoadCollection(ctx, cursor)
		if err != nil {
			return err
		}

		for _, entity := range cursor.page {
			err := fn(entity)
			if err != nil {
				return err
			}
		}

		if num <= 0 || num < collection.Limit() {
			return nil
		}

		cursor.offset += collection.Limit()
	}
}

// pageCursor walks a collection page by page without touching the caller's
// offset. It also remembers the entities of the page last loaded.
type pageCursor struct {
	netric.Collection

	offset int
	page   []*netric.Entity
}

func (p *pageCursor) Offset() int {
	return p.offset
}

func (p *pageCursor) ClearEntities() {
	p.page = p.page[:0]
	p.Collection.ClearEntities()
}

func (p *pageCursor) AddEntity(entity *netric.Entity) {
	p.page = append(p.page, entity)
	p.Collection.AddEntity(entity)
}

func intField(fields *netric.Fields, name string, fallback int) int {
	raw, ok := fields.Get(name)
	if !ok || raw == nil {
		return fallback
	}

	value, err := netric.NewValue(raw).Int()
	if err != nil {
		return fallback
	}

	return int(value)
}
