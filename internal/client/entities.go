package client

import (
	"context"
	"fmt"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/internal/http"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// EntitiesClient implements netric.EntitiesClient.
type EntitiesClient struct {
	httpClient *http.Client
	logger     netric.Logger
}

// NewEntitiesClient creates a new entities client.
func NewEntitiesClient(httpClient *http.Client, logger netric.Logger) *EntitiesClient {
	return &EntitiesClient{
		httpClient: httpClient,
		logger:     logger,
	}
}

// SaveEntity implements netric.EntitiesClient.SaveEntity.
func (c *EntitiesClient) SaveEntity(ctx context.Context, entity *netric.Entity) error {
	const operation = "save entity"

	if entity == nil {
		return &netric.PreconditionError{Op: operation, Err: netric.ErrEntityRequired}
	}

	if entity.Type() == "" {
		return &netric.PreconditionError{Op: operation, Err: netric.ErrEntityTypeRequired}
	}

	resp, err := c.httpClient.Post(ctx, actionPath(constants.ControllerEntity, constants.ActionSave), encodeEntity(entity))
	if err != nil {
		return fmt.Errorf("saving %s entity: %w", entity.Type(), err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		return &netric.ResponseError{Operation: operation, Message: err.Error()}
	}

	if message, ok := serverError(decoded); ok {
		return &netric.ResponseError{Operation: operation, Message: message}
	}

	fields, ok := decoded.(*netric.Fields)
	if !ok {
		return &netric.ResponseError{Operation: operation, Message: "response is not an object"}
	}

	writeBack(entity, fields)

	return nil
}

// DeleteEntity implements netric.EntitiesClient.DeleteEntity.
func (c *EntitiesClient) DeleteEntity(ctx context.Context, entity *netric.Entity) (bool, error) {
	const operation = "delete entity"

	if entity == nil {
		return false, &netric.PreconditionError{Op: operation, Err: netric.ErrEntityRequired}
	}

	if entity.ID() == "" || entity.Type() == "" {
		return false, &netric.PreconditionError{Op: operation, Err: netric.ErrEntityNotPersisted}
	}

	payload := netric.NewFields()
	payload.Set(constants.FieldObjType, entity.Type())
	payload.Set(constants.FieldIDs, entity.ID())

	resp, err := c.httpClient.Post(ctx, actionPath(constants.ControllerEntity, constants.ActionRemove), payload)
	if err != nil {
		return false, fmt.Errorf("deleting %s entity %s: %w", entity.Type(), entity.ID(), err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		return false, nil //nolint:nilerr // an unreadable response means nothing was confirmed removed
	}

	if message, ok := serverError(decoded); ok {
		return false, &netric.ResponseError{Operation: operation, Message: message}
	}

	removed, ok := decoded.([]any)

	return ok && len(removed) > 0, nil
}

// GetEntity implements netric.EntitiesClient.GetEntity.
func (c *EntitiesClient) GetEntity(ctx context.Context, objType, id string) (*netric.Entity, error) {
	payload := netric.NewFields()
	payload.Set(constants.FieldObjType, objType)
	payload.Set(constants.FieldID, id)

	resp, err := c.httpClient.Get(ctx, actionPath(constants.ControllerEntity, constants.ActionGet), payload)
	if err != nil {
		return nil, fmt.Errorf("getting %s entity %s: %w", objType, id, err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		c.debug("unreadable get response", map[string]interface{}{
			"obj_type": objType,
			"status":   resp.StatusCode,
		})

		return nil, nil
	}

	if entity, ok := decodeEntity(decoded); ok {
		return entity, nil
	}

	if message, ok := serverError(decoded); ok {
		return nil, &netric.RetrievalError{ObjType: objType, Message: message}
	}

	return nil, nil
}

// GetEntityByUniqueName implements netric.EntitiesClient.GetEntityByUniqueName.
func (c *EntitiesClient) GetEntityByUniqueName(
	ctx context.Context,
	objType, uname string,
	namespace []netric.Condition,
) (*netric.Entity, error) {
	conditions := make([]any, 0, len(namespace))
	for _, condition := range namespace {
		conditions = append(conditions, condition.ToMap())
	}

	payload := netric.NewFields()
	payload.Set(constants.FieldObjType, objType)
	payload.Set(constants.FieldUniqueName, uname)
	payload.Set(constants.FieldUniqueNameConds, conditions)

	// POST rather than GET: uname_conditions is a nested list, which the
	// server reads from a JSON body.
	resp, err := c.httpClient.Post(ctx, actionPath(constants.ControllerEntity, constants.ActionGet), payload)
	if err != nil {
		return nil, fmt.Errorf("getting %s entity by unique name %s: %w", objType, uname, err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		return nil, nil //nolint:nilerr // not found
	}

	entity, ok := decodeEntity(decoded)
	if !ok {
		return nil, nil
	}

	return entity, nil
}

// GetEntityGroupings implements netric.EntitiesClient.GetEntityGroupings.
func (c *EntitiesClient) GetEntityGroupings(ctx context.Context, objType, fieldName string) ([]*netric.EntityGrouping, error) {
	if objType == "" || fieldName == "" {
		return []*netric.EntityGrouping{}, nil
	}

	payload := netric.NewFields()
	payload.Set(constants.FieldObjType, objType)
	payload.Set(constants.FieldFieldName, fieldName)

	resp, err := c.httpClient.Get(ctx, actionPath(constants.ControllerEntity, constants.ActionGetGroupings), payload)
	if err != nil {
		return nil, fmt.Errorf("getting %s groupings of %s: %w", fieldName, objType, err)
	}

	decoded, err := resp.Decode()
	if err != nil {
		return []*netric.EntityGrouping{}, nil //nolint:nilerr // no groupings
	}

	fields, ok := decoded.(*netric.Fields)
	if !ok {
		return []*netric.EntityGrouping{}, nil
	}

	groups, _ := fields.Get(constants.FieldGroups)

	return decodeGroupings(groups), nil
}

func (c *EntitiesClient) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *EntitiesClient) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
