package netric

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultLimit is the page size of a new EntityCollection.
const DefaultLimit = 100

// Condition is a single query filter term. The map it produces is sent to the
// server as-is.
type Condition interface {
	ToMap() map[string]any
}

// Collection is the query definition and result holder consumed by
// LoadCollection.
type Collection interface {
	Type() string
	Offset() int
	Limit() int
	Wheres() []Condition
	OrderBy() []Sort

	// ClearEntities drops the currently loaded page.
	ClearEntities()
	SetTotalNum(total int)
	AddEntity(entity *Entity)
}

// Sort direction values.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sort is one order-by term.
type Sort struct {
	Field     string `json:"field_name" mapstructure:"field_name" yaml:"field_name"`
	Direction string `json:"direction"  mapstructure:"direction"  yaml:"direction"`
}

// EntityCollection is a paginated, filtered and ordered view over entities of
// one type. It only ever holds the page most recently loaded.
type EntityCollection struct {
	objType  string
	offset   int
	limit    int
	wheres   []Condition
	orderBy  []Sort
	entities []*Entity
	totalNum int
}

// NewEntityCollection creates a collection over objType starting at offset 0.
func NewEntityCollection(objType string) *EntityCollection {
	return &EntityCollection{
		objType: objType,
		limit:   DefaultLimit,
	}
}

func (c *EntityCollection) Type() string {
	return c.objType
}

func (c *EntityCollection) Offset() int {
	return c.offset
}

// SetOffset sets the index of the first entity to load.
func (c *EntityCollection) SetOffset(offset int) *EntityCollection {
	c.offset = offset

	return c
}

func (c *EntityCollection) Limit() int {
	return c.limit
}

// SetLimit sets the page size.
func (c *EntityCollection) SetLimit(limit int) *EntityCollection {
	c.limit = limit

	return c
}

// Where adds a condition joined with "and".
func (c *EntityCollection) Where(field, operator string, value any) *EntityCollection {
	c.wheres = append(c.wheres, NewWhere(field, operator, value))

	return c
}

// OrWhere adds a condition joined with "or".
func (c *EntityCollection) OrWhere(field, operator string, value any) *EntityCollection {
	c.wheres = append(c.wheres, NewWhere(field, operator, value).Or())

	return c
}

// AddCondition adds any condition implementation.
func (c *EntityCollection) AddCondition(condition Condition) *EntityCollection {
	c.wheres = append(c.wheres, condition)

	return c
}

func (c *EntityCollection) Wheres() []Condition {
	return c.wheres
}

// AddOrderBy appends an order-by term.
func (c *EntityCollection) AddOrderBy(field, direction string) *EntityCollection {
	if direction == "" {
		direction = SortAsc
	}

	c.orderBy = append(c.orderBy, Sort{Field: field, Direction: direction})

	return c
}

func (c *EntityCollection) OrderBy() []Sort {
	return c.orderBy
}

func (c *EntityCollection) ClearEntities() {
	c.entities = nil
}

func (c *EntityCollection) SetTotalNum(total int) {
	c.totalNum = total
}

// TotalNum returns the server-reported number of matching entities across all
// pages.
func (c *EntityCollection) TotalNum() int {
	return c.totalNum
}

func (c *EntityCollection) AddEntity(entity *Entity) {
	c.entities = append(c.entities, entity)
}

// Entities returns the current page.
func (c *EntityCollection) Entities() []*Entity {
	return c.entities
}

// Validate checks the query before it is sent.
func (c *EntityCollection) Validate() error {
	return validation.Errors{
		"obj_type": validation.Validate(c.objType, validation.Required),
		"offset":   validation.Validate(c.offset, validation.Min(0)),
		"limit":    validation.Validate(c.limit, validation.Required, validation.Min(1)),
	}.Filter()
}
