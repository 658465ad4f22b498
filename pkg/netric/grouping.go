package netric

// Grouping attribute names after decoding.
const (
	GroupingID        = "id"
	GroupingName      = "name"
	GroupingIsHeiarch = "isHeiarch"
	GroupingParentID  = "parentId"
	GroupingSortOrder = "sortOrder"
)

// EntityGrouping is one node of a hierarchical classification tree for a
// field of an object type. A node exclusively owns its children.
type EntityGrouping struct {
	fields *Fields

	// Children keep the order the server returned them in.
	Children []*EntityGrouping
}

// NewEntityGrouping creates an empty grouping node.
func NewEntityGrouping() *EntityGrouping {
	return &EntityGrouping{fields: NewFields()}
}

// SetValue sets a named attribute.
func (g *EntityGrouping) SetValue(name string, value any) {
	if g.fields == nil {
		g.fields = NewFields()
	}

	g.fields.Set(name, value)
}

// Value returns a named attribute.
func (g *EntityGrouping) Value(name string) Value {
	value, _ := g.fields.Get(name)

	return NewValue(value)
}

// Fields returns an ordered copy of the node attributes.
func (g *EntityGrouping) Fields() *Fields {
	return g.fields.Clone()
}

func (g *EntityGrouping) ID() string {
	return g.Value(GroupingID).String()
}

func (g *EntityGrouping) Name() string {
	return g.Value(GroupingName).String()
}

func (g *EntityGrouping) IsHeiarch() bool {
	return g.Value(GroupingIsHeiarch).Bool()
}

func (g *EntityGrouping) ParentID() string {
	return g.Value(GroupingParentID).String()
}

// SortOrder returns the display position, 0 when unset or not numeric.
func (g *EntityGrouping) SortOrder() int64 {
	order, err := g.Value(GroupingSortOrder).Int()
	if err != nil {
		return 0
	}

	return order
}

// Walk visits g and its descendants depth-first, parents before children.
// Returning false from fn skips the children of that node.
func (g *EntityGrouping) Walk(fn func(grouping *EntityGrouping, depth int) bool) {
	g.walk(fn, 0)
}

func (g *EntityGrouping) walk(fn func(grouping *EntityGrouping, depth int) bool, depth int) {
	if !fn(g, depth) {
		return
	}

	for _, child := range g.Children {
		child.walk(fn, depth+1)
	}
}

// Decode copies the node attributes into out, see Entity.Decode.
func (g *EntityGrouping) Decode(out any) error {
	return decodeFields(g.fields, out)
}

// WalkGroupings walks every tree in groupings in order.
func WalkGroupings(groupings []*EntityGrouping, fn func(grouping *EntityGrouping, depth int) bool) {
	for _, grouping := range groupings {
		grouping.Walk(fn)
	}
}
