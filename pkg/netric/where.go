package netric

// Boolean logic joining a condition to the ones before it.
const (
	BLogicAnd = "and"
	BLogicOr  = "or"
)

// Condition operators understood by the server.
const (
	OperatorEquals           = "is_equal"
	OperatorNotEquals        = "is_not_equal"
	OperatorGreaterThan      = "is_greater"
	OperatorLessThan         = "is_less"
	OperatorGreaterOrEqualTo = "is_greater_or_equal"
	OperatorLessOrEqualTo    = "is_less_or_equal"
	OperatorBeginsWith       = "begins_with"
	OperatorContains         = "contains"
)

// Where is a field comparison condition.
type Where struct {
	BLogic    string `json:"blogic"     mapstructure:"blogic"`
	FieldName string `json:"field_name" mapstructure:"field_name"`
	Operator  string `json:"operator"   mapstructure:"operator"`
	Value     any    `json:"value"      mapstructure:"value"`
}

// NewWhere creates an "and" condition.
func NewWhere(field, operator string, value any) *Where {
	return &Where{
		BLogic:    BLogicAnd,
		FieldName: field,
		Operator:  operator,
		Value:     value,
	}
}

// Or switches the condition to "or" logic.
func (w *Where) Or() *Where {
	w.BLogic = BLogicOr

	return w
}

// ToMap implements Condition.
func (w *Where) ToMap() map[string]any {
	return map[string]any{
		"blogic":     w.BLogic,
		"field_name": w.FieldName,
		"operator":   w.Operator,
		"value":      w.Value,
	}
}
