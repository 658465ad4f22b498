package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// Short operator names accepted in --where.
var operatorAliases = map[string]string{
	"eq":       netric.OperatorEquals,
	"=":        netric.OperatorEquals,
	"ne":       netric.OperatorNotEquals,
	"!=":       netric.OperatorNotEquals,
	"gt":       netric.OperatorGreaterThan,
	">":        netric.OperatorGreaterThan,
	"lt":       netric.OperatorLessThan,
	"<":        netric.OperatorLessThan,
	"ge":       netric.OperatorGreaterOrEqualTo,
	">=":       netric.OperatorGreaterOrEqualTo,
	"le":       netric.OperatorLessOrEqualTo,
	"<=":       netric.OperatorLessOrEqualTo,
	"begins":   netric.OperatorBeginsWith,
	"contains": netric.OperatorContains,
}

// parseCondition parses "field,operator,value". The value may itself contain
// commas.
func parseCondition(raw string) (*netric.Where, error) {
	parts := strings.SplitN(raw, ",", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidCondition, raw)
	}

	field := strings.TrimSpace(parts[0])
	operator := strings.TrimSpace(parts[1])

	if field == "" || operator == "" {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidCondition, raw)
	}

	if alias, ok := operatorAliases[strings.ToLower(operator)]; ok {
		operator = alias
	}

	return netric.NewWhere(field, operator, parts[2]), nil
}

func parseConditions(and, or []string) ([]netric.Condition, error) {
	conditions := make([]netric.Condition, 0, len(and)+len(or))

	for _, raw := range and {
		where, err := parseCondition(raw)
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, where)
	}

	for _, raw := range or {
		where, err := parseCondition(raw)
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, where.Or())
	}

	return conditions, nil
}

// parseOrderBy parses "field" or "field:asc|desc".
func parseOrderBy(raw string) (netric.Sort, error) {
	field, direction, _ := strings.Cut(raw, ":")

	field = strings.TrimSpace(field)
	if field == "" {
		return netric.Sort{}, fmt.Errorf("%w: %q", constants.ErrInvalidOrderBy, raw)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", netric.SortAsc:
		return netric.Sort{Field: field, Direction: netric.SortAsc}, nil
	case netric.SortDesc:
		return netric.Sort{Field: field, Direction: netric.SortDesc}, nil
	default:
		return netric.Sort{}, fmt.Errorf("%w: %q", constants.ErrInvalidOrderBy, raw)
	}
}

// parseAssignments parses name=value pairs. Values that are valid JSON
// (numbers, booleans, null, lists, objects, quoted strings) are decoded;
// anything else is kept as a plain string.
func parseAssignments(assignments []string) (*netric.Fields, error) {
	fields := netric.NewFields()

	for _, assignment := range assignments {
		name, raw, ok := strings.Cut(assignment, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldAssignment, assignment)
		}

		value, err := netric.ParseJSON([]byte(raw))
		if err != nil {
			value = raw
		}

		fields.Set(name, value)
	}

	return fields, nil
}

// readFieldsFile loads entity fields from a JSON or YAML object file.
func readFieldsFile(path string) (*netric.Fields, error) {
	// #nosec G304 -- the path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var fields netric.Fields
		if err := fields.UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		return &fields, nil
	case ".yml", ".yaml":
		var document yaml.Node
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		value, err := fromYAML(&document)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		fields, ok := value.(*netric.Fields)
		if !ok {
			return nil, fmt.Errorf("failed to parse %s: %w", path, netric.ErrNotJSONObject)
		}

		return fields, nil
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedFileType, path)
	}
}

// fromYAML converts a YAML node into wire values, keeping mapping order.
func fromYAML(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return fromYAML(node.Content[0])
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.MappingNode:
		fields := netric.NewFields()

		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := fromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			fields.Set(node.Content[i].Value, value)
		}

		return fields, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))

		for _, item := range node.Content {
			value, err := fromYAML(item)
			if err != nil {
				return nil, err
			}

			list = append(list, value)
		}

		return list, nil
	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", node.Value, err)
		}

		return value, nil
	}
}
