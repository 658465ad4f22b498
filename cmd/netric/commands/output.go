package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

const defaultJSONIndent = "  "

// number matches json.Number.
type number interface {
	Int64() (int64, error)
	String() string
}

// outputFormat returns the selected output format, checking it is supported.
func outputFormat() (string, error) {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable, nil
	}

	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, format)
	}
}

// writeStructured writes value as indented JSON or as YAML. *netric.Fields
// values keep their field order in both formats.
func writeStructured(w io.Writer, format string, value any) error {
	switch format {
	case constants.FormatJSON:
		data, err := json.MarshalIndent(value, "", defaultJSONIndent)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case constants.FormatYAML:
		node, err := yamlNode(value)
		if err != nil {
			return err
		}

		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(node); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, format)
	}
}

// yamlNode converts wire values into a YAML node tree so objects keep their
// field order and json.Number stays numeric.
func yamlNode(value any) (*yaml.Node, error) {
	switch v := value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case number:
		if _, err := v.Int64(); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.String()}, nil
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.String()}, nil
	case *netric.Fields:
		node := &yaml.Node{Kind: yaml.MappingNode}

		var err error

		v.Range(func(name string, item any) bool {
			var child *yaml.Node

			child, err = yamlNode(item)
			if err != nil {
				return false
			}

			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, child)

			return true
		})

		return node, err
	case []*netric.Fields:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = item
		}

		return yamlNode(items)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}

		for _, item := range v {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, child)
		}

		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}

		return node, nil
	}
}

// cellValue formats a field value for a table cell. Lists and objects are
// shown as compact JSON.
func cellValue(raw any) string {
	value := netric.NewValue(raw)

	switch value.Kind() {
	case netric.KindNull:
		return ""
	case netric.KindList, netric.KindObject:
		data, err := json.Marshal(raw)
		if err != nil {
			return fmt.Sprint(raw)
		}

		return string(data)
	default:
		return value.String()
	}
}

// label turns a snake_case key into a table label.
func label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)

	for _, row := range rows {
		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderEntity shows every field of entity, in order.
func renderEntity(w io.Writer, entity *netric.Entity) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	values := entity.Values()

	if format != constants.FormatTable {
		payload := netric.NewFields()
		payload.Set(netric.FieldObjType, entity.Type())
		values.Range(func(name string, value any) bool {
			payload.Set(name, value)

			return true
		})

		return writeStructured(w, format, payload)
	}

	rows := [][]string{{netric.FieldObjType, entity.Type()}}
	values.Range(func(name string, value any) bool {
		if name != netric.FieldObjType {
			rows = append(rows, []string{name, cellValue(value)})
		}

		return true
	})

	return renderTable(w, []string{"Field", "Value"}, rows)
}

// renderEntities shows entities as one row each. When columns is empty every
// field seen is a column, in order of first appearance.
func renderEntities(w io.Writer, entities []*netric.Entity, columns []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		return writeStructured(w, format, entityList(entities))
	}

	if len(columns) == 0 {
		columns = entityColumns(entities)
	}

	rows := make([][]string, 0, len(entities))
	for _, entity := range entities {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = cellValue(entity.Get(column).Raw())
		}

		rows = append(rows, row)
	}

	return renderTable(w, columns, rows)
}

func entityList(entities []*netric.Entity) []*netric.Fields {
	list := make([]*netric.Fields, 0, len(entities))
	for _, entity := range entities {
		list = append(list, entity.Values())
	}

	return list
}

func entityColumns(entities []*netric.Entity) []string {
	seen := map[string]bool{}
	columns := []string{}

	for _, entity := range entities {
		for _, key := range entity.Values().Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	return columns
}

// renderProperties shows ordered key/value pairs.
func renderProperties(w io.Writer, properties *netric.Fields) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		return writeStructured(w, format, properties)
	}

	rows := make([][]string, 0, properties.Len())
	properties.Range(func(name string, value any) bool {
		rows = append(rows, []string{label(name), cellValue(value)})

		return true
	})

	return renderTable(w, []string{"Property", "Value"}, rows)
}
