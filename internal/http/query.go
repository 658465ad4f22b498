package http

import (
	"net/url"
	"reflect"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/netric/netric-sdk-go/pkg/netric"
)

// EncodeQuery serializes payload into a query string, keeping payload order.
// List values become repeated name[]=value pairs, one per element in order;
// every value is percent-encoded.
func EncodeQuery(payload *netric.Fields) string {
	parts := make([]string, 0, payload.Len())

	payload.Range(func(name string, value any) bool {
		key := url.QueryEscape(name)

		if items, ok := listItems(value); ok {
			for _, item := range items {
				parts = append(parts, key+"[]="+url.QueryEscape(formatScalar(item)))
			}

			return true
		}

		parts = append(parts, key+"="+url.QueryEscape(formatScalar(value)))

		return true
	})

	return strings.Join(parts, "&")
}

func listItems(value any) ([]any, bool) {
	switch list := value.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return list, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range rv.Len() {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}

// formatScalar renders a single query value. Nested objects have no query
// string form so they are sent as JSON text.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case *netric.Fields, map[string]any, netric.Condition:
		encoded, err := encodeNested(v)
		if err != nil {
			return ""
		}

		return encoded
	}

	formatted, err := cast.ToStringE(value)
	if err != nil {
		encoded, encodeErr := encodeNested(value)
		if encodeErr != nil {
			return ""
		}

		return encoded
	}

	return formatted
}

func encodeNested(value any) (string, error) {
	if condition, ok := value.(netric.Condition); ok {
		value = condition.ToMap()
	}

	encoded, err := gojson.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}
