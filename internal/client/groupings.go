package client

import (
	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// groupingFieldNames maps wire names to grouping attribute names. Anything
// not listed keeps its wire name.
var groupingFieldNames = map[string]string{
	"heiarch":    netric.GroupingIsHeiarch,
	"parent_id":  netric.GroupingParentID,
	"sort_order": netric.GroupingSortOrder,
}

// decodeGroupings turns a wire list of grouping objects into a tree, keeping
// server order at every level. Anything other than a list, including an
// error payload, decodes to an empty slice.
func decodeGroupings(raw any) []*netric.EntityGrouping {
	groupings := []*netric.EntityGrouping{}

	list, ok := raw.([]any)
	if !ok {
		return groupings
	}

	for _, item := range list {
		fields, ok := item.(*netric.Fields)
		if !ok {
			continue
		}

		groupings = append(groupings, decodeGrouping(fields))
	}

	return groupings
}

func decodeGrouping(fields *netric.Fields) *netric.EntityGrouping {
	grouping := netric.NewEntityGrouping()

	fields.Range(func(name string, value any) bool {
		if name == constants.FieldChildren {
			if value != nil {
				grouping.Children = decodeGroupings(value)
			}

			return true
		}

		if renamed, ok := groupingFieldNames[name]; ok {
			name = renamed
		}

		grouping.SetValue(name, value)

		return true
	})

	return grouping
}
