package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// NewGroupingsCommand creates the groupings command
func NewGroupingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "groupings <type> <field>",
		Aliases: []string{"groups"},
		Short:   "Show the grouping tree of an entity field",
		Example: "  netric groupings task status_id",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			groupings, err := client.GetEntityGroupings(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get groupings: %w", err)
			}

			if format != constants.FormatTable {
				return writeStructured(cmd.OutOrStdout(), format, groupingTree(groupings))
			}

			return renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Parent", "Sort Order"}, groupingRows(groupings))
		},
	}
}

// groupingRows flattens the tree depth first, marking nested names with a
// branch prefix as long as their depth.
func groupingRows(groupings []*netric.EntityGrouping) [][]string {
	rows := [][]string{}

	netric.WalkGroupings(groupings, func(grouping *netric.EntityGrouping, depth int) bool {
		rows = append(rows, []string{
			grouping.ID(),
			treePrefix(depth) + grouping.Name(),
			grouping.ParentID(),
			strconv.FormatInt(grouping.SortOrder(), 10),
		})

		return true
	})

	return rows
}

func treePrefix(depth int) string {
	if depth == 0 {
		return ""
	}

	return "└" + strings.Repeat("─", depth*2-1) + " "
}

// groupingTree converts groupings to nested field sets with a "children"
// list on every node.
func groupingTree(groupings []*netric.EntityGrouping) []any {
	tree := make([]any, 0, len(groupings))

	for _, grouping := range groupings {
		node := grouping.Fields().Clone()
		node.Set("children", groupingTree(grouping.Children))
		tree = append(tree, node)
	}

	return tree
}
