package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

type queryOptions struct {
	wheres   []string
	orWheres []string
	orderBy  []string
	offset   int
	limit    int
	all      bool
	fields   string
}

// NewQueryCommand creates the query command
func NewQueryCommand() *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <type>",
		Short: "Query entities of a type",
		Long: `Query entities of a type. Conditions are field,operator,value where the
operator is a netric operator (is_equal, contains, ...) or a short form
(eq, ne, gt, lt, ge, le, begins, contains). --or-where conditions are joined
with "or" after every --where condition.`,
		Example: `  netric query customer --where name,contains,acme --order-by name
  netric query task --where done,eq,false --order-by ts_entered:desc --limit 10
  netric query task --all --fields id,name --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := buildCollection(args[0], opts)
			if err != nil {
				return err
			}

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			columns := splitColumns(opts.fields)

			if opts.all {
				var entities []*netric.Entity

				err := client.ForEachEntity(cmd.Context(), collection, func(entity *netric.Entity) error {
					entities = append(entities, entity)

					return nil
				})
				if err != nil {
					return fmt.Errorf("failed to query %s: %w", args[0], err)
				}

				return renderEntities(cmd.OutOrStdout(), entities, columns)
			}

			num, err := client.LoadCollection(cmd.Context(), collection)
			if err != nil {
				return fmt.Errorf("failed to query %s: %w", args[0], err)
			}

			return renderPage(cmd, collection, num, columns)
		},
	}

	cmd.Flags().StringArrayVar(&opts.wheres, "where", nil, "condition field,operator,value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.orWheres, "or-where", nil, "or-joined condition field,operator,value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.orderBy, "order-by", nil, "sort field[:asc|desc] (repeatable)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "index of the first entity")
	cmd.Flags().IntVar(&opts.limit, "limit", netric.DefaultLimit, "page size")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every page")
	cmd.Flags().StringVar(&opts.fields, "fields", "", "comma separated columns for table output")

	return cmd
}

func buildCollection(objType string, opts *queryOptions) (*netric.EntityCollection, error) {
	collection := netric.NewEntityCollection(objType).
		SetOffset(opts.offset).
		SetLimit(opts.limit)

	conditions, err := parseConditions(opts.wheres, opts.orWheres)
	if err != nil {
		return nil, err
	}

	for _, condition := range conditions {
		collection.AddCondition(condition)
	}

	for _, raw := range opts.orderBy {
		sort, err := parseOrderBy(raw)
		if err != nil {
			return nil, err
		}

		collection.AddOrderBy(sort.Field, sort.Direction)
	}

	return collection, nil
}

func splitColumns(raw string) []string {
	if raw == "" {
		return nil
	}

	var columns []string

	for _, column := range strings.Split(raw, ",") {
		if column = strings.TrimSpace(column); column != "" {
			columns = append(columns, column)
		}
	}

	return columns
}

// renderPage shows one loaded page. Structured output wraps the entities
// with the paging counters.
func renderPage(cmd *cobra.Command, collection *netric.EntityCollection, num int, columns []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		page := netric.NewFields()
		page.Set(constants.FieldTotalNum, collection.TotalNum())
		page.Set(constants.FieldNum, num)
		page.Set(constants.FieldOffset, collection.Offset())
		page.Set(constants.FieldLimit, collection.Limit())
		page.Set(constants.FieldEntities, entityList(collection.Entities()))

		return writeStructured(cmd.OutOrStdout(), format, page)
	}

	if err := renderEntities(cmd.OutOrStdout(), collection.Entities(), columns); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Showing %d-%d of %d\n",
		min(collection.Offset()+1, collection.Offset()+num), collection.Offset()+num, collection.TotalNum())

	return err
}
