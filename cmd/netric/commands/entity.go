package commands

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// NewEntityCommand creates the entity command group
func NewEntityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"entities", "ent"},
		Short:   "Load, save and delete entities",
	}

	cmd.AddCommand(newEntityGetCommand())
	cmd.AddCommand(newEntityGetByNameCommand())
	cmd.AddCommand(newEntitySaveCommand())
	cmd.AddCommand(newEntityDeleteCommand())

	return cmd
}

func newEntityGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <type> <id>",
		Short:   "Get an entity by id",
		Example: "  netric entity get customer 42",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, id := args[0], args[1]

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			entity, err := client.GetEntity(cmd.Context(), objType, id)
			if err != nil {
				return fmt.Errorf("failed to get entity: %w", err)
			}

			if entity == nil {
				return fmt.Errorf("%w: %s %s", constants.ErrEntityNotFound, objType, id)
			}

			return renderEntity(cmd.OutOrStdout(), entity)
		},
	}
}

func newEntityGetByNameCommand() *cobra.Command {
	var namespace []string

	cmd := &cobra.Command{
		Use:   "get-by-name <type> <uname>",
		Short: "Get an entity by its unique name",
		Example: `  netric entity get-by-name dashboard activity
  netric entity get-by-name page home --where site_id,eq,3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, uname := args[0], args[1]

			conditions, err := parseConditions(namespace, nil)
			if err != nil {
				return err
			}

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			entity, err := client.GetEntityByUniqueName(cmd.Context(), objType, uname, conditions)
			if err != nil {
				return fmt.Errorf("failed to get entity: %w", err)
			}

			if entity == nil {
				return fmt.Errorf("%w: %s %s", constants.ErrEntityNotFound, objType, uname)
			}

			return renderEntity(cmd.OutOrStdout(), entity)
		},
	}

	cmd.Flags().StringArrayVar(&namespace, "where", nil, "namespace condition field,operator,value (repeatable)")

	return cmd
}

func newEntitySaveCommand() *cobra.Command {
	var (
		id          string
		assignments []string
		file        string
	)

	cmd := &cobra.Command{
		Use:   "save <type>",
		Short: "Create or update an entity",
		Long: `Create or update an entity. Fields come from --file (JSON or YAML object)
and then --set, which wins on conflicts. Without an id a new entity is created.`,
		Example: `  netric entity save customer --set name=Acme --set employees=120
  netric entity save customer --id 42 --set active=false
  netric entity save task --file task.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := buildEntity(args[0], id, file, assignments)
			if err != nil {
				return err
			}

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.SaveEntity(cmd.Context(), entity); err != nil {
				return fmt.Errorf("failed to save entity: %w", err)
			}

			return renderEntity(cmd.OutOrStdout(), entity)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "id of an existing entity to update")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "field assignment name=value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with entity fields")

	return cmd
}

// buildEntity merges file fields, then assignments, then id into a new
// entity of objType.
func buildEntity(objType, id, file string, assignments []string) (*netric.Entity, error) {
	entity := netric.NewEntity(objType, "")

	if file != "" {
		fields, err := readFieldsFile(file)
		if err != nil {
			return nil, err
		}

		copyFields(entity, fields)
	}

	fields, err := parseAssignments(assignments)
	if err != nil {
		return nil, err
	}

	copyFields(entity, fields)

	if id != "" {
		entity.Set(netric.FieldID, id)
	}

	return entity, nil
}

func copyFields(entity *netric.Entity, fields *netric.Fields) {
	fields.Range(func(name string, value any) bool {
		if name != netric.FieldObjType {
			entity.Set(name, value)
		}

		return true
	})
}

func newEntityDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <type> <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more entities",
		Example: "  netric entity delete customer 42 43",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType := args[0]

			client, _, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			var result *multierror.Error

			for _, id := range args[1:] {
				deleted, err := client.DeleteEntity(cmd.Context(), netric.NewEntity(objType, id))

				switch {
				case err != nil:
					result = multierror.Append(result, fmt.Errorf("%s %s: %w", objType, id, err))
				case !deleted:
					result = multierror.Append(result, fmt.Errorf("%s %s: %w", objType, id, constants.ErrNothingDeleted))
				default:
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", objType, id)
				}
			}

			return result.ErrorOrNil()
		},
	}
}
