package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// configKeys lists the settings `config set` accepts, in display order.
var configKeys = []string{"server", "app_id", "app_key", "output", "timeout"}

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the netric CLI configuration stored in $HOME/.netric/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := netric.NewFields()

			for _, key := range configKeys {
				value := viper.GetString(key)

				switch {
				case value == "":
					value = constants.NotAvailable
				case key == "app_key":
					value = constants.MaskedSecret
				}

				settings.Set(key, value)
			}

			path := configFilePath()
			if path == "" {
				path = constants.NotAvailable
			}

			settings.Set("config_file", path)

			return renderProperties(cmd.OutOrStdout(), settings)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: server, app_id, app_key, output, timeout",
		Example: `  netric config set server https://acme.netric.com
  netric config set app_id 1234
  netric config set timeout 45s`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			stored, err := configValue(key, value)
			if err != nil {
				return err
			}

			path := configFilePath()

			if err := updateConfigFile(path, key, stored); err != nil {
				return err
			}

			viper.Set(key, stored)

			shown := value
			if key == "app_key" {
				shown = constants.MaskedSecret
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s\n", key, shown, path)

			return err
		},
	}
}

// configValue validates a setting and returns the value to persist.
func configValue(key, value string) (any, error) {
	if !slices.Contains(configKeys, key) {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			return value, nil
		default:
			return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, value)
		}
	case "timeout":
		timeout, err := cast.ToDurationE(value)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidTimeout, value)
		}

		return timeout.String(), nil
	default:
		return value, nil
	}
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}

	if path := viper.GetString("config"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".netric", "config.yml")
}

// updateConfigFile sets key in the YAML file at path, keeping every other
// entry. Only keys written by `config set` end up in the file; flag values
// are never persisted.
func updateConfigFile(path, key string, value any) error {
	if path == "" {
		return fmt.Errorf("failed to locate config file: %w", constants.ErrNoConfigFile)
	}

	settings := map[string]any{}

	// #nosec G304 -- path is the CLI's own config file
	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}

		if settings == nil {
			settings = map[string]any{}
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read config file: %w", err)
	}

	settings[key] = value

	data, err = yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
