package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/netric/netric-sdk-go/internal/constants"
)

func TestConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		value    string
		expected any
		err      error
	}{
		{key: "server", value: "https://acme.netric.com", expected: "https://acme.netric.com"},
		{key: "app_key", value: "secret", expected: "secret"},
		{key: "output", value: "yaml", expected: "yaml"},
		{key: "output", value: "xml", err: constants.ErrUnsupportedFormat},
		{key: "timeout", value: "45s", expected: "45s"},
		{key: "timeout", value: "1m30s", expected: "1m30s"},
		{key: "timeout", value: "soon", err: constants.ErrInvalidTimeout},
		{key: "timeout", value: "-5s", err: constants.ErrInvalidTimeout},
		{key: "color", value: "blue", err: constants.ErrUnknownConfigKey},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Parallel()

			value, err := configValue(tt.key, tt.value)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestUpdateConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	require.NoError(t, updateConfigFile(path, "server", "https://acme.netric.com"))
	require.NoError(t, updateConfigFile(path, "app_id", "1234"))
	require.NoError(t, updateConfigFile(path, "server", "https://other.netric.com"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, yaml.Unmarshal(data, &settings))
	assert.Equal(t, map[string]any{"server": "https://other.netric.com", "app_id": "1234"}, settings)

	require.ErrorIs(t, updateConfigFile("", "server", "x"), constants.ErrNoConfigFile)
}

func TestConfigCommands(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	viper.Set("config", path)

	output, err := runCommand(t, NewConfigCommand(), "set", "app_key", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, "Set app_key to *** in "+path+"\n", output)

	_, err = runCommand(t, NewConfigCommand(), "set", "server", "https://acme.netric.com")
	require.NoError(t, err)

	_, err = runCommand(t, NewConfigCommand(), "set", "bogus", "x")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	viper.Set("output", constants.FormatJSON)

	output, err = runCommand(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"server": "https://acme.netric.com",
		"app_id": "N/A",
		"app_key": "***",
		"output": "json",
		"timeout": "N/A",
		"config_file": "`+path+`"
	}`, output)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "app_key: super-secret")
}
