//go:build integration

package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLIWorkflow_EntityJourney drives the netric binary through a save, get,
// query and delete cycle.
func TestCLIWorkflow_EntityJourney(t *testing.T) {
	config := LoadTestConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	name := GenerateTestName("workflow")

	// 1. Authenticate
	stdout, stderr, err := runner.Run("auth")
	require.NoError(t, err, "Failed to authenticate: %s", stderr)
	assert.Contains(t, stdout, "authenticated")

	// 2. Create
	stdout, stderr, err = runner.Run("entity", "save", "customer",
		"--set", "name="+name, "--set", "notes="+name, "--output", "json")
	require.NoError(t, err, "Failed to save entity: %s", stderr)
	AssertJSONOutput(t, stdout)

	id := jsonField(stdout, "id")
	require.NotEmpty(t, id, "save output has no id: %s", stdout)

	defer func() {
		_, _, _ = runner.Run("entity", "delete", "customer", id)
	}()

	// 3. Read back in every format
	stdout, stderr, err = runner.Run("entity", "get", "customer", id, "--output", "yaml")
	require.NoError(t, err, "Failed to get entity: %s", stderr)
	AssertYAMLOutput(t, stdout)
	assert.Contains(t, stdout, name)

	stdout, stderr, err = runner.Run("entity", "get", "customer", id)
	require.NoError(t, err, "Failed to get entity: %s", stderr)
	assert.Contains(t, stdout, name)

	// 4. Query
	stdout, stderr, err = runner.Run("query", "customer", "--where", "notes,eq,"+name, "--fields", "id,name")
	require.NoError(t, err, "Failed to query: %s", stderr)
	assert.Contains(t, stdout, name)
	assert.Contains(t, stdout, "of 1")

	// 5. Delete, then confirm it is gone
	stdout, stderr, err = runner.Run("entity", "delete", "customer", id)
	require.NoError(t, err, "Failed to delete: %s", stderr)
	assert.Contains(t, stdout, "Deleted customer "+id)

	_, stderr, err = runner.Run("entity", "get", "customer", id)
	require.Error(t, err)
	assert.Contains(t, stderr, "entity not found")
}

// TestCLIWorkflow_ErrorScenarios checks argument and credential errors.
func TestCLIWorkflow_ErrorScenarios(t *testing.T) {
	config := LoadTestConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	testCases := []struct {
		name      string
		args      []string
		errorText string
	}{
		{
			name:      "bad condition",
			args:      []string{"query", "customer", "--where", "name"},
			errorText: "invalid condition",
		},
		{
			name:      "bad order",
			args:      []string{"query", "customer", "--order-by", "name:up"},
			errorText: "invalid order-by",
		},
		{
			name:      "bad assignment",
			args:      []string{"entity", "save", "customer", "--set", "name"},
			errorText: "invalid field assignment",
		},
		{
			name:      "wrong key",
			args:      []string{"auth", "--app-key", "definitely-wrong"},
			errorText: "auth failed",
		},
		{
			name:      "unknown output",
			args:      []string{"version", "--output", "xml"},
			errorText: "unsupported output format",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, err := runner.Run(tc.args...)
			require.Error(t, err, "Expected error for: %s", tc.name)
			assert.Contains(t, stderr, tc.errorText)
		})
	}
}

// TestCLIWorkflow_Config checks that `config set` persists values the next
// invocation picks up.
func TestCLIWorkflow_Config(t *testing.T) {
	config := LoadTestConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	_, stderr, err := runner.Run("config", "set", "output", "json")
	require.NoError(t, err, "Failed to set output: %s", stderr)

	stdout, stderr, err := runner.Run("config", "show")
	require.NoError(t, err, "Failed to show config: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, `"app_key": "***"`)
	assert.NotContains(t, stdout, config.AppKey)
}

// jsonField pulls a top-level string field out of indented JSON output.
func jsonField(output, name string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		value, ok := strings.CutPrefix(line, `"`+name+`": `)
		if !ok {
			continue
		}

		return strings.Trim(strings.TrimSuffix(value, ","), `"`)
	}

	return ""
}
