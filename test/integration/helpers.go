//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/netric/netric-sdk-go/internal/netrictest"
	"github.com/netric/netric-sdk-go/pkg/netric"
	"github.com/netric/netric-sdk-go/pkg/netricclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Server     string
	AppID      string
	AppKey     string
	BinaryPath string
	Verbose    bool

	// Fake is set when no live server is configured and the tests run
	// against an in-process netric server.
	Fake *netrictest.Server
}

// LoadTestConfig loads configuration from environment variables. Without
// NETRIC_SERVER an in-process server is started and closed with the test.
func LoadTestConfig(t *testing.T) *TestConfig {
	t.Helper()

	config := &TestConfig{
		Server:     os.Getenv("NETRIC_SERVER"),
		AppID:      os.Getenv("NETRIC_APP_ID"),
		AppKey:     os.Getenv("NETRIC_APP_KEY"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("NETRIC_VERBOSE") == "true",
	}

	if config.Server == "" {
		fake := netrictest.NewServer()
		t.Cleanup(fake.Close)

		config.Fake = fake
		config.Server = fake.URL
		config.AppID = netrictest.ApplicationID
		config.AppKey = netrictest.ApplicationKey
	}

	return config
}

// getBinaryPath determines the path to the netric binary
func getBinaryPath() string {
	if path := os.Getenv("NETRIC_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../netric", "./netric", "../netric"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "netric"
}

// SkipIfLive skips tests that need to seed server state directly.
func (config *TestConfig) SkipIfLive(t *testing.T) {
	t.Helper()

	if config.Fake == nil {
		t.Skip("test seeds server state and only runs against the in-process server")
	}
}

// SkipIfMissingBinary skips CLI tests when the netric binary is not built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("netric binary not found at %s, skipping CLI integration test", config.BinaryPath)
	}
}

// NewClient creates an SDK client for the configured server.
func (config *TestConfig) NewClient(t *testing.T, configure ...func(*netric.Config)) netric.Client {
	t.Helper()

	clientConfig := &netric.Config{
		Server:         config.Server,
		ApplicationID:  config.AppID,
		ApplicationKey: config.AppKey,
		HTTPTimeout:    10 * time.Second,
	}

	for _, fn := range configure {
		fn(clientConfig)
	}

	client, err := netricclient.New(context.Background(), clientConfig)
	require.NoError(t, err)

	return client
}

// CommandRunner provides utilities for running netric commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
	home   string
}

// NewCommandRunner creates a command runner with an isolated HOME, so the
// user's own config file is never read or written.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
		home:   t.TempDir(),
	}
}

// Run executes a netric command against the configured server and returns
// its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BinaryPath, args...) // #nosec G204 -- test binary

	cmd.Env = append(os.Environ(),
		"HOME="+runner.home,
		"NETRIC_SERVER="+runner.config.Server,
		"NETRIC_APP_ID="+runner.config.AppID,
		"NETRIC_APP_KEY="+runner.config.AppKey,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
