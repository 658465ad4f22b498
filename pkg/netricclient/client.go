package netricclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/netric/netric-sdk-go/internal/auth"
	"github.com/netric/netric-sdk-go/internal/client"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// DevModeEnv enables development-only settings such as SkipTLSVerify.
const DevModeEnv = "NETRIC_DEV_MODE"

// New creates a netric client. The config is copied; the caller's value is
// not modified.
func New(ctx context.Context, config *netric.Config) (netric.Client, error) {
	normalized, err := normalize(config)
	if err != nil {
		return nil, err
	}

	netricClient, err := client.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return netricClient, nil
}

// NewWithCredentials creates a client with default settings.
func NewWithCredentials(ctx context.Context, server, applicationID, applicationKey string) (netric.Client, error) {
	return New(ctx, &netric.Config{
		Server:         server,
		ApplicationID:  applicationID,
		ApplicationKey: applicationKey,
	})
}

// NewWithToken creates a client that sends an existing session token and
// never authenticates on its own.
func NewWithToken(ctx context.Context, server, token string) (netric.Client, error) {
	normalized, err := normalize(&netric.Config{Server: server})
	if err != nil {
		return nil, err
	}

	netricClient, err := client.NewWithTokenManager(normalized, auth.NewStaticTokenManager(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return netricClient, nil
}

func normalize(config *netric.Config) (*netric.Config, error) {
	if config == nil {
		return nil, netric.ErrConfigRequired
	}

	if config.Server == "" {
		return nil, netric.ErrServerRequired
	}

	if config.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set %s=true)", netric.ErrSkipTLSOnlyInDev, DevModeEnv)
	}

	normalized := *config
	normalized.Server = NormalizeServer(config.Server)

	return &normalized, nil
}

// NormalizeServer trims trailing slashes and adds https:// when the address
// has no scheme.
func NormalizeServer(server string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}

	return server
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv(DevModeEnv)

	return devMode == "true" || devMode == "1"
}
