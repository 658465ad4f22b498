package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
	"github.com/netric/netric-sdk-go/pkg/netricclient"
)

// logOutput receives client logs; tests replace it.
var logOutput io.Writer = os.Stderr

// promptSecret reads the application key from the terminal. It returns false
// when stdin is not a terminal.
var promptSecret = func() (string, bool, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", false, nil
	}

	fmt.Fprint(os.Stderr, "Application key: ")

	secret, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", true, fmt.Errorf("failed to read application key: %w", err)
	}

	return strings.TrimSpace(string(secret)), true, nil
}

// loadClientConfig builds a client config from flags, environment and the
// config file.
func loadClientConfig() (*netric.Config, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, constants.ErrNoServerConfigured
	}

	appID := viper.GetString("app_id")
	if appID == "" {
		return nil, constants.ErrNoAppIDConfigured
	}

	appKey := viper.GetString("app_key")
	if appKey == "" {
		secret, interactive, err := promptSecret()
		if err != nil {
			return nil, err
		}

		if !interactive || secret == "" {
			return nil, constants.ErrNoAppKeyConfigured
		}

		appKey = secret
	}

	verbose := viper.GetBool("verbose")

	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "netric",
		Level:  level,
		Output: logOutput,
	})

	return &netric.Config{
		Server:         server,
		ApplicationID:  appID,
		ApplicationKey: appKey,
		HTTPTimeout:    viper.GetDuration("timeout"),
		Debug:          verbose,
		Logger:         netric.NewHCLogAdapter(logger),
		SkipTLSVerify:  viper.GetBool("skip_ssl_validation"),
	}, nil
}

func createClient(ctx context.Context) (netric.Client, *netric.Config, error) {
	config, err := loadClientConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := netricclient.New(ctx, config)
	if err != nil {
		return nil, nil, err
	}

	return client, config, nil
}
