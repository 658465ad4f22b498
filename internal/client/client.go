package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/netric/netric-sdk-go/internal/auth"
	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/internal/http"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// Client implements the netric.Client interface.
type Client struct {
	*EntitiesClient

	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       netric.Logger
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *netric.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RateLimit > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RateLimit, config.RateBurst))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithInsecureSkipVerify())
	}

	return httpOpts
}

// createTokenManager builds the session token manager. Authentication shares
// the timeout, TLS and retry settings of the entity transport.
func createTokenManager(config *netric.Config, httpOpts []http.Option) *auth.SessionTokenManager {
	authTransport := http.NewClient(config.Server, nil, httpOpts...)

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	return auth.NewSessionTokenManager(&auth.SessionConfig{
		Server:         config.Server,
		ApplicationID:  config.ApplicationID,
		ApplicationKey: config.ApplicationKey,
		HTTPClient:     authTransport.StandardClient(),
		UserAgent:      userAgent,
		Logger:         config.Logger,
	})
}

// New creates a client that authenticates with the application id and key
// in config on first use.
func New(ctx context.Context, config *netric.Config) (*Client, error) {
	if config == nil {
		return nil, netric.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpOpts := createHTTPClientOptions(config)

	return newClient(config, createTokenManager(config, httpOpts), httpOpts), nil
}

// NewWithTokenManager creates a client with a custom token manager, such as
// a static token obtained elsewhere.
func NewWithTokenManager(config *netric.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, netric.ErrConfigRequired
	}

	if config.Server == "" {
		return nil, netric.ErrServerRequired
	}

	if tokenManager == nil {
		return nil, netric.ErrNoTokenManager
	}

	return newClient(config, tokenManager, createHTTPClientOptions(config)), nil
}

func newClient(config *netric.Config, tokenManager auth.TokenManager, httpOpts []http.Option) *Client {
	baseURL := strings.TrimRight(config.Server, "/")

	if config.ReauthenticateOnReject {
		httpOpts = append(httpOpts, http.WithReauthentication(true))
	}

	httpClient := http.NewClient(baseURL, tokenManager, httpOpts...)

	return &Client{
		EntitiesClient: NewEntitiesClient(httpClient, config.Logger),
		httpClient:     httpClient,
		tokenManager:   tokenManager,
		baseURL:        baseURL,
		logger:         config.Logger,
	}
}

// Authenticate implements netric.AuthClient.Authenticate.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.tokenManager == nil {
		return netric.ErrNoTokenManager
	}

	_, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	return nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// actionPath returns the path of a controller action.
func actionPath(controller, action string) string {
	return constants.APIPathPrefix + "/" + controller + "/" + action
}
