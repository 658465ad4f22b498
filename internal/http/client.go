package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/netric/netric-sdk-go/internal/auth"
	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is one call to a controller action.
type Request struct {
	Method string
	Path   string

	// Payload is sent as the query string for GET and as a JSON object body
	// for POST.
	Payload *netric.Fields
	Headers map[string]string
}

// Response is whatever the server sent back, whatever its status.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Decode parses the body into raw wire values, see netric.ParseJSON.
func (r *Response) Decode() (any, error) {
	value, err := netric.ParseJSON(r.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return value, nil
}

// Client sends requests to a netric server, attaching the session token.
type Client struct {
	baseURL        string
	httpClient     *retryablehttp.Client
	tokenManager   auth.TokenManager
	logger         Logger
	debug          bool
	userAgent      string
	reauthOnReject bool
	limiter        *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds every HTTP attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables retries of connection errors, 5xx and 429.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithReauthentication makes the client authenticate again, once, when an
// authenticated request is answered with 401.
func WithReauthentication(enabled bool) Option {
	return func(c *Client) {
		c.reauthOnReject = enabled
	}
}

// WithRateLimit caps outgoing requests at perSecond, allowing bursts of
// burst requests. Callers block until a slot is free or ctx is done.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
		if !ok {
			return
		}

		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- only reachable in dev mode
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil for
// unauthenticated calls.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand back the last response instead of an error once retries run out.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      baseURL,
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// StandardClient returns a *http.Client sharing this client's timeout, TLS
// and retry settings.
func (c *Client) StandardClient() *http.Client {
	return c.httpClient.StandardClient()
}

// Get sends payload as query parameters.
func (c *Client) Get(ctx context.Context, path string, payload *netric.Fields) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Payload: payload})
}

// Post sends payload as a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload *netric.Fields) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Payload: payload})
}

// Do sends req. Without a held token it authenticates first; if that fails
// the request is not sent. Non-2xx responses are returned, not errors.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	token := ""

	if c.tokenManager != nil {
		var err error

		token, err = c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting session token: %w", err)
		}
	}

	resp, err := c.send(ctx, req, token)
	if err != nil {
		return nil, err
	}

	if !c.reauthOnReject || token == "" || resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	c.log("token rejected, authenticating again", map[string]interface{}{
		"path": req.Path,
	})

	token, err = c.tokenManager.RefreshToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("refreshing session token: %w", err)
	}

	return c.send(ctx, req, token)
}

func (c *Client) send(ctx context.Context, req *Request, token string) (*Response, error) {
	fullURL := c.baseURL + req.Path

	var body []byte

	switch req.Method {
	case http.MethodGet:
		if query := EncodeQuery(req.Payload); query != "" {
			fullURL += "?" + query
		}
	default:
		payload := req.Payload
		if payload == nil {
			payload = netric.NewFields()
		}

		encoded, err := gojson.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = encoded
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.RequestIDHeader, requestID)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		httpReq.Header.Set(constants.AuthenticationHeader, token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug {
		c.log("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"url":        fullURL,
			"request_id": requestID,
		})
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &netric.TransportError{Method: req.Method, URL: fullURL, Err: err}
		}
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &netric.TransportError{Method: req.Method, URL: fullURL, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &netric.TransportError{Method: req.Method, URL: fullURL, Err: err}
	}

	if c.debug {
		c.log("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"bytes":    len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) log(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
