package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenEmpty         = errors.New("static token is empty")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrAuthResponseNotObject    = errors.New("authentication response is not a JSON object")
)

// State is the authentication state of a SessionTokenManager.
type State int

const (
	// StateUnauthenticated means no session token is held.
	StateUnauthenticated State = iota
	// StateAuthenticated means a session token is held and sent with requests.
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}

	return "unauthenticated"
}

// SessionConfig configures a SessionTokenManager.
type SessionConfig struct {
	// Server is the base URL, without the /api/2 suffix.
	Server         string
	ApplicationID  string
	ApplicationKey string

	// HTTPClient sends the authentication request. http.DefaultClient is
	// used when nil.
	HTTPClient *http.Client
	UserAgent  string
	Logger     netric.Logger
}

// SessionTokenManager exchanges the application id/key pair for a session
// token on first use and keeps it for the lifetime of the manager.
type SessionTokenManager struct {
	config *SessionConfig
	store  *TokenStore

	// authMutex serializes the check/authenticate/store sequence so
	// concurrent callers trigger a single authentication.
	authMutex sync.Mutex
}

// NewSessionTokenManager creates a manager in the unauthenticated state.
func NewSessionTokenManager(config *SessionConfig) *SessionTokenManager {
	return &SessionTokenManager{
		config: config,
		store:  NewTokenStore(),
	}
}

// State reports whether a token is currently held.
func (m *SessionTokenManager) State() State {
	if m.store.Get().Valid() {
		return StateAuthenticated
	}

	return StateUnauthenticated
}

// GetToken returns the held token, authenticating first if there is none.
// A failed authentication leaves the manager unauthenticated.
func (m *SessionTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.Value, nil
	}

	m.authMutex.Lock()
	defer m.authMutex.Unlock()

	// Another caller may have authenticated while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.Value, nil
	}

	token, err := m.authenticate(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.Value, nil
}

// RefreshToken drops rejected, if it is still held, and authenticates again.
func (m *SessionTokenManager) RefreshToken(ctx context.Context, rejected string) (string, error) {
	m.authMutex.Lock()

	if token := m.store.Get(); token.Valid() && token.Value == rejected {
		m.store.Clear()
	}

	m.authMutex.Unlock()

	return m.GetToken(ctx)
}

// SetToken stores a token obtained elsewhere, moving to the authenticated
// state. An empty token moves back to unauthenticated.
func (m *SessionTokenManager) SetToken(token string) {
	if token == "" {
		m.store.Clear()

		return
	}

	m.store.Set(&Token{Value: token, AcquiredAt: time.Now()})
}

func (m *SessionTokenManager) authenticate(ctx context.Context) (*Token, error) {
	authURL := m.authURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authURL, nil)
	if err != nil {
		return nil, &netric.AuthenticationError{Err: fmt.Errorf("creating authentication request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")

	if m.config.UserAgent != "" {
		req.Header.Set("User-Agent", m.config.UserAgent)
	}

	httpClient := m.config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// url.Error repeats the full URL, which carries the application key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return nil, &netric.AuthenticationError{
			Err: &netric.TransportError{Method: http.MethodGet, URL: m.endpoint(), Err: err},
		}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &netric.AuthenticationError{
			Err: &netric.TransportError{Method: http.MethodGet, URL: m.endpoint(), Err: err},
		}
	}

	token, err := parseAuthResponse(body)
	if err != nil {
		m.logWarn("authentication rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"error":  err.Error(),
		})

		return nil, err
	}

	m.logDebug("obtained session token", map[string]interface{}{
		"server": m.config.Server,
	})

	return token, nil
}

func parseAuthResponse(body []byte) (*Token, error) {
	parsed, err := netric.ParseJSON(body)
	if err != nil {
		return nil, &netric.AuthenticationError{Err: fmt.Errorf("parsing authentication response: %w", err)}
	}

	fields, ok := parsed.(*netric.Fields)
	if !ok {
		return nil, &netric.AuthenticationError{Err: ErrAuthResponseNotObject}
	}

	result := fieldString(fields, constants.AuthFieldResult)
	if result != constants.AuthResultSuccess {
		return nil, &netric.AuthenticationError{Reason: fieldString(fields, constants.AuthFieldReason)}
	}

	value := fieldString(fields, constants.AuthFieldToken)
	if value == "" {
		return nil, &netric.AuthenticationError{Err: netric.ErrEmptySessionToken}
	}

	return &Token{Value: value, AcquiredAt: time.Now()}, nil
}

func fieldString(fields *netric.Fields, name string) string {
	value, _ := fields.Get(name)

	return netric.NewValue(value).String()
}

func (m *SessionTokenManager) authURL() string {
	query := url.Values{}
	query.Set(constants.AuthParamUsername, m.config.ApplicationID)
	query.Set(constants.AuthParamPassword, m.config.ApplicationKey)

	return m.endpoint() + "?" + query.Encode()
}

func (m *SessionTokenManager) endpoint() string {
	return m.config.Server + constants.APIPathPrefix + "/" +
		constants.ControllerAuthentication + "/" + constants.ActionAuthenticate
}

func (m *SessionTokenManager) logDebug(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, fields)
	}
}

func (m *SessionTokenManager) logWarn(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Warn(msg, fields)
	}
}
