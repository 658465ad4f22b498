package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netric/netric-sdk-go/pkg/netric"
)

func authServer(t *testing.T, calls *atomic.Int32, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/api/2/authentication/authenticate", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "app id", r.URL.Query().Get("username"))
		assert.Equal(t, "k&y", r.URL.Query().Get("password"))

		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestManager(server string) *SessionTokenManager {
	return NewSessionTokenManager(&SessionConfig{
		Server:         server,
		ApplicationID:  "app id",
		ApplicationKey: "k&y",
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestSessionTokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("authenticates once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"SUCCESS","session_token":"abc123"}`)
		manager := newTestManager(server.URL)
		assert.Equal(t, StateUnauthenticated, manager.State())

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
		assert.Equal(t, StateAuthenticated, manager.State())

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"FAIL","reason":"Invalid application key"}`)
		manager := newTestManager(server.URL)

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)

		var authErr *netric.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Invalid application key", authErr.Reason)
		assert.Equal(t, "auth failed: Invalid application key", err.Error())
		require.ErrorIs(t, err, netric.ErrAuthenticationFailure)
		assert.Equal(t, StateUnauthenticated, manager.State())

		_, err = manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("empty session token", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"SUCCESS","session_token":""}`)
		manager := newTestManager(server.URL)

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, netric.ErrEmptySessionToken)
		assert.True(t, netric.IsAuthentication(err))
		assert.Equal(t, StateUnauthenticated, manager.State())
	})

	t.Run("unparseable response", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `<html>maintenance</html>`)
		manager := newTestManager(server.URL)

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.True(t, netric.IsAuthentication(err))
	})

	t.Run("non-object response", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `["SUCCESS"]`)
		manager := newTestManager(server.URL)

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, ErrAuthResponseNotObject)
	})

	t.Run("unreachable server hides the key", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		serverURL := server.URL
		server.Close()

		manager := newTestManager(serverURL)

		_, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.True(t, netric.IsAuthentication(err))
		assert.True(t, netric.IsTransport(err))
		assert.NotContains(t, err.Error(), "k%26y")
		assert.NotContains(t, err.Error(), "password")
	})

	t.Run("concurrent callers share one authentication", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"SUCCESS","session_token":"abc123"}`)
		manager := newTestManager(server.URL)

		var wg sync.WaitGroup

		for range 20 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				token, err := manager.GetToken(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "abc123", token)
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestSessionTokenManager_RefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("replaces the rejected token", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"SUCCESS","session_token":"fresh"}`)
		manager := newTestManager(server.URL)
		manager.SetToken("stale")

		token, err := manager.RefreshToken(context.Background(), "stale")
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("keeps a token refreshed by someone else", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := authServer(t, &calls, `{"result":"SUCCESS","session_token":"fresh"}`)
		manager := newTestManager(server.URL)
		manager.SetToken("newer")

		token, err := manager.RefreshToken(context.Background(), "stale")
		require.NoError(t, err)
		assert.Equal(t, "newer", token)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestSessionTokenManager_SetToken(t *testing.T) {
	t.Parallel()

	manager := newTestManager("http://127.0.0.1:1")

	manager.SetToken("given")
	assert.Equal(t, StateAuthenticated, manager.State())

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "given", token)

	manager.SetToken("")
	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.Equal(t, "unauthenticated", manager.State().String())
}
