package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netric/netric-sdk-go/internal/auth"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

type netricServer struct {
	*httptest.Server

	authCalls   atomic.Int32
	entityCalls atomic.Int32
}

func newNetricServer(t *testing.T, authBody string) *netricServer {
	t.Helper()

	server := &netricServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/2/authentication/authenticate":
			server.authCalls.Add(1)
			assert.Equal(t, "app-id", request.URL.Query().Get("username"))
			assert.Equal(t, "app-key", request.URL.Query().Get("password"))
			_, _ = writer.Write([]byte(authBody))
		case "/api/2/entity/get":
			server.entityCalls.Add(1)

			if request.Header.Get("Authentication") != "session-1" {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			_, _ = writer.Write([]byte(`{"obj_type":"customer","id":"1"}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func testConfig(server string) *netric.Config {
	return &netric.Config{
		Server:         server,
		ApplicationID:  "app-id",
		ApplicationKey: "app-key",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, netric.ErrConfigRequired)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &netric.Config{Server: "https://example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application_id")
		assert.Contains(t, err.Error(), "application_key")
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), testConfig("https://example.com/"))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", client.BaseURL())
		assert.NotNil(t, client.GetTokenManager())
	})
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()

	_, err := NewWithTokenManager(&netric.Config{}, auth.NewStaticTokenManager("x"))
	require.ErrorIs(t, err, netric.ErrServerRequired)

	_, err = NewWithTokenManager(&netric.Config{Server: "https://example.com"}, nil)
	require.ErrorIs(t, err, netric.ErrNoTokenManager)

	client, err := NewWithTokenManager(&netric.Config{Server: "https://example.com"}, auth.NewStaticTokenManager("x"))
	require.NoError(t, err)
	require.NoError(t, client.Authenticate(context.Background()))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Authentication(t *testing.T) {
	t.Parallel()

	t.Run("first call authenticates then sends", func(t *testing.T) {
		t.Parallel()

		server := newNetricServer(t, `{"result":"SUCCESS","session_token":"session-1"}`)

		client, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		entity, err := client.GetEntity(context.Background(), "customer", "1")
		require.NoError(t, err)
		require.NotNil(t, entity)

		assert.Equal(t, int32(1), server.authCalls.Load())
		assert.Equal(t, int32(1), server.entityCalls.Load())

		_, err = client.GetEntity(context.Background(), "customer", "1")
		require.NoError(t, err)
		assert.Equal(t, int32(1), server.authCalls.Load())
		assert.Equal(t, int32(2), server.entityCalls.Load())
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()

		server := newNetricServer(t, `{"result":"FAIL","reason":"Invalid key"}`)

		client, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		entity, err := client.GetEntity(context.Background(), "customer", "1")
		require.Error(t, err)
		assert.Nil(t, entity)
		assert.True(t, netric.IsAuthentication(err))
		assert.Contains(t, err.Error(), "auth failed: Invalid key")
		assert.Equal(t, int32(0), server.entityCalls.Load())

		err = client.Authenticate(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(2), server.authCalls.Load())
	})

	t.Run("concurrent first calls authenticate once", func(t *testing.T) {
		t.Parallel()

		server := newNetricServer(t, `{"result":"SUCCESS","session_token":"session-1"}`)

		client, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		var wg sync.WaitGroup

		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := client.GetEntity(context.Background(), "customer", "1")
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), server.authCalls.Load())
		assert.Equal(t, int32(10), server.entityCalls.Load())
	})

	t.Run("rejected token is refreshed when enabled", func(t *testing.T) {
		t.Parallel()

		server := newNetricServer(t, `{"result":"SUCCESS","session_token":"session-1"}`)

		config := testConfig(server.URL)
		config.ReauthenticateOnReject = true

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		client.GetTokenManager().SetToken("expired")

		entity, err := client.GetEntity(context.Background(), "customer", "1")
		require.NoError(t, err)
		require.NotNil(t, entity)

		assert.Equal(t, int32(1), server.authCalls.Load())
		assert.Equal(t, int32(2), server.entityCalls.Load())
	})
}
