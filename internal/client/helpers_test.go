package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netric/netric-sdk-go/internal/auth"
	internalhttp "github.com/netric/netric-sdk-go/internal/http"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// testToken is the session token test clients start with.
const testToken = "test-token"

// RecordedRequest is one request seen by a test server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Token    string
}

// TestServer is an httptest server answering every request with a canned
// body and recording what it received.
type TestServer struct {
	*httptest.Server

	mutex    sync.Mutex
	requests []RecordedRequest
}

// NewTestServer starts a server that replies with status and body.
func NewTestServer(t *testing.T, status int, body string) *TestServer {
	t.Helper()

	server := &TestServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		payload, err := io.ReadAll(request.Body)
		require.NoError(t, err)

		server.mutex.Lock()
		server.requests = append(server.requests, RecordedRequest{
			Method:   request.Method,
			Path:     request.URL.Path,
			RawQuery: request.URL.RawQuery,
			Body:     string(payload),
			Token:    request.Header.Get("Authentication"),
		})
		server.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

// Requests returns the requests received so far.
func (s *TestServer) Requests() []RecordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]RecordedRequest(nil), s.requests...)
}

// NewTestClient creates an entities client for baseURL holding testToken.
func NewTestClient(baseURL string) *EntitiesClient {
	return NewTestClientWithLogger(baseURL, nil)
}

// NewTestClientWithLogger is NewTestClient with a logger attached.
func NewTestClientWithLogger(baseURL string, logger netric.Logger) *EntitiesClient {
	httpClient := internalhttp.NewClient(baseURL, auth.NewStaticTokenManager(testToken))

	return NewEntitiesClient(httpClient, logger)
}

// MockLogger records log calls.
type MockLogger struct {
	mutex sync.Mutex
	logs  []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

// Levels returns the level of every recorded entry in order.
func (l *MockLogger) Levels() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	levels := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		levels = append(levels, entry["level"].(string)) //nolint:forcetypeassert // always set by record
	}

	return levels
}
