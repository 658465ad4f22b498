package netric

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EntitiesClient provides access to entity storage on a netric server.
type EntitiesClient interface {
	// SaveEntity creates or updates entity and writes every field the
	// server returns back onto it, so generated ids and timestamps are
	// visible without another fetch.
	SaveEntity(ctx context.Context, entity *Entity) error

	// DeleteEntity removes a persisted entity. It reports false when the
	// server removed nothing.
	DeleteEntity(ctx context.Context, entity *Entity) (bool, error)

	// GetEntity loads an entity by id. A nil entity with a nil error means
	// it was not found.
	GetEntity(ctx context.Context, objType, id string) (*Entity, error)

	// GetEntityByUniqueName loads an entity by its unique name, optionally
	// scoped by namespace conditions. A nil entity with a nil error means it
	// was not found.
	GetEntityByUniqueName(ctx context.Context, objType, uname string, namespace []Condition) (*Entity, error)

	// GetEntityGroupings loads the grouping tree of a field.
	GetEntityGroupings(ctx context.Context, objType, fieldName string) ([]*EntityGrouping, error)

	// LoadCollection runs the query described by collection and replaces its
	// entities with the resulting page. It returns the page size; a value
	// below the collection limit means the last page was reached.
	LoadCollection(ctx context.Context, collection Collection) (int, error)

	// ForEachEntity pages through every entity matching collection, starting
	// at its offset.
	ForEachEntity(ctx context.Context, collection Collection, fn func(entity *Entity) error) error
}

// AuthClient exposes the session lifecycle.
type AuthClient interface {
	// Authenticate obtains a session token unless one is already held.
	Authenticate(ctx context.Context) error
}

type Client interface {
	EntitiesClient
	AuthClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a netric.Client.
//
// # Authentication
//
// The client authenticates lazily with the application id/key pair: the first
// request exchanges them for a session token, which is then sent in the
// Authentication header of every request. By default the token is trusted for
// the lifetime of the client; set ReauthenticateOnReject to obtain a fresh
// token once when the server answers 401.
//
// # Timeouts, retries, and TLS
//
// HTTPTimeout bounds each HTTP attempt (30s when zero). Per-call deadlines
// can be set through the context. Retries are off unless RetryMax > 0.
// SkipTLSVerify is only honored when NETRIC_DEV_MODE is "true" or "1".
type Config struct {
	// Server: base URL such as "https://acme.netric.com". netricclient.New
	// trims a trailing slash and adds "https://" when no scheme is present.
	Server string

	// ApplicationID: id of the application approved to access the API.
	ApplicationID string
	// ApplicationKey: private key paired with ApplicationID.
	ApplicationKey string

	HTTPTimeout time.Duration
	// RetryMax: retries for connection errors, 5xx and 429. Zero disables
	// retrying.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// ReauthenticateOnReject: discard the token and authenticate again once
	// when an authenticated request gets HTTP 401.
	ReauthenticateOnReject bool

	// RateLimit: maximum requests per second sent by this client. Zero
	// means unlimited. RateBurst defaults to 1.
	RateLimit float64
	RateBurst int

	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger

	UserAgent     string
	SkipTLSVerify bool
}

// Validate checks that the config can build a client.
func (c *Config) Validate() error {
	return validation.Errors{
		"server":          validation.Validate(c.Server, validation.Required),
		"application_id":  validation.Validate(c.ApplicationID, validation.Required),
		"application_key": validation.Validate(c.ApplicationKey, validation.Required),
		"http_timeout":    validation.Validate(c.HTTPTimeout, validation.Min(time.Duration(0))),
		"retry_max":       validation.Validate(c.RetryMax, validation.Min(0)),
		"rate_limit":      validation.Validate(c.RateLimit, validation.Min(0.0)),
		"rate_burst":      validation.Validate(c.RateBurst, validation.Min(0)),
	}.Filter()
}
