package constants

import "errors"

// Configuration errors.
var (
	ErrNoServerConfigured  = errors.New("no server configured, use 'netric config set server <url>' or --server")
	ErrNoAppIDConfigured   = errors.New("no application id configured, use 'netric config set app_id <id>' or --app-id")
	ErrNoAppKeyConfigured  = errors.New("no application key configured and stdin is not a terminal")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrUnsupportedFormat   = errors.New("unsupported output format")
	ErrUnsupportedFileType = errors.New("unsupported file type, expected .json, .yml or .yaml")
	ErrNoConfigFile        = errors.New("no config file path available")
	ErrInvalidTimeout      = errors.New("invalid timeout, expected a positive duration such as 30s")
)

// Argument errors.
var (
	ErrInvalidFieldAssignment = errors.New("invalid field assignment, expected name=value")
	ErrInvalidCondition       = errors.New("invalid condition, expected field,operator,value")
	ErrInvalidOrderBy         = errors.New("invalid order-by, expected field or field:asc|desc")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrNothingDeleted         = errors.New("server removed nothing")
)
