package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API layout.
const (
	// APIVersion is the only server API version this client speaks.
	APIVersion = "2"

	// APIPathPrefix prefixes every controller path.
	APIPathPrefix = "/api/" + APIVersion
)

// Controllers and their actions.
const (
	ControllerAuthentication = "authentication"
	ActionAuthenticate       = "authenticate"

	ControllerEntity   = "entity"
	ActionSave         = "save"
	ActionRemove       = "remove"
	ActionGet          = "get"
	ActionGetGroupings = "get-groupings"
	ControllerQuery    = "entity-query"
	ActionExecuteQuery = "execute"
)

// Wire field names.
const (
	FieldObjType         = "obj_type"
	FieldID              = "id"
	FieldIDs             = "ids"
	FieldUniqueName      = "uname"
	FieldUniqueNameConds = "uname_conditions"
	FieldFieldName       = "field_name"
	FieldError           = "error"
	FieldGroups          = "groups"
	FieldChildren        = "children"
	FieldOffset          = "offset"
	FieldLimit           = "limit"
	FieldConditions      = "conditions"
	FieldOrderBy         = "order_by"
	FieldTotalNum        = "total_num"
	FieldNum             = "num"
	FieldEntities        = "entities"
)

// Authentication wire protocol.
const (
	AuthParamUsername    = "username"
	AuthParamPassword    = "password"
	AuthFieldResult      = "result"
	AuthFieldToken       = "session_token"
	AuthFieldReason      = "reason"
	AuthResultSuccess    = "SUCCESS"
	AuthenticationHeader = "Authentication"
	RequestIDHeader      = "X-Request-ID"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Format constants.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// UI and display constants.
const (
	// MaskedSecret replaces secrets in displayed configuration.
	MaskedSecret = "***"

	// NotAvailable is shown for empty values.
	NotAvailable = "N/A"
)

// DefaultUserAgent is sent when the config does not override it.
const DefaultUserAgent = "netric-sdk-go"
