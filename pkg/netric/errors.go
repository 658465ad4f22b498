package netric

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Static errors that can be wrapped with context.
var (
	ErrEntityRequired        = errors.New("entity is required")
	ErrEntityNotPersisted    = errors.New("cannot delete an entity that does not exist")
	ErrEntityTypeRequired    = errors.New("entity type is required")
	ErrEmptySessionToken     = errors.New("server returned an empty session token")
	ErrUnexpectedResponse    = errors.New("unexpected response payload")
	ErrConfigRequired        = errors.New("config is required")
	ErrServerRequired        = errors.New("server is required")
	ErrSkipTLSOnlyInDev      = errors.New("skipTLS is only allowed in development environments")
	ErrCollectionRequired    = errors.New("collection is required")
	ErrNoTokenManager        = errors.New("no token manager configured")
	ErrAuthenticationFailure = errors.New("authentication failed")
)

// PreconditionError reports a call that was rejected before any network
// request was made.
type PreconditionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// AuthenticationError reports that no session token could be obtained.
type AuthenticationError struct {
	// Reason is the message returned by the server, if any.
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("auth failed: %s: %v", e.Reason, e.Err)
	case e.Reason != "":
		return "auth failed: " + e.Reason
	case e.Err != nil:
		return fmt.Sprintf("auth failed: %v", e.Err)
	default:
		return "auth failed"
	}
}

func (e *AuthenticationError) Unwrap() error {
	if e.Err == nil {
		return ErrAuthenticationFailure
	}

	return e.Err
}

// RetrievalError carries the error message the server returned for a get.
type RetrievalError struct {
	ObjType string
	Message string
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("could not get %s entity: %s", e.ObjType, e.Message)
}

// ResponseError reports a payload that did not have the shape an operation
// expects, or that carried an error message from the server.
type ResponseError struct {
	Operation string
	Message   string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because a deadline passed.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// IsPrecondition checks if the error is a precondition error.
func IsPrecondition(err error) bool {
	precondErr := &PreconditionError{}

	return errors.As(err, &precondErr)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}

// IsRetrieval checks if the error is a retrieval error.
func IsRetrieval(err error) bool {
	retrievalErr := &RetrievalError{}

	return errors.As(err, &retrievalErr)
}

// IsTransport checks if the error is a transport error.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsTimeout checks if the error is a transport error caused by a timeout.
func IsTimeout(err error) bool {
	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.Timeout()
	}

	return false
}
