package netric

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errDial = errors.New("connection refused")

func TestAuthenticationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AuthenticationError
		expected string
	}{
		{name: "reason", err: &AuthenticationError{Reason: "bad key"}, expected: "auth failed: bad key"},
		{name: "cause", err: &AuthenticationError{Err: errDial}, expected: "auth failed: connection refused"},
		{name: "both", err: &AuthenticationError{Reason: "r", Err: errDial}, expected: "auth failed: r: connection refused"},
		{name: "empty", err: &AuthenticationError{}, expected: "auth failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	assert.ErrorIs(t, &AuthenticationError{Reason: "x"}, ErrAuthenticationFailure)
	assert.ErrorIs(t, &AuthenticationError{Err: errDial}, errDial)
}

func TestErrorHelpers(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("outer: %w", err) }

	precondition := wrap(&PreconditionError{Op: "delete entity", Err: ErrEntityNotPersisted})
	assert.True(t, IsPrecondition(precondition))
	assert.ErrorIs(t, precondition, ErrEntityNotPersisted)
	assert.Equal(t, "outer: delete entity: cannot delete an entity that does not exist", precondition.Error())

	retrieval := wrap(&RetrievalError{ObjType: "task", Message: "denied"})
	assert.True(t, IsRetrieval(retrieval))
	assert.False(t, IsPrecondition(retrieval))
	assert.Equal(t, "outer: could not get task entity: denied", retrieval.Error())

	response := &ResponseError{Operation: "save entity", Message: "bad"}
	assert.ErrorIs(t, response, ErrUnexpectedResponse)
	assert.Equal(t, "save entity: bad", response.Error())

	transport := wrap(&TransportError{Method: "GET", URL: "https://x/api", Err: errDial})
	assert.True(t, IsTransport(transport))
	assert.False(t, IsTimeout(transport))
	assert.Equal(t, "outer: GET https://x/api: connection refused", transport.Error())

	timeout := wrap(&TransportError{Method: "POST", URL: "https://x/api", Err: context.DeadlineExceeded})
	assert.True(t, IsTimeout(timeout))

	assert.False(t, IsAuthentication(nil))
	assert.False(t, IsTimeout(errDial))
}
