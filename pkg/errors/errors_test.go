package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("bad input").HTTPStatus)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("memory").HTTPStatus)
	assert.Equal(t, "memory not found", NewNotFoundError("memory").Message)
	assert.Equal(t, http.StatusBadRequest, NewConflictError("username already exists").HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("no token").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("boom").HTTPStatus)
}

func TestUnwrapAndIsType(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseError("query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrorTypeDatabase))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(cause, ErrorTypeDatabase))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeDatabase))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NewNotFoundError("wish")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}
