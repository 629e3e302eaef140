package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "prod-1")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product")
	assert.Contains(t, err.Message, "prod-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStorage_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)

	assert.Equal(t, "STORAGE_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_ErrorString(t *testing.T) {
	withCause := &AppError{Code: "X", Message: "boom", Err: errors.New("root")}
	assert.Equal(t, "X: boom: root", withCause.Error())

	withoutCause := &AppError{Code: "X", Message: "boom"}
	assert.Equal(t, "X: boom", withoutCause.Error())
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("review", "rev-1")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(AlreadyExists("product", "name", "Widget")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("get product: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("validate: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "get product")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "get product")
}
