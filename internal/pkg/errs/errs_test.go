package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorLooksUpTemplate(t *testing.T) {
	err := NewError(ErrRateLimitExceeded)

	assert.Equal(t, ErrRateLimitExceeded, err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.NotEmpty(t, err.Message)
}

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrUnexpectedMessageKind, "CONNECTION_ACK")

	assert.Contains(t, err.Message, "CONNECTION_ACK")
	assert.Equal(t, http.StatusOK, err.Status)
}

func TestNewErrorFallsBackToUnknown(t *testing.T) {
	err := NewError(424242)
	assert.Equal(t, ErrUnknown, err.Code)
}

func TestCodeOfUnwraps(t *testing.T) {
	base := NewError(ErrInvalidOriginator, "CHAT")
	wrapped := fmt.Errorf("constructing broadcast: %w", base)

	assert.Equal(t, ErrInvalidOriginator, CodeOf(wrapped))
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrUnknown, CodeOf(nil))

	var customErr *CustomError
	require.True(t, errors.As(wrapped, &customErr))
	assert.Equal(t, base, customErr)
}
