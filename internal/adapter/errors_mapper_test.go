package adapter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusKind(t *testing.T) {
	tests := map[int]error{
		http.StatusBadRequest:          ErrBadRequest,
		http.StatusUnauthorized:        ErrUnauthorized,
		http.StatusForbidden:           ErrForbidden,
		http.StatusNotFound:            ErrNotFound,
		http.StatusConflict:            ErrConflict,
		http.StatusBadGateway:          ErrBadGateway,
		http.StatusInternalServerError: ErrInternalServerError,
		http.StatusTeapot:              ErrServerRejected,
	}

	for code, want := range tests {
		assert.ErrorIs(t, statusKind(code), want, http.StatusText(code))
	}
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "Token is not valid", responseMessage(401, []byte(`{"message":"Token is not valid"}`)))
	assert.Equal(t, "plain text", responseMessage(400, []byte("  plain text \n")))
	assert.Equal(t, "Not Found", responseMessage(404, nil))
	assert.Equal(t, `{"error":"x"}`, responseMessage(500, []byte(`{"error":"x"}`)))
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 409, Message: "exists", kind: ErrConflict}

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "http 409: conflict: exists", err.Error())
}
