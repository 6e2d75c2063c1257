package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Authentication("no token"), http.StatusUnauthorized},
		{Authorization("not a member"), http.StatusForbidden},
		{NotFound("chat not found"), http.StatusNotFound},
		{Persistence(errors.New("connection reset")), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "bad input", PublicMessage(Validation("bad input")))
	assert.Equal(t, "connection reset", PublicMessage(Persistence(errors.New("connection reset"))))
	assert.Equal(t, "unexpected error", PublicMessage(errors.New("internal detail")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("send message: %w", Authorization("not a member"))
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))
}
