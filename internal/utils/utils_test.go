package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condovia/api-estates/internal/apperr"
)

func TestRandomSuffix(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z2-9]{6}$`)
	for i := 0; i < 50; i++ {
		s, err := RandomSuffix(6)
		require.NoError(t, err)
		assert.Regexp(t, re, s)
	}
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.Validation("amount", "must be positive"), http.StatusBadRequest},
		{"conflict", apperr.Conflict("already paid"), http.StatusConflict},
		{"integrity", apperr.Integrity("has paid history"), http.StatusConflict},
		{"not found", apperr.NotFound("fee", 7), http.StatusNotFound},
		{"denied", apperr.Denied("manage fees"), http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondError_WrappedErrorsUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("context"), apperr.Conflict("duplicate receipt"))
	RespondError(rec, wrapped)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
