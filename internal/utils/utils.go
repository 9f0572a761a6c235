package utils

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/condovia/api-estates/internal/apperr"
)

const suffixChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RandomSuffix returns a crypto-random string of n characters from an
// uppercase alphanumeric alphabet with ambiguous glyphs (0/O, 1/I/L) removed.
// Used for receipt-number suffixes.
func RandomSuffix(n int) (string, error) {
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixChars))))
		if err != nil {
			return "", err
		}
		result[i] = suffixChars[num.Int64()]
	}
	return string(result), nil
}

// RespondJSON writes v as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RespondError maps a domain error onto its HTTP status and writes a JSON
// error body. Unrecognized errors become a 500 with a generic message.
func RespondError(w http.ResponseWriter, err error) {
	var (
		ve *apperr.ValidationError
		ce *apperr.ConflictError
		ie *apperr.IntegrityViolation
		ne *apperr.NotFoundError
		pe *apperr.PermissionDenied
	)
	switch {
	case errors.As(err, &ve):
		RespondJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field})
	case errors.As(err, &ce):
		RespondJSON(w, http.StatusConflict, errorBody{Error: ce.Message})
	case errors.As(err, &ie):
		RespondJSON(w, http.StatusConflict, errorBody{Error: ie.Message})
	case errors.As(err, &ne):
		RespondJSON(w, http.StatusNotFound, errorBody{Error: ne.Error()})
	case errors.As(err, &pe):
		RespondJSON(w, http.StatusForbidden, errorBody{Error: pe.Error()})
	default:
		RespondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
