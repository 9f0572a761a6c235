package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReceiptNumber_Shape(t *testing.T) {
	issuedAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	re := `^RCP-20260310-[A-Z2-9]{6}$`

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		number, err := NewReceiptNumber(issuedAt)
		require.NoError(t, err)
		assert.Regexp(t, re, number)
		seen[number] = true
	}
	// Candidates are random; a couple hundred draws should not all collide.
	assert.Greater(t, len(seen), 1)
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "Cash", MethodLabel(MethodCash))
	assert.Equal(t, "Bank Transfer", MethodLabel(MethodBankTransfer))
	// Unknown methods pass through untranslated.
	assert.Equal(t, "CHEQUE", MethodLabel("CHEQUE"))
}
