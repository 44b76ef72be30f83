package payment

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^MACRO-\d+-[A-Z0-9]{9}$`)

func TestSimulatedProcessorSettlesSynchronously(t *testing.T) {
	session, err := NewSimulatedProcessor().CreateSession(context.Background(), "req-1", 1500)

	require.NoError(t, err)
	assert.True(t, session.Settled())
	assert.Empty(t, session.RedirectURL)
	assert.Regexp(t, referencePattern, session.TransactionID)
}

func TestNewTransactionReferenceIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := NewTransactionReference()
		assert.Regexp(t, referencePattern, ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestSessionSettled(t *testing.T) {
	assert.True(t, (&Session{TransactionID: "MACRO-1-ABC"}).Settled())
	assert.False(t, (&Session{RedirectURL: "https://pagos.macro.com.ar/s/abc"}).Settled())
	assert.False(t, (&Session{}).Settled())
}
