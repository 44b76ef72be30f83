// Package payment abstracts the payment processor behind a single
// interface with two implementations: a simulated processor that settles
// synchronously, and the Banco Macro checkout client that returns a
// redirect target and settles later through a confirmation callback.
// The implementation is selected once at startup from configuration.
package payment

import "context"

// Session is the outcome of starting a payment for an approved request
type Session struct {
	// TransactionID is set when the processor settled synchronously;
	// the request can be marked PAID immediately.
	TransactionID string `json:"transaction_id,omitempty"`
	// RedirectURL is set when the payer must complete checkout
	// externally; the request stays APPROVED until confirmation.
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Settled reports whether the payment completed within the session call
func (s *Session) Settled() bool {
	return s.TransactionID != ""
}

// Processor creates payment sessions scoped to a request id and amount
type Processor interface {
	CreateSession(ctx context.Context, requestID string, amount float64) (*Session, error)
}
