package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SimulatedProcessor settles every payment synchronously with a generated
// transaction reference. Used in development and test environments where
// no real processor is configured.
type SimulatedProcessor struct{}

// NewSimulatedProcessor creates a simulated processor
func NewSimulatedProcessor() *SimulatedProcessor {
	return &SimulatedProcessor{}
}

// CreateSession synthesizes a settled session
func (p *SimulatedProcessor) CreateSession(_ context.Context, _ string, _ float64) (*Session, error) {
	return &Session{TransactionID: NewTransactionReference()}, nil
}

// NewTransactionReference builds a unique, human-traceable payment
// reference: timestamp plus a random component.
func NewTransactionReference() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("MACRO-%d-%s", time.Now().UnixMilli(), random)
}
