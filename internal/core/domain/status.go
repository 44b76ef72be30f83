package domain

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a notarial request.
//
// PENDING → APPROVED → PAID
// PENDING → REJECTED
//
// Transitions never revisit PENDING. The payload fields on Request
// (Amount, RejectionReason, TransactionID, PdfValidated) only change
// together with Status through the transition methods below, so illegal
// combinations never leave this package.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusPaid     Status = "PAID"
)

// Request type tags accepted at creation
const (
	RequestTypeEntryCopy   = "Copia de Entrada"
	RequestTypeDigitalCopy = "Copia Digital"
)

// ValidRequestType checks if a string is a known request type
func ValidRequestType(s string) bool {
	return s == RequestTypeEntryCopy || s == RequestTypeDigitalCopy
}

// Request represents a notarial document request in the domain layer
type Request struct {
	ID          string
	OwnerID     string // immutable, set at creation
	RequestType string

	// Structured deed fields, immutable after creation
	DeedNumber string
	DeedYear   string
	Notary     string
	Parties    string

	// Derived at creation from the structured fields
	Title       string
	Description string

	Status          Status
	Amount          *float64 // set iff APPROVED or PAID
	TransactionID   *string  // set iff PAID
	RejectionReason *string  // set iff REJECTED
	PdfValidated    bool     // meaningful only when PAID

	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is populated on reads for display; never written back
	Owner *User
}

// NewRequest builds a PENDING request owned by the caller, deriving the
// display title and description from the deed fields.
func NewRequest(ownerID, requestType, deedNumber, deedYear, notary, parties string) *Request {
	return &Request{
		OwnerID:     ownerID,
		RequestType: requestType,
		DeedNumber:  deedNumber,
		DeedYear:    deedYear,
		Notary:      notary,
		Parties:     parties,
		Title:       fmt.Sprintf("Escritura N° %s (%s)", deedNumber, deedYear),
		Description: fmt.Sprintf("Escribano: %s | Partes: %s", notary, parties),
		Status:      StatusPending,
	}
}

// Approve moves PENDING → APPROVED with the quoted amount
func (r *Request) Approve(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Status != StatusPending {
		return ErrStatusConflict
	}
	r.Status = StatusApproved
	r.Amount = &amount
	return nil
}

// Reject moves PENDING → REJECTED with a reason
func (r *Request) Reject(reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	if r.Status != StatusPending {
		return ErrStatusConflict
	}
	r.Status = StatusRejected
	r.RejectionReason = &reason
	return nil
}

// MarkPaid moves APPROVED → PAID, recording the payment reference.
// PdfValidated always starts false on entry into PAID.
func (r *Request) MarkPaid(transactionID string) error {
	if transactionID == "" {
		return ErrInvalidInput
	}
	if r.Status != StatusApproved || r.Amount == nil {
		return ErrStatusConflict
	}
	r.Status = StatusPaid
	r.TransactionID = &transactionID
	r.PdfValidated = false
	return nil
}

// ValidatePDF flips the staff attestation on a PAID request. It never
// reverts to false, and re-validating is a conflict.
func (r *Request) ValidatePDF() error {
	if r.Status != StatusPaid {
		return ErrStatusConflict
	}
	if r.PdfValidated {
		return ErrStatusConflict
	}
	r.PdfValidated = true
	return nil
}

// CertificateReady reports whether the certificate may be issued
func (r *Request) CertificateReady() bool {
	return r.Status == StatusPaid && r.PdfValidated
}
