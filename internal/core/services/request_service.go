package services

import (
	"context"
	"log"
	"strings"

	"notaria-digital/internal/adapters/payment"
	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/core/policy"
)

// RequestService is the request lifecycle engine. Every operation loads
// the current persisted state, asks the access policy whether the caller
// may act, validates the state-machine precondition, and writes the new
// state through a conditional update so concurrent callers serialize.
type RequestService struct {
	requestRepo repositories.RequestRepository
	processor   payment.Processor
}

// NewRequestService creates a new request service
func NewRequestService(requestRepo repositories.RequestRepository, processor payment.Processor) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		processor:   processor,
	}
}

// CreateRequestInput represents create request input
type CreateRequestInput struct {
	RequestType string `json:"request_type"`
	DeedNumber  string `json:"deed_number"`
	DeedYear    string `json:"deed_year"`
	Notary      string `json:"notary"`
	Parties     string `json:"parties"`
}

// Validate checks the structured fields
func (in *CreateRequestInput) Validate() error {
	in.RequestType = strings.TrimSpace(in.RequestType)
	in.DeedNumber = strings.TrimSpace(in.DeedNumber)
	in.DeedYear = strings.TrimSpace(in.DeedYear)
	in.Notary = strings.TrimSpace(in.Notary)
	in.Parties = strings.TrimSpace(in.Parties)

	if !domain.ValidRequestType(in.RequestType) {
		return domain.ErrInvalidInput
	}
	if in.DeedNumber == "" || in.Notary == "" || in.Parties == "" {
		return domain.ErrInvalidInput
	}
	if len(in.DeedYear) < 4 {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create creates a new PENDING request owned by the caller
func (s *RequestService) Create(ctx context.Context, caller domain.Identity, input *CreateRequestInput) (*domain.Request, error) {
	if !policy.Allowed(policy.OpCreateRequest, caller, caller.UserID) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	req := domain.NewRequest(
		caller.UserID,
		input.RequestType,
		input.DeedNumber,
		input.DeedYear,
		input.Notary,
		input.Parties,
	)

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("✅ Request created: %s (%s) by %s", req.ID, req.Title, caller.Email)
	return req, nil
}

// GetByID returns a request visible to the caller
func (s *RequestService) GetByID(ctx context.Context, caller domain.Identity, id string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(policy.OpFetchOne, caller, req.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// ListOwned lists the caller's own requests
func (s *RequestService) ListOwned(ctx context.Context, caller domain.Identity) ([]*domain.Request, error) {
	if !policy.Allowed(policy.OpFetchOwned, caller, caller.UserID) {
		return nil, domain.ErrForbidden
	}
	return s.requestRepo.ListByOwner(ctx, caller.UserID)
}

// ListAll lists every request (staff only)
func (s *RequestService) ListAll(ctx context.Context, caller domain.Identity) ([]*domain.Request, error) {
	if !policy.Allowed(policy.OpFetchAll, caller, "") {
		return nil, domain.ErrForbidden
	}
	return s.requestRepo.ListAll(ctx)
}

// Approve moves a PENDING request to APPROVED with the quoted amount
func (s *RequestService) Approve(ctx context.Context, caller domain.Identity, id string, amount float64) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(policy.OpApprove, caller, req.OwnerID) {
		return nil, domain.ErrForbidden
	}

	prev := req.Status
	if err := req.Approve(amount); err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, req, prev); err != nil {
		return nil, err
	}

	log.Printf("✅ Request approved: %s amount=%.2f by %s", req.ID, amount, caller.Email)
	return req, nil
}

// Reject moves a PENDING request to REJECTED with a reason
func (s *RequestService) Reject(ctx context.Context, caller domain.Identity, id, reason string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(policy.OpReject, caller, req.OwnerID) {
		return nil, domain.ErrForbidden
	}

	prev := req.Status
	if err := req.Reject(strings.TrimSpace(reason)); err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, req, prev); err != nil {
		return nil, err
	}

	log.Printf("✅ Request rejected: %s by %s", req.ID, caller.Email)
	return req, nil
}

// InitiatePayment starts payment for an APPROVED request. With the
// simulated processor the request is marked PAID synchronously; with an
// external processor the caller gets a redirect target and the PAID
// transition waits for the confirmation callback. The stored status is
// never touched before the processor call succeeds.
func (s *RequestService) InitiatePayment(ctx context.Context, caller domain.Identity, id string) (*domain.Request, *payment.Session, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !policy.Allowed(policy.OpInitiatePayment, caller, req.OwnerID) {
		return nil, nil, domain.ErrForbidden
	}
	if req.Status != domain.StatusApproved || req.Amount == nil {
		return nil, nil, domain.ErrStatusConflict
	}

	session, err := s.processor.CreateSession(ctx, req.ID, *req.Amount)
	if err != nil {
		return nil, nil, err
	}

	if !session.Settled() {
		log.Printf("💳 Payment session opened for request %s", req.ID)
		return req, session, nil
	}

	prev := req.Status
	if err := req.MarkPaid(session.TransactionID); err != nil {
		return nil, nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, req, prev); err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Request paid: %s tx=%s", req.ID, session.TransactionID)
	return req, session, nil
}

// ConfirmPayment applies the PAID transition for a processor confirmation
// callback keyed by request id. Duplicate confirmations of an already-PAID
// request return ErrStatusConflict; callers may acknowledge those
// idempotently.
func (s *RequestService) ConfirmPayment(ctx context.Context, id, transactionID string) (*domain.Request, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, domain.ErrInvalidInput
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := req.Status
	if err := req.MarkPaid(transactionID); err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, req, prev); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment confirmed: request %s tx=%s", req.ID, transactionID)
	return req, nil
}

// ValidatePDF records the staff attestation on a PAID request. Calling it
// on an already-validated request is a conflict; the flag never reverts.
func (s *RequestService) ValidatePDF(ctx context.Context, caller domain.Identity, id string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(policy.OpValidatePDF, caller, req.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if err := req.ValidatePDF(); err != nil {
		return nil, err
	}

	// Conditional write: loses cleanly if a concurrent caller validated first
	if err := s.requestRepo.MarkValidated(ctx, id); err != nil {
		return nil, err
	}

	log.Printf("✅ Certificate validated: request %s by %s", req.ID, caller.Email)
	return req, nil
}
