package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/adapters/render"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/core/policy"
)

// CertificateService issues the rendered certificate for a request. Only
// PAID and staff-validated requests may be exported; that check lives here,
// inside the issuer, because it is a security boundary and must hold no
// matter which caller path reached it.
type CertificateService struct {
	requestRepo repositories.RequestRepository
	renderer    render.CertificateRenderer
	now         func() time.Time
}

// NewCertificateService creates a new certificate service
func NewCertificateService(requestRepo repositories.RequestRepository, renderer render.CertificateRenderer) *CertificateService {
	return &CertificateService{
		requestRepo: requestRepo,
		renderer:    renderer,
		now:         time.Now,
	}
}

// Issue renders the certificate for a PAID and validated request
func (s *CertificateService) Issue(ctx context.Context, caller domain.Identity, id string) ([]byte, *domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !policy.Allowed(policy.OpIssueCertificate, caller, req.OwnerID) {
		return nil, nil, domain.ErrForbidden
	}

	// Re-verified here, not only by the transport layer
	if !req.CertificateReady() {
		return nil, nil, domain.ErrNotCertifiable
	}

	data := render.CertificateData{
		RequestID:     req.ID,
		RequestType:   req.RequestType,
		Title:         req.Title,
		DeedNumber:    req.DeedNumber,
		DeedYear:      req.DeedYear,
		Notary:        req.Notary,
		Parties:       req.Parties,
		TransactionID: deref(req.TransactionID),
		RequestedAt:   req.CreatedAt,
		IssuedAt:      s.now(),
	}
	if req.Owner != nil {
		data.RequesterName = req.Owner.Name
		data.RequesterEmail = req.Owner.Email
	}

	bytes, err := s.renderer.Render(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	log.Printf("✅ Certificate issued: request %s for %s", req.ID, caller.Email)
	return bytes, req, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
