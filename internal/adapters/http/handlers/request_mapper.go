package handlers

import (
	"time"

	"notaria-digital/internal/core/domain"
)

// OwnerInfo is the owner view embedded in request responses
type OwnerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RequestResponse is the exposed view of a request
type RequestResponse struct {
	ID              string     `json:"id"`
	RequestType     string     `json:"request_type"`
	DeedNumber      string     `json:"deed_number"`
	DeedYear        string     `json:"deed_year"`
	Notary          string     `json:"notary"`
	Parties         string     `json:"parties"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Amount          *float64   `json:"amount,omitempty"`
	TransactionID   *string    `json:"transaction_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	PdfValidated    bool       `json:"pdf_validated"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	User            *OwnerInfo `json:"user,omitempty"`
}

// toRequestResponse maps a domain request to its exposed view
func toRequestResponse(r *domain.Request) *RequestResponse {
	resp := &RequestResponse{
		ID:              r.ID,
		RequestType:     r.RequestType,
		DeedNumber:      r.DeedNumber,
		DeedYear:        r.DeedYear,
		Notary:          r.Notary,
		Parties:         r.Parties,
		Title:           r.Title,
		Description:     r.Description,
		Status:          string(r.Status),
		Amount:          r.Amount,
		TransactionID:   r.TransactionID,
		RejectionReason: r.RejectionReason,
		PdfValidated:    r.PdfValidated,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Owner != nil {
		resp.User = &OwnerInfo{Email: r.Owner.Email, Name: r.Owner.Name}
	}
	return resp
}

// toRequestResponseList maps a slice of domain requests
func toRequestResponseList(requests []*domain.Request) []*RequestResponse {
	result := make([]*RequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toRequestResponse(r))
	}
	return result
}
