package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"notaria-digital/internal/adapters/http/middleware"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/core/services"
	"notaria-digital/internal/pkg/response"
)

// RequestHandler handles request lifecycle endpoints
type RequestHandler struct {
	requestService     *services.RequestService
	certificateService *services.CertificateService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService, certificateService *services.CertificateService) *RequestHandler {
	return &RequestHandler{
		requestService:     requestService,
		certificateService: certificateService,
	}
}

// CreateRequestBody represents create request body
type CreateRequestBody struct {
	RequestType string `json:"request_type"`
	DeedNumber  string `json:"deed_number"`
	DeedYear    string `json:"deed_year"`
	Notary      string `json:"notary"`
	Parties     string `json:"parties"`
}

// ApproveRequestBody represents approve request body
type ApproveRequestBody struct {
	Amount float64 `json:"amount"`
}

// RejectRequestBody represents reject request body
type RejectRequestBody struct {
	Reason string `json:"reason"`
}

// Create creates a new request
// @Summary Create request
// @Description Submit a new notarial document request (Client only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRequestBody true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if !domain.ValidRequestType(req.RequestType) {
		return response.BadRequest(c, "Request type must be 'Copia de Entrada' or 'Copia Digital'")
	}
	if req.DeedNumber == "" {
		return response.BadRequest(c, "Deed number is required")
	}
	if len(req.DeedYear) < 4 {
		return response.BadRequest(c, "Deed year is required")
	}
	if req.Notary == "" {
		return response.BadRequest(c, "Notary is required")
	}
	if req.Parties == "" {
		return response.BadRequest(c, "Parties are required")
	}

	input := &services.CreateRequestInput{
		RequestType: req.RequestType,
		DeedNumber:  req.DeedNumber,
		DeedYear:    req.DeedYear,
		Notary:      req.Notary,
		Parties:     req.Parties,
	}

	created, err := h.requestService.Create(c.Context(), identity, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only clients can submit requests")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid request data")
		default:
			return response.InternalServerError(c, "Failed to create request")
		}
	}

	return response.Created(c, "Request created successfully", fiber.Map{
		"request": toRequestResponse(created),
	})
}

// ListOwned lists the caller's requests
// @Summary List own requests
// @Description List requests owned by the authenticated client
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /requests [get]
func (h *RequestHandler) ListOwned(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.requestService.ListOwned(c.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Staff accounts use the full listing")
		}
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", fiber.Map{
		"requests": toRequestResponseList(requests),
	})
}

// ListAll lists all requests
// @Summary List all requests
// @Description List every request in the system (Employee/Admin only)
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /requests/all [get]
func (h *RequestHandler) ListAll(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.requestService.ListAll(c.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to list all requests")
		}
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", fiber.Map{
		"requests": toRequestResponseList(requests),
	})
}

// Get returns a single request
// @Summary Get request
// @Description Get a request by id (owner or staff)
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := h.requestService.GetByID(c.Context(), identity, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to view this request")
		default:
			return response.InternalServerError(c, "Failed to get request")
		}
	}

	return response.Success(c, "Request retrieved successfully", fiber.Map{
		"request": toRequestResponse(req),
	})
}

// Approve approves a pending request
// @Summary Approve request
// @Description Approve a pending request with a quoted amount (Employee/Admin only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param body body ApproveRequestBody true "Approval data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ApproveRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than 0")
	}

	approved, err := h.requestService.Approve(c.Context(), identity, c.Params("id"), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to approve requests")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than 0")
		case errors.Is(err, domain.ErrStatusConflict):
			return response.Conflict(c, "Request is no longer pending")
		default:
			return response.InternalServerError(c, "Failed to approve request")
		}
	}

	return response.Success(c, "Request approved successfully", fiber.Map{
		"request": toRequestResponse(approved),
	})
}

// Reject rejects a pending request
// @Summary Reject request
// @Description Reject a pending request with a reason (Employee/Admin only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param body body RejectRequestBody true "Rejection data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RejectRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	rejected, err := h.requestService.Reject(c.Context(), identity, c.Params("id"), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to reject requests")
		case errors.Is(err, domain.ErrReasonRequired):
			return response.BadRequest(c, "Rejection reason is required")
		case errors.Is(err, domain.ErrStatusConflict):
			return response.Conflict(c, "Request is no longer pending")
		default:
			return response.InternalServerError(c, "Failed to reject request")
		}
	}

	return response.Success(c, "Request rejected successfully", fiber.Map{
		"request": toRequestResponse(rejected),
	})
}

// Pay initiates payment for an approved request
// @Summary Initiate payment
// @Description Start payment for an approved request. Returns the paid request in simulated mode, or a redirect URL for external checkout.
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /requests/{id}/pay [post]
func (h *RequestHandler) Pay(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, session, err := h.requestService.InitiatePayment(c.Context(), identity, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to pay this request")
		case errors.Is(err, domain.ErrStatusConflict):
			return response.Conflict(c, "Request is not approved for payment")
		case errors.Is(err, domain.ErrUpstreamFailure):
			return response.BadGateway(c, "Payment processor unavailable, please retry")
		default:
			return response.InternalServerError(c, "Failed to process payment")
		}
	}

	if !session.Settled() {
		return response.Success(c, "Payment session created", fiber.Map{
			"request":      toRequestResponse(req),
			"redirect_url": session.RedirectURL,
		})
	}

	return response.Success(c, "Payment completed successfully", fiber.Map{
		"request": toRequestResponse(req),
	})
}

// ValidatePDF records the staff attestation for a paid request
// @Summary Validate certificate
// @Description Mark the certificate of a paid request as reviewed and releasable (Employee/Admin only)
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/validate-pdf [post]
func (h *RequestHandler) ValidatePDF(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := h.requestService.ValidatePDF(c.Context(), identity, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to validate certificates")
		case errors.Is(err, domain.ErrStatusConflict):
			return response.Conflict(c, "Request is not paid or already validated")
		default:
			return response.InternalServerError(c, "Failed to validate certificate")
		}
	}

	return response.Success(c, "Certificate validated successfully", fiber.Map{
		"request": toRequestResponse(req),
	})
}

// Certificate issues the certificate document
// @Summary Download certificate
// @Description Download the certificate for a paid and validated request (owner or staff)
// @Tags Requests
// @Produce application/octet-stream
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /requests/{id}/pdf [get]
func (h *RequestHandler) Certificate(c *fiber.Ctx) error {
	identity, ok := middleware.CallerIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	bytes, req, err := h.certificateService.Issue(c.Context(), identity, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to download this certificate")
		case errors.Is(err, domain.ErrNotCertifiable):
			return response.Conflict(c, "Request must be paid and validated before issuance")
		case errors.Is(err, domain.ErrUpstreamFailure):
			return response.BadGateway(c, "Certificate rendering failed, please retry")
		default:
			return response.InternalServerError(c, "Failed to issue certificate")
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tramite_%s.txt"`, req.ID))
	return c.Send(bytes)
}
