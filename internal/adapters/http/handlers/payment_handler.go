package handlers

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"

	"notaria-digital/internal/config"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/core/services"
	"notaria-digital/internal/pkg/response"
)

// PaymentHandler handles payment processor callbacks
type PaymentHandler struct {
	requestService *services.RequestService
	cfg            *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(requestService *services.RequestService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		requestService: requestService,
		cfg:            cfg,
	}
}

// ConfirmPaymentBody represents the processor callback payload
type ConfirmPaymentBody struct {
	RequestID     string `json:"request_id"`
	TransactionID string `json:"transaction_id"`
}

// Confirm settles an approved request from a processor callback
// @Summary Confirm payment
// @Description Webhook called by the payment processor once a checkout session settles. Authenticated by a shared secret header, not a user session.
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Shared webhook secret"
// @Param body body ConfirmPaymentBody true "Settlement data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/confirm [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	secret := c.Get("X-Webhook-Secret")
	if h.cfg.Payment.WebhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.Payment.WebhookSecret)) != 1 {
		return response.Unauthorized(c, "Invalid webhook secret")
	}

	var req ConfirmPaymentBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RequestID == "" || req.TransactionID == "" {
		return response.BadRequest(c, "request_id and transaction_id are required")
	}

	confirmed, err := h.requestService.ConfirmPayment(c.Context(), req.RequestID, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrStatusConflict):
			// Processors retry deliveries; a request that already settled is acknowledged.
			return response.Success(c, "Payment already recorded", nil)
		default:
			return response.InternalServerError(c, "Failed to confirm payment")
		}
	}

	return response.Success(c, "Payment confirmed successfully", fiber.Map{
		"request": toRequestResponse(confirmed),
	})
}
