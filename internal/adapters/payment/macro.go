package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"notaria-digital/internal/core/domain"
)

const sessionTimeout = 10 * time.Second

// MacroProcessor creates checkout sessions against the Banco Macro
// payment API. It never settles synchronously: the PAID transition happens
// when the confirmation callback for the same request id arrives.
type MacroProcessor struct {
	baseURL string
	apiKey  string
	retURL  string
	client  *http.Client
}

// NewMacroProcessor creates a Banco Macro checkout client
func NewMacroProcessor(baseURL, apiKey, returnURL string) *MacroProcessor {
	return &MacroProcessor{
		baseURL: baseURL,
		apiKey:  apiKey,
		retURL:  returnURL,
		client:  &http.Client{Timeout: sessionTimeout},
	}
}

type createSessionRequest struct {
	RequestID string  `json:"request_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	ReturnURL string  `json:"return_url,omitempty"`
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// CreateSession opens a checkout session scoped to the request id and
// amount and returns the redirect target for the payer.
func (p *MacroProcessor) CreateSession(ctx context.Context, requestID string, amount float64) (*Session, error) {
	payload, err := json.Marshal(createSessionRequest{
		RequestID: requestID,
		Amount:    amount,
		Currency:  "ARS",
		ReturnURL: p.retURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: payment session: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: payment session: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: payment session: %v", domain.ErrUpstreamFailure, err)
	}
	if out.RedirectURL == "" {
		return nil, fmt.Errorf("%w: payment session: empty redirect url", domain.ErrUpstreamFailure)
	}

	return &Session{RedirectURL: out.RedirectURL}, nil
}
