package pixgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// Logger is the logging surface required by the client.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client talks to the external PIX charge provider. Charge creation is
// retried with bounded backoff on transport failures; the idempotency key in
// the request guarantees retries never duplicate a charge on the gateway
// side.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	log        Logger
}

// NewClient creates a gateway client.
func NewClient(baseURL, apiKey string, timeout time.Duration, maxRetries int, retryDelay time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
	}
}

// CreateCharge issues a PIX charge. Transport failures and 5xx answers are
// retried up to maxRetries times with exponential backoff; 4xx answers fail
// immediately since retrying an invalid request cannot succeed.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal charge request: %v", ErrInternal, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("CreateCharge: retrying attempt %d/%d for key=%s: %v",
				attempt, c.maxRetries, req.IdempotencyKey, lastErr)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
			case <-time.After(c.retryDelay << uint(attempt-1)):
			}
		}

		charge, retryable, err := c.createChargeOnce(ctx, payload)
		if err == nil {
			return charge, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: retries exhausted: %v", ErrGatewayUnavailable, lastErr)
}

func (c *Client) createChargeOnce(ctx context.Context, payload []byte) (*Charge, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return nil, true, fmt.Errorf("%w: status %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrChargeRejected, resp.StatusCode, string(body))
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode charge: %v", ErrInvalidResponse, err)
	}
	if charge.Ref == "" {
		return nil, false, fmt.Errorf("%w: charge without ref", ErrInvalidResponse)
	}
	return &charge, false, nil
}

// GetStatus queries the current charge status. This is the poll fallback for
// missed webhooks; it is read-only and safe to call repeatedly.
func (c *Client) GetStatus(ctx context.Context, ref string) (domain.PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/charges/%s", c.baseURL, ref), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrChargeNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var status chargeStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("%w: failed to decode status: %v", ErrInvalidResponse, err)
	}
	return MapStatus(status.Status), nil
}
