package settingsservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// Logger is the logging surface required by the client.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client talks to the establishment settings provider. All reads return
// immutable snapshots; nothing here mutates provider state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a settings provider client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetEstablishment fetches the establishment settings snapshot.
func (c *Client) GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error) {
	endpoint := fmt.Sprintf("%s/internal/establishments/%d", c.baseURL, establishmentID)

	var wire Establishment
	if err := c.getJSON(ctx, endpoint, &wire, ErrEstablishmentNotFound); err != nil {
		return nil, err
	}
	return wire.ToDomain(), nil
}

// GetService fetches a service snapshot scoped to the establishment.
func (c *Client) GetService(ctx context.Context, establishmentID, serviceID int64) (*domain.Service, error) {
	endpoint := fmt.Sprintf("%s/internal/establishments/%d/services/%d", c.baseURL, establishmentID, serviceID)

	var wire Service
	if err := c.getJSON(ctx, endpoint, &wire, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return wire.ToDomain(), nil
}

// GetCalendarBlocks fetches the blocked dates and blocked time windows
// overlapping the [from, to] period. Recurring blocked dates are always
// included regardless of period.
func (c *Client) GetCalendarBlocks(ctx context.Context, establishmentID int64, from, to time.Time) (domain.CalendarBlocks, error) {
	endpoint := fmt.Sprintf("%s/internal/establishments/%d/calendar-blocks?%s",
		c.baseURL, establishmentID, url.Values{
			"from": {from.Format(domain.DateFormat)},
			"to":   {to.Format(domain.DateFormat)},
		}.Encode())

	var wire CalendarBlocks
	if err := c.getJSON(ctx, endpoint, &wire, ErrEstablishmentNotFound); err != nil {
		return domain.CalendarBlocks{}, err
	}
	return wire.ToDomain(establishmentID), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
