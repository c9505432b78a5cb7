package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Logger is the logging surface required by the client.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event is the fire-and-forget status change delivered to the notification
// dispatcher (reminders, WhatsApp/e-mail content live there, not here).
type Event struct {
	AppointmentID int64  `json:"appointmentId"`
	NewStatus     string `json:"newStatus"`
	Reason        string `json:"reason,omitempty"`
}

// Client dispatches appointment status events. Delivery is best-effort: the
// core never waits on the dispatcher and treats failures as non-fatal.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        Logger
}

// NewClient creates a notification dispatcher client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		log:     log,
	}
}

// Dispatch sends the event in the background and returns immediately. The
// request carries its own timeout so it is not cancelled with the caller's
// context.
func (c *Client) Dispatch(event Event) {
	if c.baseURL == "" {
		return
	}
	go c.send(event)
}

func (c *Client) send(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		c.log.Error("notifier: failed to marshal event for appointment=%d: %v", event.AppointmentID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/internal/events/appointment-status", bytes.NewReader(payload))
	if err != nil {
		c.log.Error("notifier: failed to create request for appointment=%d: %v", event.AppointmentID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("notifier: delivery failed for appointment=%d status=%s: %v",
			event.AppointmentID, event.NewStatus, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.log.Warn("notifier: dispatcher answered %d for appointment=%d status=%s",
			resp.StatusCode, event.AppointmentID, event.NewStatus)
		return
	}

	c.log.Info("notifier: dispatched appointment=%d status=%s", event.AppointmentID, event.NewStatus)
}

// String implements fmt.Stringer for logging.
func (e Event) String() string {
	return fmt.Sprintf("appointment=%d status=%s", e.AppointmentID, e.NewStatus)
}
