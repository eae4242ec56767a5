package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 28 * time.Second

var (
	ErrNotConfigured = errors.New("webhook url is not set")
	ErrTimeout       = errors.New("webhook request timed out")
)

// Forwarder relays chat widget messages to an external automation webhook.
type Forwarder interface {
	Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

type Webhook struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

type StatusError struct {
	StatusCode int
	Status     string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("webhook http error: %s", e.Status)
}

// Forward posts payload as JSON. A JSON answer is passed through as is;
// anything else is wrapped as {"message": "<body>"}.
func (w Webhook) Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if strings.TrimSpace(w.URL) == "" {
		return nil, ErrNotConfigured
	}
	if w.Client == nil {
		timeout := w.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		w.Client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") && json.Valid(body) {
		return body, nil
	}
	return json.Marshal(map[string]string{"message": string(body)})
}
