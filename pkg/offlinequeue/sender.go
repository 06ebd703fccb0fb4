package offlinequeue

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPSender replays mutations against the record store's HTTP API. The
// original idempotency key travels on every request, so a mutation the
// server acknowledged before the connection dropped is not applied twice.
type HTTPSender struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPSender creates a sender for the API at baseURL. Token, if set, is
// sent as a bearer credential.
func NewHTTPSender(baseURL, token string) *HTTPSender {
	return &HTTPSender{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Send replays one mutation. Any non-2xx response is an error: a domain
// rejection is surfaced to the caller, never dropped or force-applied.
func (s *HTTPSender) Send(ctx context.Context, m *Mutation) error {
	req, err := http.NewRequestWithContext(ctx, m.Method, s.BaseURL+m.Endpoint, bytes.NewReader(m.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", m.IdempotencyKey)
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: replay rejected: %s", m.Method, m.Endpoint, resp.Status)
	}
	return nil
}
