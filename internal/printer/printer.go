// Package printer hands finished receipt documents to the external print
// surface. The printer is slow and flaky by nature, so the HTTP call sits
// behind a circuit breaker; a broken printer never invalidates the order.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jerico-c/cashier-app/internal/domain"
)

// Sink posts receipt documents to a printer endpoint.
type Sink struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewSink(url string, timeout time.Duration) *Sink {
	settings := gobreaker.Settings{
		Name:    "receipt-printer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Sink{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Print sends the document to the printer endpoint. When the breaker is
// open the call fails fast without touching the network.
func (s *Sink) Print(ctx context.Context, doc domain.ReceiptDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to build print request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("print request failed: %w", err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("printer returned status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})
	return err
}
