package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/pactum/internal/contract"
)

// Client sends verification verdicts to a contract registry.
type Client interface {
	// PublishResult records the verdict against the pact described by
	// attrs. The verdict is immutable; implementations must not retain
	// or mutate it.
	PublishResult(ctx context.Context, attrs contract.BrokerAttrs, verdict contract.Verdict) error
}

// verdictBody is the wire shape of a published verdict.
type verdictBody struct {
	Success         bool   `json:"success"`
	ProviderVersion string `json:"providerApplicationVersion"`
	VerifiedAt      string `json:"verificationDate"`
}

// HTTPClient publishes verdicts over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	now        func() time.Time
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. Tests use this to
// point at an httptest server with a short timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.httpClient = c }
}

// NewHTTPClient creates an HTTP publishing client with a 30s timeout.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// PublishResult POSTs the verdict as JSON to the pact's publish endpoint.
// A non-2xx response is an error carrying the status and a truncated body.
func (h *HTTPClient) PublishResult(ctx context.Context, attrs contract.BrokerAttrs, verdict contract.Verdict) error {
	endpoint, err := publishEndpoint(attrs)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(verdictBody{
		Success:         verdict.Success,
		ProviderVersion: verdict.ProviderVersion,
		VerifiedAt:      h.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish verdict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("publish verdict: registry returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

// publishEndpoint resolves the URL the verdict is POSTed to. The
// registry-supplied publish URL wins; otherwise the endpoint is derived
// from the pact's own URL, falling back to the registry root.
func publishEndpoint(attrs contract.BrokerAttrs) (string, error) {
	switch {
	case attrs.PublishURL != "":
		return attrs.PublishURL, nil
	case attrs.PactURL != "":
		return strings.TrimRight(attrs.PactURL, "/") + "/verification-results", nil
	case attrs.BaseURL != "":
		return strings.TrimRight(attrs.BaseURL, "/") + "/verification-results", nil
	default:
		return "", fmt.Errorf("broker attributes carry no URL to publish to")
	}
}
