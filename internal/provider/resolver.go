package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/verifier"
)

// defaultMessageEndpoint is where message interactions are requested
// from when no explicit endpoint is configured.
const defaultMessageEndpoint = "/_pact/messages"

// HTTPResolver resolves every interaction to a single handler that
// exercises a live provider over HTTP.
//
// Resolution itself never fails for a reachable configuration: network
// errors surface later, from the handler, so they are isolated to the
// interaction that hit them.
type HTTPResolver struct {
	baseURL         string
	messageEndpoint string
	httpClient      *http.Client
}

// ResolverOption configures an HTTPResolver.
type ResolverOption func(*HTTPResolver)

// WithMessageEndpoint replaces the message endpoint path.
func WithMessageEndpoint(path string) ResolverOption {
	return func(r *HTTPResolver) { r.messageEndpoint = path }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *HTTPResolver) { r.httpClient = c }
}

// NewHTTPResolver creates a resolver targeting the provider at baseURL.
func NewHTTPResolver(baseURL string, opts ...ResolverOption) (*HTTPResolver, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid provider base URL %q", baseURL)
	}

	r := &HTTPResolver{
		baseURL:         strings.TrimRight(baseURL, "/"),
		messageEndpoint: defaultMessageEndpoint,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Resolve returns one handler per interaction, chosen by kind.
func (r *HTTPResolver) Resolve(interaction contract.Interaction) ([]verifier.Handler, error) {
	switch interaction.Kind {
	case contract.KindMessage:
		return []verifier.Handler{r.messageHandler(interaction)}, nil
	case contract.KindRequestResponse:
		if interaction.Request == nil {
			return nil, fmt.Errorf("interaction %q has no request to replay", interaction.Description)
		}
		return []verifier.Handler{r.requestHandler(interaction)}, nil
	default:
		return nil, fmt.Errorf("unknown interaction kind: %d", interaction.Kind)
	}
}

// messageDescriptor is the body POSTed to the message endpoint, asking
// the provider to produce the described message.
type messageDescriptor struct {
	Description    string                   `json:"description"`
	ProviderStates []contract.ProviderState `json:"providerStates,omitempty"`
}

// messageHandler asks the provider's message endpoint for the message
// it would emit for this description. The response body becomes the
// payload; the Content-Type header becomes metadata.
func (r *HTTPResolver) messageHandler(interaction contract.Interaction) verifier.Handler {
	return func(ctx context.Context) (any, error) {
		body, err := json.Marshal(messageDescriptor{
			Description:    interaction.Description,
			ProviderStates: interaction.States,
		})
		if err != nil {
			return nil, fmt.Errorf("encode message descriptor: %w", err)
		}

		endpoint := r.baseURL + r.messageEndpoint
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build message request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request message from provider: %w", err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read message payload: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("provider returned %s for message %q",
				resp.Status, interaction.Description)
		}

		metadata := map[string]any{}
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			metadata["content-type"] = ct
		}
		for key, values := range resp.Header {
			if strings.HasPrefix(key, "Pact-Message-Metadata-") {
				name := strings.ToLower(strings.TrimPrefix(key, "Pact-Message-Metadata-"))
				metadata[name] = values[0]
			}
		}

		return verifier.MessageOutput{Payload: payload, Metadata: metadata}, nil
	}
}

// requestHandler replays the expected request against the provider and
// returns the observed response in the engine's map shape.
func (r *HTTPResolver) requestHandler(interaction contract.Interaction) verifier.Handler {
	return func(ctx context.Context) (any, error) {
		expected := interaction.Request

		endpoint := r.baseURL + expected.Path
		if len(expected.Query) > 0 {
			q := url.Values{}
			for k, v := range expected.Query {
				q.Set(k, v)
			}
			endpoint += "?" + q.Encode()
		}

		var body io.Reader
		if len(expected.Body) > 0 {
			body = bytes.NewReader(expected.Body)
		}

		req, err := http.NewRequestWithContext(ctx, expected.Method, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("build provider request: %w", err)
		}
		for k, v := range expected.Headers {
			req.Header.Set(k, v)
		}

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("replay request against provider: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read provider response: %w", err)
		}

		headers := map[string]any{}
		for key := range resp.Header {
			headers[key] = resp.Header.Get(key)
		}

		observed := map[string]any{
			"status":  resp.StatusCode,
			"headers": headers,
		}
		if len(respBody) > 0 {
			var decoded any
			if err := json.Unmarshal(respBody, &decoded); err == nil {
				observed["body"] = decoded
			} else {
				observed["body"] = string(respBody)
			}
		}

		return observed, nil
	}
}
