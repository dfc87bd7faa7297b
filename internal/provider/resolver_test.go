package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/verifier"
)

func TestNewHTTPResolver_RejectsEmptyBaseURL(t *testing.T) {
	_, err := NewHTTPResolver("")
	require.Error(t, err)
}

func TestResolve_MessageInteraction(t *testing.T) {
	var gotPath string
	var gotDescriptor map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotDescriptor)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Pact-Message-Metadata-Topic", "orders")
		_, _ = w.Write([]byte(`{"order_id":"o-1"}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	handlers, err := r.Resolve(contract.Interaction{
		Description: "an order created event",
		Kind:        contract.KindMessage,
		States:      []contract.ProviderState{{Name: "an order exists"}},
	})
	require.NoError(t, err)
	require.Len(t, handlers, 1)

	raw, err := handlers[0](context.Background())
	require.NoError(t, err)

	out, ok := raw.(verifier.MessageOutput)
	require.True(t, ok, "got %T", raw)
	assert.JSONEq(t, `{"order_id":"o-1"}`, string(out.Payload))
	assert.Equal(t, "application/json", out.Metadata["content-type"])
	assert.Equal(t, "orders", out.Metadata["topic"])

	assert.Equal(t, "/_pact/messages", gotPath)
	assert.Equal(t, "an order created event", gotDescriptor["description"])
}

func TestResolve_MessageEndpointOverride(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL,
		WithHTTPClient(srv.Client()),
		WithMessageEndpoint("/messages"),
	)
	require.NoError(t, err)

	handlers, err := r.Resolve(contract.Interaction{
		Description: "an order created event",
		Kind:        contract.KindMessage,
	})
	require.NoError(t, err)

	_, err = handlers[0](context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/messages", gotPath)
}

func TestResolve_MessageProviderErrorSurfacesFromHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such message", http.StatusNotFound)
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	handlers, err := r.Resolve(contract.Interaction{
		Description: "an unknown event",
		Kind:        contract.KindMessage,
	})
	require.NoError(t, err, "resolution must not fail; the handler carries the error")

	_, err = handlers[0](context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestResolve_RequestResponseInteraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/o-1", r.URL.Path)
		assert.Equal(t, "verbose", r.URL.Query().Get("view"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"order_id":"o-1","total":2500}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	handlers, err := r.Resolve(contract.Interaction{
		Description: "a request for an order",
		Kind:        contract.KindRequestResponse,
		Request: &contract.Request{
			Method:  "GET",
			Path:    "/orders/o-1",
			Query:   map[string]string{"view": "verbose"},
			Headers: map[string]string{"Accept": "application/json"},
		},
		Response: &contract.Response{Status: 200},
	})
	require.NoError(t, err)
	require.Len(t, handlers, 1)

	raw, err := handlers[0](context.Background())
	require.NoError(t, err)

	observed, ok := raw.(map[string]any)
	require.True(t, ok, "got %T", raw)
	assert.Equal(t, 200, observed["status"])

	body, ok := observed["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "o-1", body["order_id"])

	headers, ok := observed["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", headers["Content-Type"])
}

func TestResolve_RequestResponseWithoutRequestIsFatal(t *testing.T) {
	r, err := NewHTTPResolver("http://localhost:0")
	require.NoError(t, err)

	_, err = r.Resolve(contract.Interaction{
		Description: "a request for an order",
		Kind:        contract.KindRequestResponse,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no request to replay")
}
