package broker

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
)

func TestHTTPClient_PublishResult(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(WithHTTPClient(srv.Client()))

	attrs := contract.BrokerAttrs{
		PublishURL: srv.URL + "/pacts/web-app/order-service/verification-results",
	}
	err := c.PublishResult(context.Background(), attrs, contract.Verdict{
		Success:         true,
		ProviderVersion: "1.4.2",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/pacts/web-app/order-service/verification-results", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, true, gotBody["success"])
	assert.Equal(t, "1.4.2", gotBody["providerApplicationVersion"])
	assert.NotEmpty(t, gotBody["verificationDate"])
}

func TestHTTPClient_PublishResultServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(WithHTTPClient(srv.Client()))

	err := c.PublishResult(context.Background(), contract.BrokerAttrs{PublishURL: srv.URL}, contract.Verdict{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPClient_NoURLConfigured(t *testing.T) {
	c := NewHTTPClient()

	err := c.PublishResult(context.Background(), contract.BrokerAttrs{}, contract.Verdict{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URL")
}

func TestPublishEndpoint_Derivation(t *testing.T) {
	tests := []struct {
		name  string
		attrs contract.BrokerAttrs
		want  string
	}{
		{
			name:  "explicit publish URL wins",
			attrs: contract.BrokerAttrs{BaseURL: "https://b", PactURL: "https://b/p", PublishURL: "https://b/custom"},
			want:  "https://b/custom",
		},
		{
			name:  "derived from pact URL",
			attrs: contract.BrokerAttrs{BaseURL: "https://b", PactURL: "https://b/pacts/w/o/latest/"},
			want:  "https://b/pacts/w/o/latest/verification-results",
		},
		{
			name:  "falls back to base URL",
			attrs: contract.BrokerAttrs{BaseURL: "https://b/"},
			want:  "https://b/verification-results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publishEndpoint(tt.attrs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
