package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetmon/internal/config"
	"fleetmon/internal/httperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(config.ProviderConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
}

func TestGPUIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/issues/gpu", r.URL.Path)
		w.Write([]byte(`{"gpu_issues": [{"host": "gpu-1", "allocatable": 8, "allocated": "7", "issue": "degraded"}]}`))
	})

	issues, err := client.GPUIssues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "gpu-1", issues[0].HostName())
	assert.Equal(t, "87.5%", issues[0].Utilization())
}

func TestMissingFeedKeyMeansNoIssues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	down, err := client.DownProviders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, down)
}

func TestPartialFailuresDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/issues/partial", r.URL.Path)
		w.Write([]byte(`{"providers_with_partial_failures": [{"provider": "p-9", "failed_ips": ["10.1.1.1"]}]}`))
	})

	failures, err := client.PartialFailures(context.Background())
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "p-9", failures[0].HostName())
	assert.Equal(t, 1, failures[0].FailureCount())
}

func TestNon2xxBecomesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	})

	_, err := client.CPUIssues(context.Background())
	require.Error(t, err)

	var upstream *httperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "provider", upstream.API)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestTransportFailureBecomesUpstreamError(t *testing.T) {
	client := New(config.ProviderConfig{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})

	_, err := client.MemoryIssues(context.Background())
	require.Error(t, err)

	var upstream *httperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 0, upstream.StatusCode)
	assert.NotEmpty(t, upstream.Message)
}
