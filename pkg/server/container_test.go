package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triplewhale-order-proxy/internal/config"
	"triplewhale-order-proxy/pkg/lambda"
)

func testConfig(url, key string) *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		Log:         config.LogConfig{Level: "error", Format: "json"},
		Upstream: config.UpstreamConfig{
			URL:     url,
			APIKey:  key,
			Timeout: 5 * time.Second,
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(config.DefaultUpstreamURL, "key"))
	require.NoError(t, err)
	require.NotNil(t, container)

	assert.NotNil(t, container.Logger)
	assert.NotNil(t, container.Metrics)
	assert.NotNil(t, container.Proxy)
	assert.NotNil(t, container.OrderHandler)
	assert.NotNil(t, container.DebugHandler)
	assert.True(t, container.Proxy.Configured())

	rc := container.RouterConfig()
	assert.Same(t, container.OrderHandler, rc.OrderHandler)
	assert.NotNil(t, rc.MetricsHandler)

	assert.NoError(t, container.Close())
}

func TestNewContainerRequiresConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

// TestContainerWithoutAPIKey verifies a missing key is reported per request
func TestContainerWithoutAPIKey(t *testing.T) {
	container, err := NewContainer(testConfig(config.DefaultUpstreamURL, ""))
	require.NoError(t, err)
	defer container.Close()

	resp := container.OrderHandler.Process(context.Background(), &lambda.Request{
		Method: http.MethodPost,
		Body:   []byte(`{"order_id":"1","customer":"A","order_revenue":1}`),
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestContainerEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	defer upstream.Close()

	container, err := NewContainer(testConfig(upstream.URL, "key"))
	require.NoError(t, err)
	defer container.Close()

	resp := container.OrderHandler.Process(context.Background(), &lambda.Request{
		Method: http.MethodPost,
		Body:   []byte(`{"order_id":"1","customer":"A","order_revenue":1}`),
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Contains(t, string(resp.Body), `"status":"queued"`)
}
