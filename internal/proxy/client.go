// Package proxy forwards validated orders to the TripleWhale order API.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"triplewhale-order-proxy/internal/metrics"
	"triplewhale-order-proxy/internal/models"
)

// DefaultEndpoint is the TripleWhale order ingestion endpoint
const DefaultEndpoint = "https://api.triplewhale.com/api/v2/data-in/orders"

// Outbound header names
const (
	HeaderAPIKey    = "x-api-key"
	HeaderRequestID = "x-request-id"
)

// RequestIDKey is the envelope field carrying the correlation ID
const RequestIDKey = "request_id"

// ClientConfig configures the upstream client
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	NewID      func() string
	Recorder   metrics.Recorder
}

// Result is the normalized upstream response
type Result struct {
	StatusCode int
	Body       map[string]interface{}
	RequestID  string
	// NonJSON is set when Body wraps raw text under "raw"
	NonJSON bool
}

// Envelope returns the upstream body with the correlation ID merged in
func (r *Result) Envelope() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Body)+1)
	for k, v := range r.Body {
		out[k] = v
	}
	out[RequestIDKey] = r.RequestID
	return out
}

// Forwarder sends an order upstream
type Forwarder interface {
	Forward(ctx context.Context, payload models.OrderPayload) (*Result, error)
}

// Client is the TripleWhale order API client. It never retries.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	newID      func() string
	recorder   metrics.Recorder
	logger     logrus.FieldLogger
}

// NewClient creates a new Client
func NewClient(cfg ClientConfig, logger logrus.FieldLogger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.NewID == nil {
		cfg.NewID = NewRequestID
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		newID:      cfg.NewID,
		recorder:   cfg.Recorder,
		logger:     logger,
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Forward posts the payload to the order API once and normalizes the reply.
// Any upstream status is a successful Result; only transport failures error.
func (c *Client) Forward(ctx context.Context, payload models.OrderPayload) (*Result, error) {
	if !c.Configured() {
		c.logger.Error("TripleWhale API key is not configured")
		return nil, ErrConfiguration
	}

	requestID := c.newID()
	log := c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   payload.OrderID(),
	})
	log.Info("Processing order")

	body, err := payload.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build upstream request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("Error calling TripleWhale API")
		return nil, NewUpstreamError(requestID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		log.WithError(err).Error("Error reading TripleWhale API response")
		return nil, NewUpstreamError(requestID, err)
	}
	c.recorder.RecordUpstream(resp.StatusCode, elapsed)

	result := &Result{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}
	result.Body, result.NonJSON = decodeUpstreamBody(raw)

	fields := logrus.Fields{
		"status_code":   resp.StatusCode,
		"latency_ms":    float64(elapsed.Nanoseconds()) / 1000000,
		"response_size": len(raw),
	}
	if result.NonJSON {
		log.WithFields(fields).Warn("Non-JSON response from TripleWhale")
	}
	log.WithFields(fields).Info("TripleWhale API responded")

	return result, nil
}

// decodeUpstreamBody parses a JSON object body. Empty bodies become an empty
// object; anything else is wrapped as {"raw": text}.
func decodeUpstreamBody(raw []byte) (map[string]interface{}, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]interface{}{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err == nil && obj != nil && !dec.More() {
		return obj, false
	}

	return map[string]interface{}{"raw": string(raw)}, true
}
