package lambda

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:            "post",
		Path:                  "/.netlify/functions/orders",
		Headers:               map[string]string{"content-type": "application/json"},
		QueryStringParameters: map[string]string{"debug": "1"},
		Body:                  `{"order_id":"1"}`,
	}

	req := FromAPIGateway(event)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/.netlify/functions/orders", req.Path)
	assert.Equal(t, `{"order_id":"1"}`, string(req.Body))
	assert.True(t, req.HasBody)
	assert.Equal(t, "1", req.QueryParams["debug"])
}

func TestFromAPIGatewayBase64(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
		IsBase64Encoded: true,
	}

	req := FromAPIGateway(event)
	assert.Equal(t, `{"a":1}`, string(req.Body))
	assert.NoError(t, req.BodyErr)
}

func TestFromAPIGatewayBadBase64(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Body:            "not*base64!",
		IsBase64Encoded: true,
	}

	req := FromAPIGateway(event)
	assert.True(t, errors.Is(req.BodyErr, ErrBodyEncoding))
	assert.Equal(t, "not*base64!", string(req.Body))
	assert.True(t, req.HasBody)
}

func TestFromAPIGatewayNoBody(t *testing.T) {
	req := FromAPIGateway(events.APIGatewayProxyRequest{HTTPMethod: "GET"})
	assert.False(t, req.HasBody)
	assert.Empty(t, req.Body)
}

func TestRequestHeader(t *testing.T) {
	req := &Request{Headers: map[string]string{"Content-Type": "application/json", "x-api-key": "k"}}

	assert.Equal(t, "application/json", req.Header("content-type"))
	assert.Equal(t, "k", req.Header("X-API-Key"))
	assert.Empty(t, req.Header("Authorization"))
}

func TestToAPIGateway(t *testing.T) {
	resp := &Response{
		StatusCode: 201,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"ok":true}`),
	}

	out := resp.ToAPIGateway()
	assert.Equal(t, 201, out.StatusCode)
	assert.Equal(t, `{"ok":true}`, out.Body)
	assert.Equal(t, "application/json", out.Headers["Content-Type"])
}
