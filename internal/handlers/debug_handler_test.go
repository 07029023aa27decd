package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triplewhale-order-proxy/internal/config"
	"triplewhale-order-proxy/pkg/lambda"
)

func TestDebugProcess(t *testing.T) {
	h := NewDebugHandler("abcdef", &config.ServerlessConfig{
		IsLambda:        true,
		FunctionName:    "debug",
		FunctionVersion: "$LATEST",
	})
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "inv-42"})
	resp := h.Process(ctx, &lambda.Request{
		Method:      http.MethodGet,
		Path:        "/.netlify/functions/debug",
		Headers:     map[string]string{"accept": "application/json"},
		QueryParams: map[string]string{"q": "1"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body DebugResponse
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "Debug function is working!", body.Message)
	assert.Equal(t, "2024-05-01T12:30:00.000Z", body.Timestamp)
	assert.Equal(t, "/.netlify/functions/debug", body.Event.Path)
	assert.Equal(t, http.MethodGet, body.Event.HTTPMethod)
	assert.Equal(t, "application/json", body.Event.Headers["accept"])
	assert.Equal(t, "1", body.Event.QueryStringParameters["q"])
	assert.Equal(t, "(no body)", body.Event.Body)

	assert.True(t, body.Environment.APIKeySet)
	assert.Equal(t, 6, body.Environment.APIKeyLength)
	assert.Equal(t, runtime.Version(), body.Environment.GoVersion)
	assert.Equal(t, "debug", body.Environment.FunctionName)
	assert.Equal(t, "$LATEST", body.Environment.FunctionVersion)
	assert.Equal(t, "inv-42", body.Environment.InvocationID)
	assert.Equal(t, "serverless", body.Environment.DeploymentMode)

	assert.NotContains(t, string(resp.Body), "abcdef")
}

func TestDebugProcessWithoutKey(t *testing.T) {
	h := NewDebugHandler("", nil)

	for _, method := range []string{http.MethodPost, http.MethodOptions, http.MethodDelete} {
		resp := h.Process(context.Background(), &lambda.Request{Method: method, Body: []byte("x"), HasBody: true})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body DebugResponse
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.False(t, body.Environment.APIKeySet)
		assert.Equal(t, 0, body.Environment.APIKeyLength)
		assert.Equal(t, "(body received)", body.Event.Body)
		assert.Equal(t, "server", body.Environment.DeploymentMode)
	}
}

func TestDebugGin(t *testing.T) {
	h := NewDebugHandler("key", nil)
	router := gin.New()
	router.Any("/api/debug", h.Debug)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/debug?x=y", strings.NewReader("hello")))

	assert.Equal(t, http.StatusOK, w.Code)

	var body DebugResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/debug", body.Event.Path)
	assert.Equal(t, "y", body.Event.QueryStringParameters["x"])
	assert.Equal(t, "(body received)", body.Event.Body)
}
