package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"

	"triplewhale-order-proxy/internal/config"
	"triplewhale-order-proxy/internal/middleware"
	"triplewhale-order-proxy/pkg/lambda"
)

// DebugResponse is the diagnostics payload
type DebugResponse struct {
	Message     string           `json:"message"`
	Timestamp   string           `json:"timestamp"`
	Event       DebugEvent       `json:"event"`
	Environment DebugEnvironment `json:"environment"`
}

// DebugEvent echoes the inbound request
type DebugEvent struct {
	Path                  string            `json:"path"`
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
}

// DebugEnvironment summarizes the runtime and whether the API key is set
type DebugEnvironment struct {
	APIKeySet       bool   `json:"apiKeySet"`
	APIKeyLength    int    `json:"apiKeyLength"`
	GoVersion       string `json:"goVersion"`
	FunctionName    string `json:"functionName,omitempty"`
	FunctionVersion string `json:"functionVersion,omitempty"`
	InvocationID    string `json:"invocationId,omitempty"`
	DeploymentMode  string `json:"deploymentMode"`
}

// DebugHandler reports request metadata and configuration presence
type DebugHandler struct {
	apiKey     string
	serverless *config.ServerlessConfig
	now        func() time.Time
}

// NewDebugHandler creates a new debug handler. Only the length of apiKey is
// ever reported.
func NewDebugHandler(apiKey string, serverless *config.ServerlessConfig) *DebugHandler {
	if serverless == nil {
		serverless = &config.ServerlessConfig{}
	}
	return &DebugHandler{
		apiKey:     apiKey,
		serverless: serverless,
		now:        time.Now,
	}
}

// HandleDebug handles diagnostics for Lambda
func (h *DebugHandler) HandleDebug(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.Process(ctx, req), nil
}

// Debug handles diagnostics for the gin server
// @Summary Echo request diagnostics
// @Description Echo the inbound request and report whether the API key is configured
// @Tags debug
// @Produce json
// @Success 200 {object} DebugResponse
// @Router /api/debug [get]
func (h *DebugHandler) Debug(c *gin.Context) {
	req, err := fromGin(c)
	if err != nil {
		req = &lambda.Request{Method: c.Request.Method, Path: c.Request.URL.Path}
	}
	writeGin(c, h.Process(c.Request.Context(), req))
}

// Process builds the diagnostics response. It always answers 200.
func (h *DebugHandler) Process(ctx context.Context, req *lambda.Request) *lambda.Response {
	body := "(no body)"
	if req.HasBody {
		body = "(body received)"
	}

	env := DebugEnvironment{
		APIKeySet:       h.apiKey != "",
		APIKeyLength:    len(h.apiKey),
		GoVersion:       runtime.Version(),
		FunctionName:    h.serverless.FunctionName,
		FunctionVersion: h.serverless.FunctionVersion,
		DeploymentMode:  h.serverless.DeploymentMode(),
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		env.InvocationID = lc.AwsRequestID
	}

	return jsonResponse(http.StatusOK, middleware.DebugCORSHeaders(), DebugResponse{
		Message:   "Debug function is working!",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Event: DebugEvent{
			Path:                  req.Path,
			HTTPMethod:            req.Method,
			Headers:               req.Headers,
			QueryStringParameters: req.QueryParams,
			Body:                  body,
		},
		Environment: env,
	})
}
