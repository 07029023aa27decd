package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"triplewhale-order-proxy/pkg/lambda"
)

// internalErrorBody is sent when a response cannot be encoded
const internalErrorBody = `{"error":"Internal server error"}`

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	Method        string   `json:"method,omitempty"`
	RawBody       *string  `json:"raw_body,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	RequestID     string   `json:"request_id,omitempty"`
}

// jsonResponse encodes v and attaches the given headers plus Content-Type
func jsonResponse(status int, headers map[string]string, v interface{}) *lambda.Response {
	out := make(map[string]string, len(headers)+1)
	for k, val := range headers {
		out[k] = val
	}
	out["Content-Type"] = "application/json"

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return &lambda.Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    out,
			Body:       []byte(internalErrorBody),
		}
	}

	return &lambda.Response{
		StatusCode: status,
		Headers:    out,
		Body:       bytes.TrimRight(buf.Bytes(), "\n"),
	}
}

// emptyResponse has no body and no Content-Type
func emptyResponse(status int, headers map[string]string) *lambda.Response {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return &lambda.Response{StatusCode: status, Headers: out, Body: []byte{}}
}

// fromGin converts a gin request into the framework-neutral Request
func fromGin(c *gin.Context) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}

	query := make(map[string]string)
	for k := range c.Request.URL.Query() {
		query[k] = c.Query(k)
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		HasBody:     len(body) > 0,
	}, nil
}

// writeGin writes a framework-neutral Response through gin
func writeGin(c *gin.Context, resp *lambda.Response) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}

	if len(resp.Body) == 0 {
		c.Status(resp.StatusCode)
		c.Writer.WriteHeaderNow()
		return
	}

	c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
}
