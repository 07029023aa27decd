package lambda

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// ErrBodyEncoding is set on a Request whose base64 body could not be decoded
var ErrBodyEncoding = errors.New("request body is not valid base64")

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	// HasBody is false when the platform delivered no body at all
	HasBody bool `json:"has_body"`
	// BodyErr wraps ErrBodyEncoding when Body still holds the encoded text
	BodyErr error `json:"-"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(req *Request) (*Response, error)

// Header returns a request header value, ignoring case
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// FromAPIGateway converts an API Gateway proxy event into a Request
func FromAPIGateway(event events.APIGatewayProxyRequest) *Request {
	body := []byte(event.Body)
	var bodyErr error
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			bodyErr = fmt.Errorf("%w: %v", ErrBodyEncoding, err)
		} else {
			body = decoded
		}
	}

	return &Request{
		Method:      strings.ToUpper(event.HTTPMethod),
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		HasBody:     event.Body != "",
		BodyErr:     bodyErr,
	}
}

// ToAPIGateway converts a Response into an API Gateway proxy response
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}
