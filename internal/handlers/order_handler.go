package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"triplewhale-order-proxy/internal/metrics"
	"triplewhale-order-proxy/internal/middleware"
	"triplewhale-order-proxy/internal/models"
	"triplewhale-order-proxy/internal/proxy"
	"triplewhale-order-proxy/pkg/lambda"
)

// OrderHandler validates inbound orders and forwards them to the order API
type OrderHandler struct {
	forwarder proxy.Forwarder
	recorder  metrics.Recorder
	logger    logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(forwarder proxy.Forwarder, recorder metrics.Recorder, logger logrus.FieldLogger) *OrderHandler {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OrderHandler{
		forwarder: forwarder,
		recorder:  recorder,
		logger:    logger,
	}
}

// HandleOrders handles the order proxy for Lambda
func (h *OrderHandler) HandleOrders(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return h.Process(ctx, req), nil
}

// Orders handles the order proxy for the gin server
// @Summary Forward an order
// @Description Validate an order payload and forward it once to TripleWhale. The upstream status is passed through.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body map[string]interface{} true "Order with order_id, customer and order_revenue"
// @Success 200 {object} map[string]interface{}
// @Success 204 "CORS pre-flight"
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/orders [post]
func (h *OrderHandler) Orders(c *gin.Context) {
	req, err := fromGin(c)
	if err != nil {
		h.recorder.RecordOutcome(metrics.OutcomeInternalError)
		writeGin(c, jsonResponse(http.StatusInternalServerError, middleware.OrderCORSHeaders(), ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		}))
		return
	}

	writeGin(c, h.Process(c.Request.Context(), req))
}

// Process runs one request through validation and forwarding. It always
// returns a response; panics become a 500.
func (h *OrderHandler) Process(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	log := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.WithField("aws_request_id", lc.AwsRequestID)
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Error("Unhandled error in orders function")
			h.recorder.RecordOutcome(metrics.OutcomeInternalError)
			resp = jsonResponse(http.StatusInternalServerError, middleware.OrderCORSHeaders(), ErrorResponse{
				Error:   "Internal server error",
				Message: fmt.Sprint(r),
			})
		}
	}()

	switch req.Method {
	case http.MethodOptions:
		h.recorder.RecordOutcome(metrics.OutcomePreflight)
		return emptyResponse(http.StatusNoContent, middleware.OrderCORSHeaders())
	case http.MethodPost:
	default:
		return h.fail(log, &proxy.MethodError{Method: req.Method}, req)
	}

	if req.BodyErr != nil {
		return h.fail(log, req.BodyErr, req)
	}

	payload, err := models.DecodeOrder(string(req.Body))
	if err != nil {
		return h.fail(log, err, req)
	}

	result, err := h.forwarder.Forward(ctx, payload)
	if err != nil {
		return h.fail(log, err, req)
	}

	h.recorder.RecordOutcome(metrics.OutcomeForwarded)
	return jsonResponse(result.StatusCode, middleware.OrderCORSHeaders(), result.Envelope())
}

// fail maps an error to its response body and status
func (h *OrderHandler) fail(log logrus.FieldLogger, err error, req *lambda.Request) *lambda.Response {
	status := proxy.StatusCode(err)
	body := ErrorResponse{}

	var (
		methodErr   *proxy.MethodError
		missingErr  *models.MissingFieldsError
		upstreamErr *proxy.UpstreamError
	)

	switch {
	case errors.As(err, &methodErr):
		h.recorder.RecordOutcome(metrics.OutcomeRejected)
		body.Error = "Method Not Allowed"
		body.Method = methodErr.Method
		log.WithField("method", methodErr.Method).Warn("Rejected request method")

	case errors.Is(err, lambda.ErrBodyEncoding):
		h.recorder.RecordOutcome(metrics.OutcomeRejected)
		status = http.StatusBadRequest
		body.Error = "Invalid request body encoding"
		body.Message = err.Error()
		log.WithError(err).Warn("Error decoding request body")

	case errors.Is(err, proxy.ErrMalformedPayload):
		h.recorder.RecordOutcome(metrics.OutcomeRejected)
		raw := string(req.Body)
		body.Error = "Invalid JSON in request body"
		body.Message = err.Error()
		body.RawBody = &raw
		log.WithError(err).Warn("Error parsing request body")

	case errors.As(err, &missingErr):
		h.recorder.RecordOutcome(metrics.OutcomeRejected)
		body.Error = "Missing required fields in payload"
		body.MissingFields = missingErr.Fields
		log.WithField("missing_fields", missingErr.Fields).Warn("Order rejected")

	case errors.Is(err, proxy.ErrConfiguration):
		h.recorder.RecordOutcome(metrics.OutcomeConfigError)
		body.Error = "API key configuration error"

	case errors.As(err, &upstreamErr):
		h.recorder.RecordOutcome(metrics.OutcomeUpstreamFailed)
		body.Error = "Error communicating with TripleWhale API"
		body.Message = upstreamErr.Message()
		body.RequestID = upstreamErr.RequestID

	default:
		h.recorder.RecordOutcome(metrics.OutcomeInternalError)
		body.Error = "Internal server error"
		body.Message = err.Error()
		log.WithError(err).Error("Unhandled error in orders function")
	}

	return jsonResponse(status, middleware.OrderCORSHeaders(), body)
}
