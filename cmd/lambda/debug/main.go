package main

import (
	"context"

	"triplewhale-order-proxy/internal/config"
	"triplewhale-order-proxy/internal/handlers"
	"triplewhale-order-proxy/pkg/lambda"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
)

var debugHandler *handlers.DebugHandler

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	debugHandler = handlers.NewDebugHandler(cfg.Upstream.APIKey, config.GetServerlessConfig())
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := debugHandler.HandleDebug(ctx, lambda.FromAPIGateway(event))
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "Internal server error"}`,
		}, nil
	}

	return resp.ToAPIGateway(), nil
}

func main() {
	awslambda.Start(handler)
}
