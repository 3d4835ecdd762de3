package handler

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaAdapter exposes a DispatchHandler as an API Gateway proxy function.
type LambdaAdapter struct {
	handler *DispatchHandler
}

// NewLambdaAdapter creates a new LambdaAdapter.
func NewLambdaAdapter(handler *DispatchHandler) *LambdaAdapter {
	return &LambdaAdapter{handler: handler}
}

// Handle is passed to lambda.Start. Failures are always reported in the
// response; the returned error is always nil.
func (a *LambdaAdapter) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp := a.handler.Handle(ctx, EventFromAPIGateway(ctx, req))

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// EventFromAPIGateway converts a proxy request. The reference id is the Lambda
// invocation id when available, falling back to the gateway's request id.
// Cognito user-pool authorizers nest the token claims under "claims".
func EventFromAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) Event {
	requestID := req.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			body = ""
		} else {
			body = string(decoded)
		}
	}

	event := Event{
		Path:       req.Path,
		HTTPMethod: req.HTTPMethod,
		Body:       body,
		RequestContext: RequestContext{
			RequestID: requestID,
		},
	}

	if req.RequestContext.Authorizer != nil {
		claims, _ := req.RequestContext.Authorizer["claims"].(map[string]any)
		event.RequestContext.Authorizer = &Authorizer{Claims: claims}
	}

	return event
}
