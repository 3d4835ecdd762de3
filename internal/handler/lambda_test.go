package handler_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rydes/internal/handler"
)

func proxyRequest(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		Path:       "/ride",
		HTTPMethod: http.MethodPost,
		Body:       body,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "gateway-req-1",
			Authorizer: map[string]interface{}{
				"claims": map[string]interface{}{identityClaim: "the_username"},
			},
		},
	}
}

func TestLambdaAdapter_Handle_Created(t *testing.T) {
	repo := &spyRideRepository{}
	adapter := handler.NewLambdaAdapter(newHandler(t, repo, false))

	resp, err := adapter.Handle(context.Background(), proxyRequest(validBody))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "the_username", decodeRide(t, resp.Body).Rider)
	assert.Len(t, repo.Rides(), 1)
}

func TestLambdaAdapter_Handle_ReferenceIsInvocationID(t *testing.T) {
	repo := &spyRideRepository{PutError: errors.New("table unavailable")}
	adapter := handler.NewLambdaAdapter(newHandler(t, repo, false))
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "aws-req-9"})

	resp, err := adapter.Handle(ctx, proxyRequest(validBody))

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, handler.ErrorResponse{Error: "table unavailable", Reference: "aws-req-9"}, decodeError(t, resp.Body))
}

func TestLambdaAdapter_Handle_NoAuthorizer(t *testing.T) {
	repo := &spyRideRepository{}
	adapter := handler.NewLambdaAdapter(newHandler(t, repo, false))
	req := proxyRequest(validBody)
	req.RequestContext.Authorizer = nil

	resp, err := adapter.Handle(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, handler.ErrorResponse{Error: "Authorization not configured", Reference: "gateway-req-1"}, decodeError(t, resp.Body))
	assert.Zero(t, repo.PutCallCount)
}

func TestEventFromAPIGateway_Base64Body(t *testing.T) {
	req := proxyRequest(base64.StdEncoding.EncodeToString([]byte(validBody)))
	req.IsBase64Encoded = true

	event := handler.EventFromAPIGateway(context.Background(), req)

	assert.Equal(t, validBody, event.Body)
	assert.Equal(t, "gateway-req-1", event.RequestContext.RequestID)
	require.NotNil(t, event.RequestContext.Authorizer)
	assert.Equal(t, "the_username", event.RequestContext.Authorizer.Claims[identityClaim])
}

func TestEventFromAPIGateway_InvalidBase64(t *testing.T) {
	req := proxyRequest("%%%")
	req.IsBase64Encoded = true

	event := handler.EventFromAPIGateway(context.Background(), req)

	assert.Empty(t, event.Body)
}

func TestEventFromAPIGateway_AuthorizerWithoutClaims(t *testing.T) {
	req := proxyRequest(validBody)
	req.RequestContext.Authorizer = map[string]interface{}{"principalId": "abc"}

	event := handler.EventFromAPIGateway(context.Background(), req)

	require.NotNil(t, event.RequestContext.Authorizer)
	assert.Empty(t, event.RequestContext.Authorizer.Claims)
}
