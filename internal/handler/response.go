package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"rydes/internal/domain"
	"rydes/internal/service"
)

// Eta is the placeholder arrival estimate returned with every ride.
const Eta = "30 seconds"

const internalErrorMessage = "internal server error"

// RideResponse is the success body.
type RideResponse struct {
	RideID  string         `json:"RideId"`
	Unicorn domain.Unicorn `json:"Unicorn"`
	Eta     string         `json:"Eta"`
	Rider   string         `json:"Rider"`
}

// ErrorResponse is the failure body. Reference is the invocation's request
// id, never the ride id.
type ErrorResponse struct {
	Error     string `json:"Error"`
	Reference string `json:"Reference"`
}

// ResponseBuilder shapes success and error responses.
type ResponseBuilder struct {
	distinctAuthStatus bool
}

// NewResponseBuilder creates a ResponseBuilder. With distinctAuthStatus a
// missing authorization is answered with 401 rather than 500.
func NewResponseBuilder(distinctAuthStatus bool) *ResponseBuilder {
	return &ResponseBuilder{distinctAuthStatus: distinctAuthStatus}
}

// Success returns a 201 response describing the dispatched ride.
func (b *ResponseBuilder) Success(ride *domain.Ride) Response {
	return respond(http.StatusCreated, RideResponse{
		RideID:  ride.RideID,
		Unicorn: ride.Unicorn,
		Eta:     Eta,
		Rider:   ride.User,
	})
}

// Error returns the uniform error response for err.
func (b *ResponseBuilder) Error(err error, reference string) Response {
	return respond(b.mapErrorToHTTPStatus(err), ErrorResponse{
		Error:     errorMessage(err),
		Reference: reference,
	})
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func (b *ResponseBuilder) mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthorizationMissing):
		if b.distinctAuthStatus {
			return http.StatusUnauthorized
		}
		return http.StatusInternalServerError

	case errors.Is(err, service.ErrMalformedRequestBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the caller-visible text for err. Unclassified errors
// are reported generically.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAuthorizationMissing),
		errors.Is(err, service.ErrMalformedRequestBody),
		errors.Is(err, service.ErrPersistenceFailure):
		return err.Error()
	default:
		return internalErrorMessage
	}
}

func respond(code int, body any) Response {
	data, err := json.Marshal(body)
	if err != nil {
		code = http.StatusInternalServerError
		data = []byte(`{"Error":"` + internalErrorMessage + `","Reference":""}`)
	}

	return Response{
		StatusCode: code,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
			"Content-Type":                "application/json",
		},
		Body: string(data),
	}
}
