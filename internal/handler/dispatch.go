// Package handler turns inbound ride requests into responses. The same
// DispatchHandler serves the gin HTTP route and the Lambda entry point.
package handler

import (
	"context"
	"errors"
	"log/slog"

	"rydes/internal/domain"
	"rydes/internal/service"
)

// RideDispatcher is the business operation the handler depends on.
type RideDispatcher interface {
	Dispatch(ctx context.Context, req service.DispatchRequest) (*domain.Ride, error)
}

var _ RideDispatcher = (*service.DispatchService)(nil)

var errPanic = errors.New("panic while dispatching ride")

// DispatchHandler validates, dispatches and responds. It has exactly two
// exits: a 201 success or the uniform error response.
type DispatchHandler struct {
	validator  *RequestValidator
	dispatcher RideDispatcher
	responses  *ResponseBuilder
	log        *slog.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(
	validator *RequestValidator,
	dispatcher RideDispatcher,
	responses *ResponseBuilder,
	log *slog.Logger,
) *DispatchHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DispatchHandler{
		validator:  validator,
		dispatcher: dispatcher,
		responses:  responses,
		log:        log,
	}
}

// Handle processes one ride request. It never panics and never returns a
// response without a JSON body.
func (h *DispatchHandler) Handle(ctx context.Context, event Event) (resp Response) {
	reference := event.RequestContext.RequestID

	defer func() {
		if r := recover(); r != nil {
			h.log.ErrorContext(ctx, "recovered panic", "request_id", reference, "panic", r)
			resp = h.responses.Error(errPanic, reference)
		}
	}()

	req, err := h.validator.Validate(event)
	if err != nil {
		h.log.WarnContext(ctx, "rejected ride request",
			"request_id", reference,
			"method", event.HTTPMethod,
			"path", event.Path,
			"error", err,
		)
		return h.responses.Error(err, reference)
	}

	ride, err := h.dispatcher.Dispatch(ctx, req)
	if err != nil {
		h.log.ErrorContext(ctx, "dispatch failed",
			"request_id", reference,
			"error", err,
		)
		return h.responses.Error(err, reference)
	}

	return h.responses.Success(ride)
}

// reject answers a request whose body could not be read. A missing
// authorization is still reported ahead of the body problem.
func (h *DispatchHandler) reject(ctx context.Context, event Event, bodyErr error) Response {
	reference := event.RequestContext.RequestID

	err := bodyErr
	if _, authErr := h.validator.ExtractAuth(event); authErr != nil {
		err = authErr
	}

	h.log.WarnContext(ctx, "rejected ride request",
		"request_id", reference,
		"method", event.HTTPMethod,
		"path", event.Path,
		"error", err,
	)
	return h.responses.Error(err, reference)
}
