package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rydes/internal/middleware"
)

// MaxRequestBodyBytes caps the ride request body read over HTTP.
const MaxRequestBodyBytes = 16 << 10

// RequestRide handles POST /ride.
func (h *DispatchHandler) RequestRide(c *gin.Context) {
	var resp Response

	event, err := EventFromGin(c)
	if err != nil {
		resp = h.reject(c.Request.Context(), event, err)
	} else {
		resp = h.Handle(c.Request.Context(), event)
	}

	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}

// EventFromGin builds an Event from an HTTP request. Claims and the request id
// come from the AuthorizerClaims and RequestID middleware. A body larger than
// MaxRequestBodyBytes or one that cannot be read yields a malformed-body error
// together with the Event built so far.
func EventFromGin(c *gin.Context) (Event, error) {
	event := Event{
		Path:       c.Request.URL.Path,
		HTTPMethod: c.Request.Method,
		RequestContext: RequestContext{
			RequestID: middleware.GetRequestID(c),
		},
	}

	if claims, ok := middleware.GetClaims(c); ok {
		event.RequestContext.Authorizer = &Authorizer{Claims: claims}
	}

	if c.Request.Body == nil {
		return event, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return event, malformed(fmt.Sprintf("body exceeds %d bytes", MaxRequestBodyBytes))
		}
		return event, malformed("body could not be read")
	}

	event.Body = string(body)
	return event, nil
}
