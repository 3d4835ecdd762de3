package handler

// Event is the inbound ride request as delivered by the hosting platform.
// Path and HTTPMethod are carried for logging only.
type Event struct {
	Path           string
	HTTPMethod     string
	RequestContext RequestContext
	Body           string
}

// RequestContext carries per-invocation metadata.
type RequestContext struct {
	// RequestID identifies the invocation and is echoed as the error Reference.
	RequestID string

	// Authorizer is nil when no identity layer vouched for the caller.
	Authorizer *Authorizer
}

// Authorizer holds the claims attached by the upstream identity layer.
type Authorizer struct {
	Claims map[string]any
}

// Response is the outbound result of a single invocation.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}
