package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rydes/internal/domain"
	"rydes/internal/service"
)

// RequestValidator extracts the caller and pickup location from an Event.
type RequestValidator struct {
	identityClaim string
}

// NewRequestValidator creates a validator reading the username from identityClaim.
func NewRequestValidator(identityClaim string) *RequestValidator {
	return &RequestValidator{identityClaim: identityClaim}
}

// Validate checks authorization first and only then decodes the body.
func (v *RequestValidator) Validate(event Event) (service.DispatchRequest, error) {
	auth, err := v.ExtractAuth(event)
	if err != nil {
		return service.DispatchRequest{}, err
	}

	pickup, err := ParsePickup(event.Body)
	if err != nil {
		return service.DispatchRequest{}, err
	}

	return service.DispatchRequest{
		Auth:      auth,
		Pickup:    pickup,
		RequestID: event.RequestContext.RequestID,
	}, nil
}

// ExtractAuth returns the caller named by the identity claim.
func (v *RequestValidator) ExtractAuth(event Event) (domain.AuthContext, error) {
	authorizer := event.RequestContext.Authorizer
	if authorizer == nil || len(authorizer.Claims) == 0 {
		return domain.AuthContext{}, service.ErrAuthorizationMissing
	}

	username, _ := authorizer.Claims[v.identityClaim].(string)
	if username == "" {
		return domain.AuthContext{}, service.ErrAuthorizationMissing
	}

	return domain.AuthContext{Username: username}, nil
}

// ParsePickup decodes the pickup location from a JSON request body of the
// form {"PickupLocation":{"Latitude":n,"Longitude":n}}. Member names are
// matched exactly; a null member counts as missing.
func ParsePickup(body string) (domain.PickupLocation, error) {
	if strings.TrimSpace(body) == "" {
		return domain.PickupLocation{}, malformed("body is required")
	}

	var req map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return domain.PickupLocation{}, decodeError("body", "a JSON object", err)
	}

	var loc map[string]json.RawMessage
	if err := member(req, "PickupLocation", "PickupLocation", "a JSON object", &loc); err != nil {
		return domain.PickupLocation{}, err
	}

	var pickup domain.PickupLocation
	if err := member(loc, "Latitude", "PickupLocation.Latitude", "a number", &pickup.Latitude); err != nil {
		return domain.PickupLocation{}, err
	}
	if err := member(loc, "Longitude", "PickupLocation.Longitude", "a number", &pickup.Longitude); err != nil {
		return domain.PickupLocation{}, err
	}

	return pickup, nil
}

// member decodes obj[name] into dst. path names the member in error messages.
func member(obj map[string]json.RawMessage, name, path, want string, dst any) error {
	raw, ok := obj[name]
	if !ok || string(raw) == "null" {
		return malformed(path + " is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return decodeError(path, want, err)
	}
	return nil
}

func decodeError(path, want string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return malformed("body is not valid JSON")
	}
	// A number too large for a float64 is reported as "number <literal>".
	if strings.HasPrefix(typeErr.Value, "number ") {
		return malformed(path + " is out of range")
	}
	return malformed(path + " must be " + want)
}

func malformed(detail string) error {
	return fmt.Errorf("%w: %s", service.ErrMalformedRequestBody, detail)
}
