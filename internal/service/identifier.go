package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// rideIDBytes is the amount of entropy in a ride id (128 bits).
const rideIDBytes = 16

// IDGenerator manufactures ride ids: 16 random bytes encoded with the
// URL-safe base64 alphabet and no padding, giving 22 characters.
type IDGenerator struct {
	entropy io.Reader
}

// NewIDGenerator creates an IDGenerator reading from entropy.
// A nil entropy source means crypto/rand.Reader. The reader must be safe for
// concurrent use if the generator is shared between requests.
func NewIDGenerator(entropy io.Reader) *IDGenerator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &IDGenerator{entropy: entropy}
}

// NewRideID returns a fresh ride id.
func (g *IDGenerator) NewRideID() (string, error) {
	buf := make([]byte, rideIDBytes)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
