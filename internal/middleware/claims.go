package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "authorizerClaims"

// AuthorizerClaims returns middleware that exposes the claims of the bearer
// token forwarded by the upstream identity layer.
//
// The token has already been verified upstream, so its signature is not
// checked here. A missing or undecodable token leaves no claims in the
// context; rejecting the request is the handler's decision.
func AuthorizerClaims() gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw != "" {
			claims := jwt.MapClaims{}
			if _, _, err := parser.ParseUnverified(raw, claims); err == nil && len(claims) > 0 {
				c.Set(claimsKey, map[string]any(claims))
			}
		}
		c.Next()
	}
}

// GetClaims returns the claims stored by AuthorizerClaims.
func GetClaims(c *gin.Context) (map[string]any, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(map[string]any)
	return claims, ok
}

// bearerToken accepts both "Bearer <token>" and a bare token, which is how
// some gateways forward identity tokens.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
