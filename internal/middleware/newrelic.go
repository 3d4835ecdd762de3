package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicReference returns middleware that tags the New Relic transaction
// with the request's reference id so error responses can be looked up in APM.
// Register it after nrgin.Middleware and RequestID.
func NewRelicReference() gin.HandlerFunc {
	return func(c *gin.Context) {
		if txn := nrgin.Transaction(c); txn != nil {
			txn.AddAttribute("referenceId", GetRequestID(c))
		}
		c.Next()
	}
}
