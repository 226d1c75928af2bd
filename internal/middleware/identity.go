package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// The gateway authenticates the session and forwards the resulting user id
// in this header. The core trusts it without re-validating credentials;
// absence means an anonymous caller.
const userIDHeader = "X-User-ID"

const identityKey = "shortify.owner_id"

// Identity lifts the gateway-supplied owner id into the gin context so
// handlers can thread it through core operations as an explicit parameter.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(userIDHeader); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// OwnerFromContext returns the authenticated owner id, or nil for
// anonymous requests.
func OwnerFromContext(c *gin.Context) *int64 {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(int64); ok {
			return &id
		}
	}
	return nil
}
