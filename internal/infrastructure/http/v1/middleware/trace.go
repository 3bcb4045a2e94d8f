package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "minibooks/internal/core/context"
)

const HeaderRequestID = "X-Request-ID"

// Trace attaches a request ID to the context and response headers so log
// lines and error responses can be correlated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := appctx.WithTrace(c.Request.Context(), &appctx.TraceInfo{
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
