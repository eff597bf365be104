package middleware

import (
	"guidewizard/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

// RequestLoggerMiddleware tags the request with an id and stores a request-scoped logger as "logger".
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Set("logger", utils.GetLogger().With(
			zap.String("request_id", requestID),
			zap.String("client_ip", c.ClientIP()),
		))
		c.Next()
	}
}
