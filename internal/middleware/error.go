// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"account_portal/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler converts errors attached with c.Error into the JSON envelope.
// When the handler already wrote a response (a redirect or a page), the
// errors are only logged.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			log := RequestLogger(c, logger)
			if c.Writer.Written() {
				for _, ginErr := range c.Errors {
					log.Error("Error after response was written",
						zap.Error(ginErr.Err),
						zap.String("path", c.Request.URL.Path),
						zap.Int("status", c.Writer.Status()),
					)
				}
				return
			}

			ginErr := c.Errors.Last()
			if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
				return
			}

			log.Error("Unhandled application error",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.Any("meta", ginErr.Meta),
				zap.String("request_id", c.GetString(common.RequestIDKey)),
			)
			genericError := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
			if gin.Mode() == gin.DebugMode {
				genericError.Details = ginErr.Err.Error()
			}
			c.AbortWithStatusJSON(genericError.StatusCode, genericError)
			return
		}

		if c.Writer.Status() == http.StatusMethodNotAllowed && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, common.ErrMethodNotAllowed)
		}
	}
}
