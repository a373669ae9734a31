// File: internal/middleware/auth.go
package middleware

import (
	"account_portal/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireSignedIn rejects requests whose visitor holds no provider tokens.
// It must run after VisitorSessions.Middleware.
func RequireSignedIn(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := VisitorFromContext(c)
		if v == nil || !v.Credentials.Active() {
			logger.Debug("Visitor not signed in", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("The user is not authenticated"))
			return
		}
		c.Next()
	}
}
