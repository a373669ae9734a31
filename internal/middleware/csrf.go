// File: internal/middleware/csrf.go
package middleware

import (
	"net/http"

	"account_portal/internal/common"
	"account_portal/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CSRF requires unsafe requests to echo the visitor's token, either in the
// _token form field or the X-CSRF-Token header.
func CSRF(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		v := VisitorFromContext(c)
		submitted := c.GetHeader(common.CSRFHeader)
		if submitted == "" {
			submitted = c.PostForm(common.CSRFFormField)
		}
		if v == nil || !crypto.EqualTokens(v.CSRFToken, submitted) {
			logger.Warn("CSRF token mismatch",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			common.RespondWithError(c, common.ErrForbidden.WithDetails("Invalid or missing CSRF token."))
			return
		}
		c.Next()
	}
}
