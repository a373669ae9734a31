// File: internal/common/context_keys.go
package common

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "requestID"
	// VisitorKey is the gin context key for the current *visitor.Visitor.
	VisitorKey = "visitor"
	// LoggerKey is the gin context key for a request-scoped *zap.Logger.
	LoggerKey = "logger"
	// CSRFFormField is the hidden form field carrying the visitor's CSRF token.
	CSRFFormField = "_token"
	// CSRFHeader is accepted instead of the form field for script clients.
	CSRFHeader = "X-CSRF-Token"
)
