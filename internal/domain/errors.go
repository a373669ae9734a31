package domain

import (
	"errors"
	"fmt"
)

// Provider error codes the portal cares about. Anything else passes through verbatim.
const (
	CodeUserNotConfirmed    = "UserNotConfirmedException"
	CodeNotAuthorized       = "NotAuthorizedException"
	CodeNewPasswordRequired = "NewPasswordRequired"
	CodeNoSession           = "NoSession"
	CodeNoChallenge         = "NoPendingChallenge"
	CodeNetwork             = "NetworkError"
)

// ProviderError is a rejection from the identity provider, message forwarded as-is.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError without an underlying cause.
func NewProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// AsProviderError unwraps err into a *ProviderError if it holds one.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ErrorMessage returns the text the status store records for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := AsProviderError(err); ok {
		return pe.Message
	}
	return err.Error()
}
