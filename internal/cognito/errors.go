package cognito

import (
	"errors"

	"account_portal/internal/domain"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// providerError turns an SDK failure into a ProviderError, keeping the pool's
// error code and message text untouched.
func (s *Service) providerError(op, username string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.ErrorMessage()
		if msg == "" {
			msg = apiErr.ErrorCode()
		}
		s.logger.Warn("Cognito rejected request",
			zap.String("operation", op),
			zap.String("username", username),
			zap.String("code", apiErr.ErrorCode()),
			zap.String("message", msg),
		)
		return &domain.ProviderError{Code: apiErr.ErrorCode(), Message: msg, Err: err}
	}

	s.logger.Error("Cognito request failed", zap.String("operation", op), zap.String("username", username), zap.Error(err))
	return &domain.ProviderError{Code: domain.CodeNetwork, Message: err.Error(), Err: err}
}
