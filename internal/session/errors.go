package session

import (
	"account_portal/internal/domain"
)

// Messages the portal itself produces. Provider messages are passed through untouched.
const (
	UserNotConfirmedMessage    = "User is not confirmed."
	NewPasswordRequiredMessage = "New password required."
	NotAuthenticatedMessage    = "The user is not authenticated"
	NoChallengeMessage         = "No new password is pending for this session. Please sign in again."
)

// RequiresConfirmation reports whether a sign-in failed because the account
// has not been confirmed yet. This is the only place the provider's wording
// is matched.
func RequiresConfirmation(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := domain.AsProviderError(err); ok && pe.Code == domain.CodeUserNotConfirmed {
		return true
	}
	return domain.ErrorMessage(err) == UserNotConfirmedMessage
}

// RequiresNewPassword reports whether sign-in stopped at a NEW_PASSWORD_REQUIRED challenge.
func RequiresNewPassword(err error) bool {
	pe, ok := domain.AsProviderError(err)
	return ok && pe.Code == domain.CodeNewPasswordRequired
}
