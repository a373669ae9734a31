package session

import (
	"errors"
	"testing"

	"account_portal/internal/domain"

	"github.com/stretchr/testify/assert"
)

// Provider wording pinned here; RequiresConfirmation is the only consumer.
func TestRequiresConfirmation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"structured code", &domain.ProviderError{Code: domain.CodeUserNotConfirmed, Message: "anything"}, true},
		{"exact provider text", &domain.ProviderError{Code: "Other", Message: "User is not confirmed."}, true},
		{"plain error with exact text", errors.New("User is not confirmed."), true},
		{"similar text", &domain.ProviderError{Message: "User is not confirmed"}, false},
		{"different failure", &domain.ProviderError{Code: domain.CodeNotAuthorized, Message: "Incorrect username or password."}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RequiresConfirmation(tc.err))
		})
	}
}

func TestRequiresNewPassword(t *testing.T) {
	assert.True(t, RequiresNewPassword(domain.NewProviderError(domain.CodeNewPasswordRequired, NewPasswordRequiredMessage)))
	assert.False(t, RequiresNewPassword(errors.New(NewPasswordRequiredMessage)))
	assert.False(t, RequiresNewPassword(nil))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "123456", NormalizeCode("123-456"))
	assert.Equal(t, "123456", NormalizeCode(" 12 34 56 "))
	assert.Equal(t, "", NormalizeCode("abc"))
}
