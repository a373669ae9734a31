// Package sessiontest provides a testify mock of session.IdentityProvider.
package sessiontest

import (
	"context"

	"account_portal/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock type for session.IdentityProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SignUp(ctx context.Context, username, password string, attrs domain.SignUpAttributes) error {
	args := m.Called(ctx, username, password, attrs)
	return args.Error(0)
}

func (m *MockProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	args := m.Called(ctx, username, code)
	return args.Error(0)
}

func (m *MockProvider) ResendSignUp(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockProvider) SignIn(ctx context.Context, username, password string) (*domain.SignInResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignInResult), args.Error(1)
}

func (m *MockProvider) ForgotPassword(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockProvider) ForgotPasswordSubmit(ctx context.Context, username, code, newPassword string) error {
	args := m.Called(ctx, username, code, newPassword)
	return args.Error(0)
}

func (m *MockProvider) CompleteNewPassword(ctx context.Context, username, challengeSession, newPassword string) (*domain.Tokens, error) {
	args := m.Called(ctx, username, challengeSession, newPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tokens), args.Error(1)
}

func (m *MockProvider) RefreshSession(ctx context.Context, username, refreshToken string) (*domain.Tokens, error) {
	args := m.Called(ctx, username, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tokens), args.Error(1)
}

func (m *MockProvider) CurrentUserInfo(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProvider) SignOut(ctx context.Context, tokens *domain.Tokens) error {
	args := m.Called(ctx, tokens)
	return args.Error(0)
}
