package authstate_test

import (
	"context"
	"testing"
	"time"

	"account_portal/internal/authstate"
	"account_portal/internal/domain"
	"account_portal/internal/platform/metrics"
	"account_portal/internal/session"
	"account_portal/internal/session/sessiontest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jane = &domain.UserProfile{Email: "jane@example.com", GivenName: "Jane", FamilyName: "Doe", SubjectID: "sub-1"}

type harness struct {
	provider *sessiontest.MockProvider
	creds    *session.Credentials
	store    *authstate.Store
	actions  *authstate.Actions
	metrics  *metrics.Metrics
	seen     []authstate.State
}

func newHarness() *harness {
	h := &harness{
		provider: new(sessiontest.MockProvider),
		creds:    &session.Credentials{},
		store:    authstate.NewStore(authstate.Initial(), 0),
		metrics:  metrics.New(),
	}
	h.store.Subscribe(func(s authstate.State, _ uint64) { h.seen = append(h.seen, s) })
	client := session.NewClient(h.provider, h.creds, zap.NewNop())
	h.actions = authstate.NewActions(h.store, client, h.metrics, zap.NewNop())
	return h
}

func TestActions_SignIn_LoadingThenSucceeded(t *testing.T) {
	h := newHarness()
	tokens := &domain.Tokens{AccessToken: "at", RefreshToken: "rt", ExpiresAt: time.Now().Add(time.Hour)}
	h.provider.On("SignIn", mock.Anything, "jane@example.com", "pw").Return(&domain.SignInResult{Tokens: tokens}, nil).Once()
	h.provider.On("CurrentUserInfo", mock.Anything, "at").Return(jane, nil).Once()

	res := h.actions.SignIn(context.Background(), session.SignInForm{Email: "jane@example.com", Password: "pw"})

	require.True(t, res.Succeeded())
	assert.Equal(t, authstate.OpSignIn, res.Op)
	assert.Equal(t, jane, res.User)
	require.Len(t, h.seen, 2)
	assert.Equal(t, domain.StatusLoading, h.seen[0].Status)
	assert.Equal(t, authstate.State{Status: domain.StatusSucceeded, IsAuthenticated: true, User: jane}, h.seen[1])
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.AuthOperations.WithLabelValues("signIn", metrics.OutcomeSucceeded)))
}

func TestActions_SignIn_Rejected(t *testing.T) {
	h := newHarness()
	h.provider.On("SignIn", mock.Anything, "jane@example.com", "pw").
		Return(nil, &domain.ProviderError{Code: domain.CodeUserNotConfirmed, Message: "User is not confirmed."}).Once()

	res := h.actions.SignIn(context.Background(), session.SignInForm{Email: "jane@example.com", Password: "pw"})

	assert.False(t, res.Succeeded())
	assert.True(t, session.RequiresConfirmation(res.Err))
	state := h.store.State()
	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Equal(t, "User is not confirmed.", state.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.AuthOperations.WithLabelValues("signIn", metrics.OutcomeFailed)))
}

func TestActions_ForgotThenResetNeverAuthenticates(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.provider.On("ForgotPassword", mock.Anything, "jane@example.com").Return(nil).Once()
	h.provider.On("ForgotPasswordSubmit", mock.Anything, "jane@example.com", "123456", "Another1!").Return(nil).Once()

	res := h.actions.ForgotPassword(ctx, session.ForgotPasswordForm{Email: "jane@example.com"})
	require.True(t, res.Succeeded())
	assert.Equal(t, domain.StatusSucceeded, h.store.State().Status)

	res = h.actions.ResetPassword(ctx, session.ResetPasswordForm{Email: "jane@example.com", Code: "123456", Password: "Another1!", ConfirmPassword: "Another1!"})
	require.True(t, res.Succeeded())

	for _, s := range h.seen {
		assert.False(t, s.IsAuthenticated)
		assert.Nil(t, s.User)
	}
	assert.Equal(t, domain.StatusSucceeded, h.store.State().Status)
}

func TestActions_SignOut_ReturnsToInitial(t *testing.T) {
	h := newHarness()
	h.store = authstate.NewStore(authstate.State{Status: domain.StatusSucceeded, IsAuthenticated: true, User: jane}, 3)
	tokens := &domain.Tokens{AccessToken: "at", RefreshToken: "rt", ExpiresAt: time.Now().Add(time.Hour)}
	*h.creds = session.Credentials{Username: "jane@example.com", Tokens: tokens, User: jane}
	h.actions = authstate.NewActions(h.store, session.NewClient(h.provider, h.creds, zap.NewNop()), nil, zap.NewNop())
	h.provider.On("SignOut", mock.Anything, tokens).Return(nil).Once()

	res := h.actions.SignOut(context.Background())

	require.True(t, res.Succeeded())
	assert.Equal(t, authstate.Initial(), h.store.State())
	assert.False(t, h.creds.Active())
}

func TestActions_FetchSession_NoSession(t *testing.T) {
	h := newHarness()

	res := h.actions.FetchSession(context.Background(), true)

	assert.False(t, res.Succeeded())
	assert.Equal(t, session.NotAuthenticatedMessage, h.store.State().Message)
	h.provider.AssertNotCalled(t, "CurrentUserInfo", mock.Anything, mock.Anything)
}
