package authstate

import (
	"context"
	"time"

	"account_portal/internal/domain"
	"account_portal/internal/platform/metrics"
	"account_portal/internal/session"

	"go.uber.org/zap"
)

// Result is the tagged outcome of one dispatched operation.
type Result struct {
	Op   Operation
	User *domain.UserProfile
	Err  error
}

// Succeeded reports whether the operation resolved.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Actions runs session-client operations through a store.
type Actions struct {
	store   *Store
	client  *session.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewActions binds a visitor's store to its session client. m may be nil.
func NewActions(store *Store, client *session.Client, m *metrics.Metrics, logger *zap.Logger) *Actions {
	return &Actions{store: store, client: client, metrics: m, logger: logger.Named("authstate")}
}

func (a *Actions) SignUp(ctx context.Context, form session.SignUpForm) Result {
	return a.run(ctx, OpSignUp, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.SignUp(ctx, form)
	})
}

func (a *Actions) ConfirmSignUp(ctx context.Context, form session.ConfirmSignUpForm) Result {
	return a.run(ctx, OpConfirmSignUp, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.ConfirmSignUp(ctx, form)
	})
}

func (a *Actions) ResendSignUp(ctx context.Context, email string) Result {
	return a.run(ctx, OpResendSignUp, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.ResendConfirmation(ctx, email)
	})
}

func (a *Actions) SignIn(ctx context.Context, form session.SignInForm) Result {
	return a.run(ctx, OpSignIn, func(ctx context.Context) (*domain.UserProfile, error) {
		return a.client.SignIn(ctx, form)
	})
}

func (a *Actions) ForgotPassword(ctx context.Context, form session.ForgotPasswordForm) Result {
	return a.run(ctx, OpForgotPassword, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.ForgotPassword(ctx, form.Email)
	})
}

func (a *Actions) ResendForgotPassword(ctx context.Context, email string) Result {
	return a.run(ctx, OpResendForgotPassword, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.ForgotPassword(ctx, email)
	})
}

func (a *Actions) ResetPassword(ctx context.Context, form session.ResetPasswordForm) Result {
	return a.run(ctx, OpResetPassword, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.ResetPassword(ctx, form)
	})
}

func (a *Actions) CompleteNewPassword(ctx context.Context, form session.NewPasswordForm) Result {
	return a.run(ctx, OpCompleteNewPassword, func(ctx context.Context) (*domain.UserProfile, error) {
		return a.client.CompleteNewPassword(ctx, form)
	})
}

func (a *Actions) SignOut(ctx context.Context) Result {
	return a.run(ctx, OpSignOut, func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, a.client.SignOut(ctx)
	})
}

func (a *Actions) FetchSession(ctx context.Context, bypassCache bool) Result {
	return a.run(ctx, OpFetchSession, func(ctx context.Context) (*domain.UserProfile, error) {
		return a.client.FetchSession(ctx, bypassCache)
	})
}

// run dispatches Pending, performs call, then dispatches Fulfilled or Rejected.
func (a *Actions) run(ctx context.Context, op Operation, call func(context.Context) (*domain.UserProfile, error)) Result {
	a.store.Dispatch(Pending(op))

	start := time.Now()
	user, err := call(ctx)
	elapsed := time.Since(start)

	if err != nil {
		a.store.Dispatch(Rejected(op, err))
		a.logger.Info("Operation rejected",
			zap.String("operation", string(op)),
			zap.String("message", domain.ErrorMessage(err)),
			zap.Duration("elapsed", elapsed),
		)
	} else {
		next := a.store.Dispatch(Fulfilled(op, user))
		if next.Status == domain.StatusFailed {
			err = domain.NewProviderError("", next.Message)
		}
		a.logger.Debug("Operation fulfilled", zap.String("operation", string(op)), zap.Duration("elapsed", elapsed))
	}

	if a.metrics != nil {
		a.metrics.ObserveOperation(string(op), err == nil, elapsed)
	}
	return Result{Op: op, User: user, Err: err}
}
