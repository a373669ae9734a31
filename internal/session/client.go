package session

import (
	"context"
	"time"

	"account_portal/internal/domain"

	"go.uber.org/zap"
)

// IdentityProvider is the user-pool boundary the session client drives.
// *cognito.Service implements it.
type IdentityProvider interface {
	SignUp(ctx context.Context, username, password string, attrs domain.SignUpAttributes) error
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResendSignUp(ctx context.Context, username string) error
	SignIn(ctx context.Context, username, password string) (*domain.SignInResult, error)
	ForgotPassword(ctx context.Context, username string) error
	ForgotPasswordSubmit(ctx context.Context, username, code, newPassword string) error
	CompleteNewPassword(ctx context.Context, username, challengeSession, newPassword string) (*domain.Tokens, error)
	RefreshSession(ctx context.Context, username, refreshToken string) (*domain.Tokens, error)
	CurrentUserInfo(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	SignOut(ctx context.Context, tokens *domain.Tokens) error
}

// Challenge is a sign-in that the provider answered with NEW_PASSWORD_REQUIRED.
type Challenge struct {
	Username string `json:"username"`
	Session  string `json:"session"`
}

// Credentials is what the provider has issued to one visitor.
type Credentials struct {
	Username  string              `json:"username,omitempty"`
	Tokens    *domain.Tokens      `json:"tokens,omitempty"`
	User      *domain.UserProfile `json:"user,omitempty"`
	Challenge *Challenge          `json:"challenge,omitempty"`
}

// Reset forgets everything the provider issued.
func (c *Credentials) Reset() {
	*c = Credentials{}
}

// Active reports whether tokens are held.
func (c *Credentials) Active() bool {
	return c != nil && c.Tokens != nil && c.Tokens.AccessToken != ""
}

// tokenExpirySkew refreshes a little before the provider would reject the token.
const tokenExpirySkew = 30 * time.Second

// Client performs one provider operation per call on behalf of one visitor.
// It mutates the visitor's Credentials in place; persisting them is the caller's job.
type Client struct {
	provider IdentityProvider
	creds    *Credentials
	now      func() time.Time
	logger   *zap.Logger
}

// NewClient binds a provider to a visitor's credentials.
func NewClient(provider IdentityProvider, creds *Credentials, logger *zap.Logger) *Client {
	if creds == nil {
		creds = &Credentials{}
	}
	return &Client{
		provider: provider,
		creds:    creds,
		now:      time.Now,
		logger:   logger.Named("session"),
	}
}

// Credentials exposes the credentials the client is working on.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

func (c *Client) SignUp(ctx context.Context, form SignUpForm) error {
	return c.provider.SignUp(ctx, form.Email, form.Password, domain.SignUpAttributes{
		GivenName:  form.FirstName,
		FamilyName: form.LastName,
	})
}

func (c *Client) ConfirmSignUp(ctx context.Context, form ConfirmSignUpForm) error {
	return c.provider.ConfirmSignUp(ctx, form.Email, form.Code)
}

func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	return c.provider.ResendSignUp(ctx, email)
}

// SignIn authenticates and returns the signed-in user's profile.
// A NEW_PASSWORD_REQUIRED answer is kept as a pending challenge and reported
// as a CodeNewPasswordRequired failure.
func (c *Client) SignIn(ctx context.Context, form SignInForm) (*domain.UserProfile, error) {
	res, err := c.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}

	switch res.ChallengeName {
	case "":
	case domain.ChallengeNewPasswordRequired:
		c.creds.Reset()
		c.creds.Challenge = &Challenge{Username: form.Email, Session: res.ChallengeSession}
		return nil, domain.NewProviderError(domain.CodeNewPasswordRequired, NewPasswordRequiredMessage)
	default:
		return nil, domain.NewProviderError(res.ChallengeName, "Unsupported sign-in challenge "+res.ChallengeName+".")
	}

	return c.establish(ctx, form.Email, res.Tokens)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.provider.ForgotPassword(ctx, email)
}

func (c *Client) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	return c.provider.ForgotPasswordSubmit(ctx, form.Email, form.Code, form.Password)
}

// CompleteNewPassword answers the pending challenge left by SignIn.
func (c *Client) CompleteNewPassword(ctx context.Context, form NewPasswordForm) (*domain.UserProfile, error) {
	ch := c.creds.Challenge
	if ch == nil {
		return nil, domain.NewProviderError(domain.CodeNoChallenge, NoChallengeMessage)
	}

	tokens, err := c.provider.CompleteNewPassword(ctx, ch.Username, ch.Session, form.Password)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, ch.Username, tokens)
}

// SignOut ends the provider session. Local credentials are dropped even when
// the provider call fails.
func (c *Client) SignOut(ctx context.Context) error {
	tokens := c.creds.Tokens
	username := c.creds.Username
	c.creds.Reset()

	if err := c.provider.SignOut(ctx, tokens); err != nil {
		c.logger.Warn("Provider sign-out failed; local credentials cleared", zap.String("username", username), zap.Error(err))
		return err
	}
	return nil
}

// FetchSession returns the current user. Expired tokens are refreshed first.
// With bypassCache the attributes are always re-read from the provider.
func (c *Client) FetchSession(ctx context.Context, bypassCache bool) (*domain.UserProfile, error) {
	if !c.creds.Active() {
		return nil, domain.NewProviderError(domain.CodeNoSession, NotAuthenticatedMessage)
	}

	if c.creds.Tokens.Expired(c.now(), tokenExpirySkew) {
		if c.creds.Tokens.RefreshToken == "" {
			c.creds.Reset()
			return nil, domain.NewProviderError(domain.CodeNoSession, NotAuthenticatedMessage)
		}
		tokens, err := c.provider.RefreshSession(ctx, c.creds.Username, c.creds.Tokens.RefreshToken)
		if err != nil {
			c.dropIfRevoked(err)
			return nil, err
		}
		c.creds.Tokens = tokens
	}

	if !bypassCache && c.creds.User != nil {
		return c.creds.User, nil
	}

	user, err := c.provider.CurrentUserInfo(ctx, c.creds.Tokens.AccessToken)
	if err != nil {
		c.dropIfRevoked(err)
		return nil, err
	}
	c.creds.User = user
	return user, nil
}

func (c *Client) establish(ctx context.Context, username string, tokens *domain.Tokens) (*domain.UserProfile, error) {
	user, err := c.provider.CurrentUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	*c.creds = Credentials{Username: username, Tokens: tokens, User: user}
	c.logger.Debug("Session established", zap.String("username", username), zap.String("sub", user.SubjectID))
	return user, nil
}

// dropIfRevoked forgets credentials the provider no longer honours.
func (c *Client) dropIfRevoked(err error) {
	if pe, ok := domain.AsProviderError(err); ok && pe.Code == domain.CodeNotAuthorized {
		c.logger.Info("Provider rejected stored credentials", zap.String("username", c.creds.Username))
		c.creds.Reset()
	}
}
