package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"account_portal/internal/config"
	"account_portal/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"
)

// API is the subset of the Cognito Identity Provider client the portal calls.
// Every method here is a public-client operation; none of them needs IAM credentials.
type API interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, params *cip.RespondToAuthChallengeInput, optFns ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error)
	ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	RevokeToken(ctx context.Context, params *cip.RevokeTokenInput, optFns ...func(*cip.Options)) (*cip.RevokeTokenOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

// Service talks to one Cognito user pool through one app client.
type Service struct {
	api           API
	userPoolID    string
	clientID      string
	clientSecret  string
	globalSignOut bool
	now           func() time.Time
	logger        *zap.Logger
}

// NewService builds the AWS SDK client for the configured region and wraps it.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.CognitoRegion),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		logger.Error("Failed to load AWS SDK configuration", zap.Error(err), zap.String("region", cfg.CognitoRegion))
		return nil, fmt.Errorf("error loading AWS configuration: %w", err)
	}

	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.CognitoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.CognitoEndpoint)
		}
	})

	logger.Info("Cognito identity provider client initialized.",
		zap.String("region", cfg.CognitoRegion),
		zap.String("userPoolID", cfg.CognitoUserPoolID),
		zap.Bool("clientSecret", cfg.CognitoClientSecret != ""),
		zap.String("endpoint", cfg.CognitoEndpoint),
	)
	return NewServiceWithAPI(client, cfg, logger), nil
}

// NewServiceWithAPI wraps an already-built API (tests pass a mock).
func NewServiceWithAPI(api API, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		api:           api,
		userPoolID:    cfg.CognitoUserPoolID,
		clientID:      cfg.CognitoClientID,
		clientSecret:  cfg.CognitoClientSecret,
		globalSignOut: cfg.CognitoGlobalSignOut,
		now:           time.Now,
		logger:        logger.Named("cognito"),
	}
}

// SignUp registers a new user with email as the username.
func (s *Service) SignUp(ctx context.Context, username, password string, attrs domain.SignUpAttributes) error {
	_, err := s.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(s.clientID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		SecretHash: s.secretHash(username),
		UserAttributes: []types.AttributeType{
			{Name: aws.String(domain.AttrGivenName), Value: aws.String(attrs.GivenName)},
			{Name: aws.String(domain.AttrFamilyName), Value: aws.String(attrs.FamilyName)},
		},
	})
	if err != nil {
		return s.providerError("SignUp", username, err)
	}
	s.logger.Info("User signed up", zap.String("username", username))
	return nil
}

// ConfirmSignUp submits the emailed confirmation code.
func (s *Service) ConfirmSignUp(ctx context.Context, username, code string) error {
	_, err := s.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(s.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		SecretHash:       s.secretHash(username),
	})
	if err != nil {
		return s.providerError("ConfirmSignUp", username, err)
	}
	return nil
}

// ResendSignUp asks the pool to send a fresh confirmation code.
func (s *Service) ResendSignUp(ctx context.Context, username string) error {
	_, err := s.api.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId:   aws.String(s.clientID),
		Username:   aws.String(username),
		SecretHash: s.secretHash(username),
	})
	if err != nil {
		return s.providerError("ResendConfirmationCode", username, err)
	}
	return nil
}

// SignIn runs the USER_PASSWORD_AUTH flow.
func (s *Service) SignIn(ctx context.Context, username, password string) (*domain.SignInResult, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	s.addSecretHash(params, username)

	out, err := s.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(s.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, s.providerError("InitiateAuth", username, err)
	}

	if out.ChallengeName != "" {
		s.logger.Info("Sign-in answered with a challenge",
			zap.String("username", username),
			zap.String("challenge", string(out.ChallengeName)),
		)
		return &domain.SignInResult{
			ChallengeName:    string(out.ChallengeName),
			ChallengeSession: aws.ToString(out.Session),
		}, nil
	}
	tokens, err := s.tokensFrom(out.AuthenticationResult, "")
	if err != nil {
		return nil, err
	}
	return &domain.SignInResult{Tokens: tokens}, nil
}

// CompleteNewPassword answers a NEW_PASSWORD_REQUIRED challenge.
func (s *Service) CompleteNewPassword(ctx context.Context, username, challengeSession, newPassword string) (*domain.Tokens, error) {
	responses := map[string]string{
		"USERNAME":     username,
		"NEW_PASSWORD": newPassword,
	}
	s.addSecretHash(responses, username)

	out, err := s.api.RespondToAuthChallenge(ctx, &cip.RespondToAuthChallengeInput{
		ChallengeName:      types.ChallengeNameTypeNewPasswordRequired,
		ClientId:           aws.String(s.clientID),
		Session:            aws.String(challengeSession),
		ChallengeResponses: responses,
	})
	if err != nil {
		return nil, s.providerError("RespondToAuthChallenge", username, err)
	}
	if out.ChallengeName != "" {
		return nil, domain.NewProviderError(string(out.ChallengeName), fmt.Sprintf("Unsupported challenge %s.", out.ChallengeName))
	}
	return s.tokensFrom(out.AuthenticationResult, "")
}

// RefreshSession trades a refresh token for fresh id/access tokens.
// Username is only needed to compute the secret hash.
func (s *Service) RefreshSession(ctx context.Context, username, refreshToken string) (*domain.Tokens, error) {
	params := map[string]string{"REFRESH_TOKEN": refreshToken}
	s.addSecretHash(params, username)

	out, err := s.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(s.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, s.providerError("RefreshSession", username, err)
	}
	return s.tokensFrom(out.AuthenticationResult, refreshToken)
}

// ForgotPassword starts the reset flow; the pool emails a code.
func (s *Service) ForgotPassword(ctx context.Context, username string) error {
	_, err := s.api.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(s.clientID),
		Username:   aws.String(username),
		SecretHash: s.secretHash(username),
	})
	if err != nil {
		return s.providerError("ForgotPassword", username, err)
	}
	return nil
}

// ForgotPasswordSubmit finishes the reset flow with the emailed code.
func (s *Service) ForgotPasswordSubmit(ctx context.Context, username, code, newPassword string) error {
	_, err := s.api.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(s.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
		SecretHash:       s.secretHash(username),
	})
	if err != nil {
		return s.providerError("ConfirmForgotPassword", username, err)
	}
	return nil
}

// CurrentUserInfo reads the user's attributes with an access token.
func (s *Service) CurrentUserInfo(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	out, err := s.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return nil, s.providerError("GetUser", "", err)
	}
	attrs := make(map[string]string, len(out.UserAttributes))
	for _, a := range out.UserAttributes {
		attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	return domain.ProfileFromAttributes(attrs), nil
}

// SignOut revokes the refresh token, or signs out every device when configured.
func (s *Service) SignOut(ctx context.Context, tokens *domain.Tokens) error {
	if tokens == nil {
		return nil
	}
	if s.globalSignOut {
		if _, err := s.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(tokens.AccessToken)}); err != nil {
			return s.providerError("GlobalSignOut", "", err)
		}
		return nil
	}
	if tokens.RefreshToken == "" {
		return nil
	}
	input := &cip.RevokeTokenInput{
		ClientId: aws.String(s.clientID),
		Token:    aws.String(tokens.RefreshToken),
	}
	if s.clientSecret != "" {
		input.ClientSecret = aws.String(s.clientSecret)
	}
	if _, err := s.api.RevokeToken(ctx, input); err != nil {
		return s.providerError("RevokeToken", "", err)
	}
	return nil
}

func (s *Service) tokensFrom(res *types.AuthenticationResultType, fallbackRefresh string) (*domain.Tokens, error) {
	if res == nil || aws.ToString(res.AccessToken) == "" {
		return nil, domain.NewProviderError(domain.CodeNoSession, "No authentication result returned.")
	}
	refresh := aws.ToString(res.RefreshToken)
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return &domain.Tokens{
		IDToken:      aws.ToString(res.IdToken),
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(time.Duration(res.ExpiresIn) * time.Second),
	}, nil
}

// secretHash is Base64(HMAC_SHA256(clientSecret, username + clientID)), nil without a secret.
func (s *Service) secretHash(username string) *string {
	if s.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(s.clientSecret))
	mac.Write([]byte(username + s.clientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (s *Service) addSecretHash(params map[string]string, username string) {
	if h := s.secretHash(username); h != nil {
		params["SECRET_HASH"] = *h
	}
}
