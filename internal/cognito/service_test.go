package cognito

import (
	"context"
	"errors"
	"testing"
	"time"

	"account_portal/internal/config"
	"account_portal/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAPI is a mock type for the Cognito API subset.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SignUp(ctx context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.SignUpOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ConfirmSignUpOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ResendConfirmationCode(ctx context.Context, in *cip.ResendConfirmationCodeInput, _ ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ResendConfirmationCodeOutput)
	return out, args.Error(1)
}

func (m *MockAPI) InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.InitiateAuthOutput)
	return out, args.Error(1)
}

func (m *MockAPI) RespondToAuthChallenge(ctx context.Context, in *cip.RespondToAuthChallengeInput, _ ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.RespondToAuthChallengeOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ForgotPassword(ctx context.Context, in *cip.ForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ForgotPasswordOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ConfirmForgotPassword(ctx context.Context, in *cip.ConfirmForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ConfirmForgotPasswordOutput)
	return out, args.Error(1)
}

func (m *MockAPI) GetUser(ctx context.Context, in *cip.GetUserInput, _ ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.GetUserOutput)
	return out, args.Error(1)
}

func (m *MockAPI) RevokeToken(ctx context.Context, in *cip.RevokeTokenInput, _ ...func(*cip.Options)) (*cip.RevokeTokenOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.RevokeTokenOutput)
	return out, args.Error(1)
}

func (m *MockAPI) GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, _ ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.GlobalSignOutOutput)
	return out, args.Error(1)
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(api API, secret string) *Service {
	cfg := &config.Config{
		CognitoUserPoolID:   "eu-west-1_pool",
		CognitoClientID:     "client-123",
		CognitoClientSecret: secret,
	}
	s := NewServiceWithAPI(api, cfg, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestService_SignUp_SendsAttributes(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("SignUp", mock.Anything, mock.MatchedBy(func(in *cip.SignUpInput) bool {
		return aws.ToString(in.Username) == "a@b.com" &&
			aws.ToString(in.ClientId) == "client-123" &&
			in.SecretHash == nil &&
			len(in.UserAttributes) == 2 &&
			aws.ToString(in.UserAttributes[0].Name) == "given_name" &&
			aws.ToString(in.UserAttributes[0].Value) == "A" &&
			aws.ToString(in.UserAttributes[1].Name) == "family_name"
	})).Return(&cip.SignUpOutput{}, nil).Once()

	err := svc.SignUp(context.Background(), "a@b.com", "Secret123!", domain.SignUpAttributes{GivenName: "A", FamilyName: "B"})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestService_SecretHash(t *testing.T) {
	svc := newTestService(new(MockAPI), "shh")

	hash := svc.secretHash("a@b.com")
	require.NotNil(t, hash)
	assert.Len(t, *hash, 44)
	assert.Equal(t, *hash, *svc.secretHash("a@b.com"))
	assert.NotEqual(t, *hash, *svc.secretHash("c@d.com"))

	assert.Nil(t, newTestService(new(MockAPI), "").secretHash("a@b.com"))
}

func TestService_SignIn_Tokens(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "shh")

	api.On("InitiateAuth", mock.Anything, mock.MatchedBy(func(in *cip.InitiateAuthInput) bool {
		return in.AuthFlow == types.AuthFlowTypeUserPasswordAuth &&
			in.AuthParameters["USERNAME"] == "a@b.com" &&
			in.AuthParameters["PASSWORD"] == "pw" &&
			in.AuthParameters["SECRET_HASH"] != ""
	})).Return(&cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("at"),
			IdToken:      aws.String("it"),
			RefreshToken: aws.String("rt"),
			ExpiresIn:    3600,
		},
	}, nil).Once()

	res, err := svc.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	assert.Equal(t, "at", res.Tokens.AccessToken)
	assert.Equal(t, "rt", res.Tokens.RefreshToken)
	assert.Equal(t, fixedNow.Add(time.Hour), res.Tokens.ExpiresAt)
	assert.Empty(t, res.ChallengeName)
}

func TestService_SignIn_Challenge(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("InitiateAuth", mock.Anything, mock.Anything).Return(&cip.InitiateAuthOutput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		Session:       aws.String("challenge-session"),
	}, nil).Once()

	res, err := svc.SignIn(context.Background(), "a@b.com", "temp")
	require.NoError(t, err)
	assert.Nil(t, res.Tokens)
	assert.Equal(t, domain.ChallengeNewPasswordRequired, res.ChallengeName)
	assert.Equal(t, "challenge-session", res.ChallengeSession)
}

func TestService_SignIn_UserNotConfirmed(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("InitiateAuth", mock.Anything, mock.Anything).Return(nil, &types.UserNotConfirmedException{
		Message: aws.String("User is not confirmed."),
	}).Once()

	_, err := svc.SignIn(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	pe, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeUserNotConfirmed, pe.Code)
	assert.Equal(t, "User is not confirmed.", pe.Message)
}

func TestService_ProviderError_GenericAPIError(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("ForgotPassword", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{
		Code:    "LimitExceededException",
		Message: "Attempt limit exceeded, please try after some time.",
	}).Once()

	err := svc.ForgotPassword(context.Background(), "a@b.com")
	pe, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "LimitExceededException", pe.Code)
	assert.Equal(t, "Attempt limit exceeded, please try after some time.", pe.Message)
}

func TestService_ProviderError_Transport(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("ConfirmSignUp", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: i/o timeout")).Once()

	err := svc.ConfirmSignUp(context.Background(), "a@b.com", "123456")
	pe, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeNetwork, pe.Code)
	assert.Contains(t, pe.Message, "i/o timeout")
}

func TestService_RefreshSession_KeepsRefreshToken(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("InitiateAuth", mock.Anything, mock.MatchedBy(func(in *cip.InitiateAuthInput) bool {
		return in.AuthFlow == types.AuthFlowTypeRefreshTokenAuth && in.AuthParameters["REFRESH_TOKEN"] == "rt"
	})).Return(&cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("at2"), IdToken: aws.String("it2"), ExpiresIn: 60},
	}, nil).Once()

	tok, err := svc.RefreshSession(context.Background(), "a@b.com", "rt")
	require.NoError(t, err)
	assert.Equal(t, "at2", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)
}

func TestService_CompleteNewPassword(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("RespondToAuthChallenge", mock.Anything, mock.MatchedBy(func(in *cip.RespondToAuthChallengeInput) bool {
		return in.ChallengeName == types.ChallengeNameTypeNewPasswordRequired &&
			aws.ToString(in.Session) == "sess" &&
			in.ChallengeResponses["NEW_PASSWORD"] == "NewSecret1!"
	})).Return(&cip.RespondToAuthChallengeOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("at"), ExpiresIn: 60},
	}, nil).Once()

	tok, err := svc.CompleteNewPassword(context.Background(), "a@b.com", "sess", "NewSecret1!")
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
}

func TestService_CurrentUserInfo(t *testing.T) {
	api := new(MockAPI)
	svc := newTestService(api, "")

	api.On("GetUser", mock.Anything, mock.MatchedBy(func(in *cip.GetUserInput) bool {
		return aws.ToString(in.AccessToken) == "at"
	})).Return(&cip.GetUserOutput{
		Username: aws.String("id1"),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("sub"), Value: aws.String("id1")},
			{Name: aws.String("email"), Value: aws.String("a@b.com")},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
			{Name: aws.String("given_name"), Value: aws.String("A")},
			{Name: aws.String("family_name"), Value: aws.String("B")},
		},
	}, nil).Once()

	p, err := svc.CurrentUserInfo(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, &domain.UserProfile{Email: "a@b.com", EmailVerified: true, GivenName: "A", FamilyName: "B", SubjectID: "id1"}, p)
}

func TestService_SignOut(t *testing.T) {
	t.Run("revokes refresh token", func(t *testing.T) {
		api := new(MockAPI)
		svc := newTestService(api, "shh")
		api.On("RevokeToken", mock.Anything, mock.MatchedBy(func(in *cip.RevokeTokenInput) bool {
			return aws.ToString(in.Token) == "rt" && aws.ToString(in.ClientSecret) == "shh"
		})).Return(&cip.RevokeTokenOutput{}, nil).Once()

		require.NoError(t, svc.SignOut(context.Background(), &domain.Tokens{AccessToken: "at", RefreshToken: "rt"}))
		api.AssertExpectations(t)
	})

	t.Run("global sign out", func(t *testing.T) {
		api := new(MockAPI)
		svc := newTestService(api, "")
		svc.globalSignOut = true
		api.On("GlobalSignOut", mock.Anything, mock.Anything).Return(&cip.GlobalSignOutOutput{}, nil).Once()

		require.NoError(t, svc.SignOut(context.Background(), &domain.Tokens{AccessToken: "at", RefreshToken: "rt"}))
		api.AssertExpectations(t)
		api.AssertNotCalled(t, "RevokeToken", mock.Anything, mock.Anything)
	})

	t.Run("no tokens is a no-op", func(t *testing.T) {
		api := new(MockAPI)
		require.NoError(t, newTestService(api, "").SignOut(context.Background(), nil))
		api.AssertNotCalled(t, "RevokeToken", mock.Anything, mock.Anything)
	})
}
