package domain

import (
	"strconv"
	"time"
)

// SessionStatus is the single UI status signal every screen renders from.
type SessionStatus string

const (
	StatusIdle      SessionStatus = "Idle"
	StatusLoading   SessionStatus = "Loading"
	StatusFailed    SessionStatus = "Failed"
	StatusSucceeded SessionStatus = "Succeeded"
)

// Settled reports whether the last operation has finished one way or the other.
func (s SessionStatus) Settled() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// UserProfile is the normalized set of user-pool attributes the portal shows.
type UserProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	GivenName     string `json:"givenName"`
	FamilyName    string `json:"familyName"`
	SubjectID     string `json:"subjectId"`
}

// User-pool attribute names.
const (
	AttrEmail         = "email"
	AttrEmailVerified = "email_verified"
	AttrGivenName     = "given_name"
	AttrFamilyName    = "family_name"
	AttrSubject       = "sub"
)

// ProfileFromAttributes builds a profile from raw user-pool attributes.
func ProfileFromAttributes(attrs map[string]string) *UserProfile {
	verified, _ := strconv.ParseBool(attrs[AttrEmailVerified])
	return &UserProfile{
		Email:         attrs[AttrEmail],
		EmailVerified: verified,
		GivenName:     attrs[AttrGivenName],
		FamilyName:    attrs[AttrFamilyName],
		SubjectID:     attrs[AttrSubject],
	}
}

// SignUpAttributes are the extra attributes sent on registration.
type SignUpAttributes struct {
	GivenName  string
	FamilyName string
}

// Tokens are the provider-issued credentials for a signed-in visitor.
// The portal stores and returns them but never inspects them.
type Tokens struct {
	IDToken      string    `json:"idToken"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the access token is past (or within skew of) its expiry.
func (t *Tokens) Expired(now time.Time, skew time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	return !now.Add(skew).Before(t.ExpiresAt)
}

// Challenge names the provider can answer a sign-in with.
const ChallengeNewPasswordRequired = "NEW_PASSWORD_REQUIRED"

// SignInResult is either a set of tokens or a pending challenge.
type SignInResult struct {
	Tokens *Tokens
	// ChallengeName and ChallengeSession are set when the provider wants more input.
	ChallengeName    string
	ChallengeSession string
}
