// Package visitor keeps per-browser state between requests: the auth status,
// the provider credentials, transient navigation state and the CSRF token.
package visitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account_portal/internal/authstate"
	"account_portal/internal/platform/crypto"
	"account_portal/internal/session"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no visitor is stored under an id (or it expired).
var ErrNotFound = errors.New("visitor not found")

// Nav carries state between screens, e.g. the email being confirmed.
type Nav struct {
	Email string `json:"email,omitempty"`
}

// Visitor is one browser's record.
type Visitor struct {
	ID          string              `json:"id"`
	Auth        authstate.State     `json:"auth"`
	Version     uint64              `json:"version"`
	Credentials session.Credentials `json:"credentials"`
	Nav         Nav                 `json:"nav"`
	CSRFToken   string              `json:"csrfToken"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// New creates a visitor in the initial auth state with a fresh CSRF token.
func New() (*Visitor, error) {
	token, err := crypto.GenerateSecureRandomString(crypto.CSRFTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}
	now := time.Now().UTC()
	return &Visitor{
		ID:        uuid.NewString(),
		Auth:      authstate.Initial(),
		CSRFToken: token,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Resume rebuilds a visitor its browser still names but that was never
// stored, e.g. one that has only viewed pages so far.
func Resume(id, csrfToken string) *Visitor {
	now := time.Now().UTC()
	return &Visitor{
		ID:        id,
		Auth:      authstate.Initial(),
		CSRFToken: csrfToken,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists visitors with a sliding TTL; every Save restarts it.
type Store interface {
	Get(ctx context.Context, id string) (*Visitor, error)
	Save(ctx context.Context, v *Visitor) error
	Delete(ctx context.Context, id string) error
}
