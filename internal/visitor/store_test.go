package visitor

import (
	"context"
	"testing"
	"time"

	"account_portal/internal/authstate"
	"account_portal/internal/config"
	"account_portal/internal/domain"
	platformredis "account_portal/internal/platform/redis"
	"account_portal/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// storeSuite runs the same contract against every Store implementation.
type storeSuite struct {
	suite.Suite
	store Store
	// expire moves the backend's clock past the TTL
	expire func()
}

func (s *storeSuite) TestSaveAndGet() {
	ctx := context.Background()
	v, err := New()
	s.Require().NoError(err)
	v.Auth = authstate.State{Status: domain.StatusSucceeded, IsAuthenticated: true, User: &domain.UserProfile{Email: "jane@example.com"}}
	v.Version = 7
	v.Nav.Email = "jane@example.com"
	v.Credentials = session.Credentials{Username: "jane@example.com", Tokens: &domain.Tokens{AccessToken: "at"}}

	s.Require().NoError(s.store.Save(ctx, v))

	got, err := s.store.Get(ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.Auth, got.Auth)
	s.Equal(uint64(7), got.Version)
	s.Equal("jane@example.com", got.Nav.Email)
	s.Equal("at", got.Credentials.Tokens.AccessToken)
	s.Equal(v.CSRFToken, got.CSRFToken)
}

func (s *storeSuite) TestGetReturnsCopy() {
	ctx := context.Background()
	v, _ := New()
	s.Require().NoError(s.store.Save(ctx, v))

	got, err := s.store.Get(ctx, v.ID)
	s.Require().NoError(err)
	got.Nav.Email = "changed@example.com"

	again, err := s.store.Get(ctx, v.ID)
	s.Require().NoError(err)
	s.Empty(again.Nav.Email)
}

func (s *storeSuite) TestMissingAndDeleted() {
	ctx := context.Background()
	_, err := s.store.Get(ctx, "nope")
	s.ErrorIs(err, ErrNotFound)

	v, _ := New()
	s.Require().NoError(s.store.Save(ctx, v))
	s.Require().NoError(s.store.Delete(ctx, v.ID))
	_, err = s.store.Get(ctx, v.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *storeSuite) TestExpiry() {
	if s.expire == nil {
		s.T().Skip("backend clock not controllable")
	}
	ctx := context.Background()
	v, _ := New()
	s.Require().NoError(s.store.Save(ctx, v))
	s.expire()
	_, err := s.store.Get(ctx, v.ID)
	s.ErrorIs(err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &storeSuite{store: NewMemoryStore(time.Hour)})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	suite.Run(t, &storeSuite{
		store:  NewRedisStore(rdb, time.Minute),
		expire: func() { mr.FastForward(2 * time.Minute) },
	})
}

func TestMemoryStore_ShortTTL(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	v, _ := New()
	require.NoError(t, store.Save(context.Background(), v))
	assert.Equal(t, 1, store.Len())

	time.Sleep(40 * time.Millisecond)
	_, err := store.Get(context.Background(), v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStore_PicksBackend(t *testing.T) {
	cfg := &config.Config{SessionTTL: time.Hour}
	assert.IsType(t, &MemoryStore{}, NewStore(nil, cfg, zap.NewNop()))

	mr := miniredis.RunT(t)
	rdb := &platformredis.Client{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &RedisStore{}, NewStore(rdb, cfg, zap.NewNop()))
}

func TestNew_InitialVisitor(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.CSRFToken, b.CSRFToken)
	assert.Equal(t, authstate.Initial(), a.Auth)
	assert.Zero(t, a.Version)
}

func TestResume_KeepsIdentity(t *testing.T) {
	v := Resume("visitor-1", "token-1")

	assert.Equal(t, "visitor-1", v.ID)
	assert.Equal(t, "token-1", v.CSRFToken)
	assert.Equal(t, authstate.Initial(), v.Auth)
	assert.Nil(t, v.Credentials.Tokens)
}
