package redis

import (
	"context"
	"testing"

	"account_portal/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_NotConfigured(t *testing.T) {
	c, err := New(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, c.Close())
}

func TestNew_ConnectsAndReportsHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(&config.Config{RedisURL: "redis://" + mr.Addr(), RedisPoolSize: 2}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c)
	t.Cleanup(func() { _ = c.Close() })

	assert.NoError(t, c.Health(context.Background()))

	mr.Close()
	assert.Error(t, c.Health(context.Background()))
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(&config.Config{RedisURL: "not-a-url://"}, zap.NewNop())
	assert.Error(t, err)
}
