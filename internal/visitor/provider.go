package visitor

import (
	"account_portal/internal/config"
	platformredis "account_portal/internal/platform/redis"

	"go.uber.org/zap"
)

// NewStore picks Redis when a client is configured, process memory otherwise.
func NewStore(rdb *platformredis.Client, cfg *config.Config, logger *zap.Logger) Store {
	if rdb != nil {
		logger.Info("Visitor sessions stored in Redis", zap.Duration("ttl", cfg.SessionTTL))
		return NewRedisStore(rdb.Client, cfg.SessionTTL)
	}
	logger.Info("Visitor sessions stored in process memory", zap.Duration("ttl", cfg.SessionTTL))
	return NewMemoryStore(cfg.SessionTTL)
}
