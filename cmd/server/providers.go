// File: cmd/server/providers.go
package main

import (
	"log"

	"account_portal/internal/config"
	"account_portal/internal/platform/logger"
	platformredis "account_portal/internal/platform/redis"

	"go.uber.org/zap"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}, nil
}

// provideRedis returns a nil client when REDIS_URL is unset.
func provideRedis(cfg *config.Config, logger *zap.Logger) (*platformredis.Client, func(), error) {
	rdb, err := platformredis.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return rdb, func() {
		logger.Info("Executing cleanup tasks...")
		if err := rdb.Close(); err != nil {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}, nil
}
