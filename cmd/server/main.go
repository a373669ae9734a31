// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account_portal/internal/config"
	"account_portal/internal/platform/logger"
	platformredis "account_portal/internal/platform/redis"

	"go.uber.org/zap"
)

func main() {
	checkConfigCmd := flag.NewFlagSet("check-config", flag.ExitOnError)
	pingRedis := checkConfigCmd.Bool("ping-redis", true, "Connect to REDIS_URL when it is set")

	if len(os.Args) > 1 && os.Args[1] == "check-config" {
		checkConfigCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger: %v", err)
		}
		defer appLogger.Sync()

		if err := runConfigCheck(cfg, appLogger, *pingRedis); err != nil {
			appLogger.Fatal("FATAL: Configuration check failed", zap.Error(err))
		}
		appLogger.Info("Configuration check completed successfully.")
		return
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runConfigCheck reports the effective settings and, optionally, whether
// the visitor session store is reachable.
func runConfigCheck(cfg *config.Config, logger *zap.Logger, pingRedis bool) error {
	logger.Info("Effective configuration",
		zap.String("gin_mode", cfg.GinMode),
		zap.String("address", fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)),
		zap.String("cognito_region", cfg.CognitoRegion),
		zap.String("cognito_user_pool_id", cfg.CognitoUserPoolID),
		zap.Bool("cognito_client_secret_set", cfg.CognitoClientSecret != ""),
		zap.Bool("mandatory_sign_in", cfg.MandatorySignIn),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("session_encrypted", cfg.SessionBlockKey != ""),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS),
		zap.Strings("cors_allowed_origins", cfg.CORSAllowedOrigins),
	)

	if !pingRedis {
		return nil
	}
	rdb, err := platformredis.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if rdb == nil {
		return nil
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Health(ctx); err != nil {
		return fmt.Errorf("redis health: %w", err)
	}
	return nil
}
