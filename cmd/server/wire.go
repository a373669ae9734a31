// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"account_portal/internal/app"
	"account_portal/internal/cognito"
	"account_portal/internal/config"
	"account_portal/internal/jobs"
	"account_portal/internal/middleware"
	"account_portal/internal/platform/metrics"
	"account_portal/internal/screens"
	"account_portal/internal/session"
	"account_portal/internal/visitor"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideRedis,
		metrics.New,

		// Identity provider
		cognito.NewService,
		wire.Bind(new(session.IdentityProvider), new(*cognito.Service)),

		// Visitor sessions and request guards
		visitor.NewStore,
		middleware.NewVisitorSessions,
		wire.Bind(new(screens.Visitors), new(*middleware.VisitorSessions)),
		middleware.NewRateLimiter,
		wire.Bind(new(jobs.Sweeper), new(*middleware.RateLimiter)),
		jobs.NewLimiterSweepJob,

		// Handlers
		screens.NewHandler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
