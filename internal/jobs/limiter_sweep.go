// File: internal/jobs/limiter_sweep.go
package jobs

import (
	"fmt"
	"time"

	"account_portal/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops idle entries and reports how many went.
type Sweeper interface {
	Sweep() int
}

// LimiterSweepJob periodically evicts idle rate-limiter clients.
type LimiterSweepJob struct {
	sweeper       Sweeper
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewLimiterSweepJob creates a new LimiterSweepJob.
func NewLimiterSweepJob(sweeper Sweeper, logger *zap.Logger, cfg *config.Config) *LimiterSweepJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &LimiterSweepJob{
		sweeper:       sweeper,
		logger:        logger.Named("LimiterSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *LimiterSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.RateLimitSweepSchedule
	if jobSpec == "" {
		j.logger.Warn("Rate limiter sweep schedule not defined (RATE_LIMIT_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule rate limiter sweep", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Rate limiter sweep scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *LimiterSweepJob) runJob() {
	removed := j.sweeper.Sweep()
	if removed > 0 {
		j.logger.Debug("Rate limiter sweep completed", zap.Int("clients_removed", removed))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *LimiterSweepJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping rate limiter sweep scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Rate limiter sweep scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Rate limiter sweep scheduler stop timed out.")
	}
}

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron at debug level; cron is chatty.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, cl.fields(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(cl.fields(keysAndValues...), zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) fields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return fields
}
