package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/moonboard/backend/internal/models"
)

type Refresher interface {
	Refresh(ctx context.Context) (models.Run, error)
}

// Scheduler re-runs the pipeline on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	target  Refresher
	timeout time.Duration
	logger  zerolog.Logger
}

func NewScheduler(target Refresher, interval, timeout time.Duration, logger zerolog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		target:  target,
		timeout: timeout,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc("@every "+interval.String(), s.tick); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context that is done once the
// running refresh, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.target.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled refresh failed")
	}
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
