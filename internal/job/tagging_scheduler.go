// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/pkg/locker"
)

const taggingLockKey = "tagging:scheduler"

// TaggingRunner tags a batch of untagged products.
type TaggingRunner interface {
	TagUntagged(ctx context.Context, batch int) (service.TaggingResult, error)
}

// TaggingConfig holds tagging scheduler configuration.
type TaggingConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	BatchSize int
	OnStartup bool
}

// TaggingScheduler periodically tags untagged products. A distributed lease makes
// sure only one instance runs a batch per interval.
type TaggingScheduler struct {
	runner TaggingRunner
	cfg    TaggingConfig
	locker locker.DistributedLocker
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTaggingScheduler creates a new TaggingScheduler.
func NewTaggingScheduler(
	runner TaggingRunner,
	cfg TaggingConfig,
	locker locker.DistributedLocker,
	logger *zap.Logger,
) *TaggingScheduler {
	return &TaggingScheduler{
		runner: runner,
		cfg:    cfg,
		locker: locker,
		logger: logger,
	}
}

// Start begins the background loop.
func (s *TaggingScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting tagging scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("batch_size", s.cfg.BatchSize),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop cancels any running batch and waits for the loop to exit.
func (s *TaggingScheduler) Stop() {
	s.logger.Info("stopping tagging scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("tagging scheduler stopped")
}

func (s *TaggingScheduler) run() {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.execute()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute()
		}
	}
}

// execute runs one batch under the lease. The lease TTL is the interval: after a
// clean run it is kept as a cooldown, after a failed run it is released so another
// instance may retry right away.
func (s *TaggingScheduler) execute() {
	acquired, err := s.locker.Acquire(s.ctx, taggingLockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to acquire tagging lease", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("tagging batch running elsewhere, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Timeout)
	defer cancel()

	result, err := s.runner.TagUntagged(ctx, s.cfg.BatchSize)
	if err != nil || result.Failed > 0 {
		if relErr := s.locker.Release(s.ctx, taggingLockKey); relErr != nil {
			s.logger.Error("failed to release tagging lease", zap.Error(relErr))
		}
		s.logger.Warn("tagging batch incomplete, lease released",
			zap.Int("tagged", result.Tagged),
			zap.Int("failed", result.Failed),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("tagging batch completed, lease held for cooldown",
		zap.Int("tagged", result.Tagged),
		zap.Duration("cooldown", s.cfg.Interval),
	)
}
