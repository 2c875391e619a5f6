package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/infrastructure/auditlog"
)

// RetentionSweeper prunes audit entries older than the retention window on a
// ticker. It never touches request handling; a failed sweep is retried on the
// next tick.
type RetentionSweeper struct {
	store     *auditlog.Store
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewRetentionSweeper(store *auditlog.Store, retention, interval time.Duration, logger *zap.Logger) *RetentionSweeper {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionSweeper{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *RetentionSweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the loop and waits for the in-flight sweep, bounded by ctx.
func (s *RetentionSweeper) Stop(ctx context.Context) {
	s.stopOnce.Do(func() { close(s.stopCh) })
	select {
	case <-s.done:
	case <-ctx.Done():
	}
}

func (s *RetentionSweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.store.Prune(cutoff)
	if err != nil {
		s.logger.Error("audit retention sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("audit entries pruned", zap.Int("removed", removed))
	}
}
