package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/infrastructure/auditlog"
)

// Status is a point-in-time view of dependency health.
type Status struct {
	PostgreSQL bool
	Redis      bool
	AuditLog   bool
	AuditSize  int
	CheckedAt  time.Time
}

// Monitor polls dependency connectivity on an interval and serves the latest
// snapshot to the health endpoint.
type Monitor struct {
	pg    *pgxpool.Pool
	redis *redislib.Client
	audit *auditlog.Store

	mu       sync.RWMutex
	status   Status
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, audit *auditlog.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		audit:    audit,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start begins the polling loop. The first check runs immediately.
func (m *Monitor) Start() {
	m.check()
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.check()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the polling loop.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// GetStatus returns the most recent snapshot.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status := Status{CheckedAt: time.Now().UTC()}

	if m.pg != nil {
		status.PostgreSQL = m.pg.Ping(ctx) == nil
	}
	if m.redis != nil {
		status.Redis = m.redis.Ping(ctx).Err() == nil
	}
	if m.audit != nil {
		size, err := m.audit.Size()
		status.AuditLog = err == nil
		status.AuditSize = size
	}

	if !status.PostgreSQL || !status.Redis {
		m.logger.Warn("dependency check degraded",
			zap.Bool("postgresql", status.PostgreSQL),
			zap.Bool("redis", status.Redis),
			zap.Bool("audit_log", status.AuditLog),
		)
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
