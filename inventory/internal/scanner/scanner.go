package scanner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

const lockKey = "inventory:overdue-scan"

type OverdueService interface {
	ScanOverdueNow(ctx context.Context) (model.ScanResult, error)
}

// Locker is satisfied by *redislock.Locker.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, ok bool, err error)
}

// Scanner runs the overdue scan every interval. With a Locker only one
// replica scans per interval.
type Scanner struct {
	svc      OverdueService
	locker   Locker
	interval time.Duration
	log      *zap.Logger
}

func New(svc OverdueService, locker Locker, interval time.Duration, log *zap.Logger) *Scanner {
	return &Scanner{
		svc:      svc,
		locker:   locker,
		interval: interval,
		log:      log.Named("scanner"),
	}
}

// Run blocks until ctx is done.
func (s *Scanner) Run(ctx context.Context) {
	s.log.Info("overdue scanner started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("overdue scanner stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scanner) tick(ctx context.Context) {
	var unlock func(context.Context) error
	if s.locker != nil {
		// a successful scan keeps the lock until it expires, so other replicas skip this interval
		var (
			ok  bool
			err error
		)
		unlock, ok, err = s.locker.TryLock(ctx, lockKey, s.interval*9/10)
		if err != nil {
			s.log.Warn("scan lock", zap.Error(err))
			return
		}
		if !ok {
			s.log.Debug("scan owned by another replica")
			return
		}
	}

	res, err := s.svc.ScanOverdueNow(ctx)
	if err != nil {
		s.log.Error("overdue scan", zap.Error(err), zap.Int("promoted", len(res.Promoted)))
		if unlock != nil {
			if err = unlock(ctx); err != nil {
				s.log.Warn("scan unlock", zap.Error(err))
			}
		}
		return
	}
	s.log.Debug("overdue scan done", zap.Int("promoted", len(res.Promoted)), zap.Int("skipped", res.Skipped))
}
