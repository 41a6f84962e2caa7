package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

// ScanOverdue promotes ACTIVE loans due before the date of now to OVERDUE.
// A loan moved by someone else since it was selected is skipped, so a second
// scan with the same now changes nothing.
func (s *Service) ScanOverdue(ctx context.Context, now time.Time) (model.ScanResult, error) {
	today := model.NewDate(now.UTC()).Time
	res := model.ScanResult{At: now.UTC(), Promoted: []int64{}}

	ids, err := s.repo.OverdueCandidates(ctx, today)
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		loan, err := s.repo.CompareAndSetStatus(ctx, id, model.StatusActive, model.StatusOverdue, model.StockNone)
		if errors.Is(err, errs.ErrStatusChanged) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}
		res.Promoted = append(res.Promoted, id)
		s.publish(ctx, loan, model.StatusActive, "", false)
	}
	if len(ids) > 0 {
		s.log.Info("overdue scan",
			zap.Time("today", today),
			zap.Int("promoted", len(res.Promoted)),
			zap.Int("skipped", res.Skipped))
	}
	return res, nil
}

// ScanOverdueNow runs ScanOverdue with the service clock.
func (s *Service) ScanOverdueNow(ctx context.Context) (model.ScanResult, error) {
	return s.ScanOverdue(ctx, s.now())
}
