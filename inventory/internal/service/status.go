package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
)

const maxTransitionAttempts = 3

// Transition moves a loan to req.Status. A lost compare-and-set is retried
// against the fresh status while the target stays reachable from it.
func (s *Service) Transition(ctx context.Context, id int64, req model.TransitionRequest) (model.Loan, error) {
	if !req.Status.Valid() {
		return model.Loan{}, errs.NewValidationError("status", "unknown status "+string(req.Status))
	}
	if req.WriteOff && req.Status != model.StatusCompleted {
		return model.Loan{}, errs.NewValidationError("writeOff", "only allowed when completing a loan")
	}
	action := model.StockActionFor(req.Status, req.WriteOff)

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		current, err := s.repo.GetLoan(ctx, id)
		if err != nil {
			return model.Loan{}, err
		}
		if !model.CanTransition(current.Status, req.Status) {
			return model.Loan{}, &errs.InvalidTransitionError{Current: current.Status, Target: req.Status}
		}
		// OVERDUE follows the same rule as the scanner and the overdue count.
		if req.Status == model.StatusOverdue && !current.DueDate.Before(s.today()) {
			return model.Loan{}, &errs.InvalidTransitionError{
				Current: current.Status,
				Target:  req.Status,
				Reason:  "loan is not past its due date",
			}
		}
		loan, err := s.repo.CompareAndSetStatus(ctx, id, current.Status, req.Status, action)
		if err == nil {
			s.log.Info("loan status changed",
				zap.Int64("loan_id", id),
				zap.String("from", string(current.Status)),
				zap.String("to", string(req.Status)))
			s.publish(ctx, loan, current.Status, req.UserName, req.WriteOff)
			return loan, nil
		}
		if !errors.Is(err, errs.ErrStatusChanged) {
			return model.Loan{}, err
		}
		s.log.Debug("lost status race",
			zap.Int64("loan_id", id),
			zap.String("expected", string(current.Status)),
			zap.Int("attempt", attempt))
	}
	return model.Loan{}, errs.ErrConcurrencyConflict
}
