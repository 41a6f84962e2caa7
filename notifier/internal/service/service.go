package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/notifier/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/model"
	"github.com/Astemirdum/inventory-loan-service/notifier/internal/repository"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

// HandleLoanEvent stores one notification per event. Redelivered events are ignored.
func (s *Service) HandleLoanEvent(ctx context.Context, e kafka.LoanEvent) error {
	if _, err := uuid.Parse(e.EventID); err != nil {
		return errors.Wrapf(errs.ErrBadEvent, "event id %q", e.EventID)
	}
	msg, ok := message(e)
	if !ok {
		return errors.Wrapf(errs.ErrBadEvent, "event type %q", e.Type)
	}
	created, err := s.repo.Save(ctx, model.Notification{
		EventID:      e.EventID,
		LoanID:       e.LoanID,
		EventType:    string(e.Type),
		LoanStatus:   e.ToStatus,
		BorrowerName: e.BorrowerName,
		Message:      msg,
	})
	if err != nil {
		return err
	}
	if !created {
		s.log.Debug("duplicate event skipped", zap.String("event_id", e.EventID))
	}
	return nil
}

func message(e kafka.LoanEvent) (string, bool) {
	due := e.DueDate.Format(time.DateOnly)
	switch e.Type {
	case kafka.EventLoanCreated:
		return fmt.Sprintf("Loan #%d for %s was created and awaits approval", e.LoanID, e.BorrowerName), true
	case kafka.EventLoanApproved:
		return fmt.Sprintf("Loan #%d was approved, due back on %s", e.LoanID, due), true
	case kafka.EventLoanRejected:
		return fmt.Sprintf("Loan #%d was rejected", e.LoanID), true
	case kafka.EventLoanReturned:
		if e.WriteOff {
			return fmt.Sprintf("Loan #%d was closed and its items written off", e.LoanID), true
		}
		return fmt.Sprintf("Loan #%d was returned", e.LoanID), true
	case kafka.EventLoanOverdue:
		return fmt.Sprintf("Loan #%d is overdue, it was due on %s", e.LoanID, due), true
	}
	return "", false
}

func (s *Service) ListNotifications(ctx context.Context, filter model.Filter) (model.ListNotifications, error) {
	filter.Page, filter.Size = model.Normalize(filter.Page, filter.Size)
	return s.repo.List(ctx, filter)
}

func (s *Service) MarkRead(ctx context.Context, id int64) (model.Notification, error) {
	return s.repo.MarkRead(ctx, id)
}
