package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/repository"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Publisher delivers loan events once the change is committed.
type Publisher interface {
	Publish(ctx context.Context, event kafka.LoanEvent) error
}

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	pub  Publisher
	now  func() time.Time
}

func NewService(repo repository.Repository, pub Publisher, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
		pub:  pub,
		now:  time.Now,
	}
}

// today is the calendar date loans are compared against.
func (s *Service) today() time.Time {
	return model.NewDate(s.now().UTC()).Time
}

var eventTypes = map[model.Status]kafka.EventType{
	model.StatusPending:   kafka.EventLoanCreated,
	model.StatusActive:    kafka.EventLoanApproved,
	model.StatusRejected:  kafka.EventLoanRejected,
	model.StatusCompleted: kafka.EventLoanReturned,
	model.StatusOverdue:   kafka.EventLoanOverdue,
}

// publish never fails the caller: the change it reports is already committed.
func (s *Service) publish(ctx context.Context, loan model.Loan, from model.Status, userName string, writeOff bool) {
	if s.pub == nil {
		return
	}
	event := kafka.LoanEvent{
		EventID:      uuid.NewString(),
		Type:         eventTypes[loan.Status],
		LoanID:       loan.ID,
		FromStatus:   string(from),
		ToStatus:     string(loan.Status),
		BorrowerName: loan.BorrowerName,
		DueDate:      loan.DueDate,
		UserName:     userName,
		WriteOff:     writeOff,
		Timestamp:    s.now().UTC(),
	}
	if err := s.pub.Publish(ctx, event); err != nil {
		s.log.Error("publish loan event",
			zap.Int64("loan_id", loan.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}
