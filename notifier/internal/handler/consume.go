package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/notifier/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
)

type loanEventHandler func(ctx context.Context, e kafka.LoanEvent) error

const (
	handleAttempts = 3
	retryBackoff   = 500 * time.Millisecond
)

type Consumer struct {
	handle    loanEventHandler
	log       *zap.Logger
	ready     chan struct{}
	readyOnce sync.Once
	backoff   time.Duration
}

func NewConsumer(handle loanEventHandler, log *zap.Logger) *Consumer {
	return &Consumer{
		handle:  handle,
		log:     log.Named("consumer"),
		ready:   make(chan struct{}),
		backoff: retryBackoff,
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan struct{} {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	consumer.readyOnce.Do(func() { close(consumer.ready) })
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks a message only once it is stored or can never be stored.
// A message that keeps failing ends the claim so it is redelivered in the next session.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			event, err := kafka.DecodeLoanEvent(message.Value)
			if err != nil {
				consumer.log.Error("decode loan event", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}
			if err = consumer.handleWithRetry(session.Context(), event); err != nil {
				if errors.Is(err, errs.ErrBadEvent) {
					consumer.log.Error("skip loan event", zap.Error(err), zap.String("event_id", event.EventID))
					session.MarkMessage(message, "")
					continue
				}
				return err
			}

			consumer.log.Debug("Message claimed:",
				zap.String("event_id", event.EventID),
				zap.String("type", string(event.Type)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handleWithRetry(ctx context.Context, event kafka.LoanEvent) error {
	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = consumer.handle(ctx, event); err == nil || errors.Is(err, errs.ErrBadEvent) {
			return err
		}
		consumer.log.Warn("handle loan event", zap.Error(err), zap.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(consumer.backoff * time.Duration(attempt)):
		}
	}
	return err
}
