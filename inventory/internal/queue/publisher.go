package queue

import (
	"context"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/pkg/circuit_breaker"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
)

// Publisher sends loan events keyed by loan id, so events of one loan keep their order.
type Publisher struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		cb:       cb,
		topic:    kafka.LoanEventsTopic,
		log:      log.Named("publisher"),
	}
}

func (p *Publisher) Publish(_ context.Context, event kafka.LoanEvent) error {
	data, err := event.Encode()
	if err != nil {
		return errors.Wrap(err, "encode loan event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.LoanID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	err = p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return err
		}
		p.log.Debug("loan event sent",
			zap.String("event_id", event.EventID),
			zap.String("type", string(event.Type)),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "publish %s", event.Type)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
