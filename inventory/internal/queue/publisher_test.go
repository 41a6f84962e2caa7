package queue

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/pkg/circuit_breaker"
	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
)

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewPublisher(producer, circuit_breaker.New(10, time.Second, 0.5, 1), zap.NewExample())
	t.Cleanup(func() { require.NoError(t, pub.Close()) })

	event := kafka.LoanEvent{
		EventID:  "5b3c3f5e-4a0b-4bd2-9df3-0e0f4f1a2b3c",
		Type:     kafka.EventLoanApproved,
		LoanID:   42,
		ToStatus: "ACTIVE",
	}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		got, err := kafka.DecodeLoanEvent(val)
		if err != nil {
			return err
		}
		require.Equal(t, event.EventID, got.EventID)
		require.Equal(t, int64(42), got.LoanID)
		return nil
	})
	require.NoError(t, pub.Publish(context.Background(), event))
}

func TestPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	cb := circuit_breaker.New(2, time.Minute, 0.5, 1)
	pub := NewPublisher(producer, cb, zap.NewExample())
	t.Cleanup(func() { _ = pub.Close() })

	event := kafka.LoanEvent{EventID: "e1", Type: kafka.EventLoanCreated, LoanID: 1}

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	require.ErrorIs(t, pub.Publish(context.Background(), event), sarama.ErrOutOfBrokers)
	require.Equal(t, circuit_breaker.Open, cb.State())

	// the open breaker rejects without reaching the producer
	require.ErrorIs(t, pub.Publish(context.Background(), event), circuit_breaker.ErrOpenCB)
}
