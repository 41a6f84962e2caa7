package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	LoanEventsTopic = "loan-events"

	NotifierConsumerGroup = "notifier"
)

type Config struct {
	// Addrs is a comma separated broker list. Empty disables event publishing.
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume blocks until ctx is done, rejoining the group after every rebalance.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return errors.Wrap(err, "group.Consume")
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type EventType string

const (
	EventLoanCreated  EventType = "loan.created"
	EventLoanApproved EventType = "loan.approved"
	EventLoanRejected EventType = "loan.rejected"
	EventLoanReturned EventType = "loan.returned"
	EventLoanOverdue  EventType = "loan.overdue"
)

// LoanEvent is published after a loan lifecycle change is committed.
type LoanEvent struct {
	EventID      string    `json:"eventId"`
	Type         EventType `json:"type"`
	LoanID       int64     `json:"loanId"`
	FromStatus   string    `json:"fromStatus,omitempty"`
	ToStatus     string    `json:"toStatus"`
	BorrowerName string    `json:"borrowerName"`
	DueDate      time.Time `json:"dueDate"`
	UserName     string    `json:"userName,omitempty"`
	WriteOff     bool      `json:"writeOff,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e LoanEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeLoanEvent(data []byte) (LoanEvent, error) {
	var e LoanEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LoanEvent{}, err
	}
	if e.EventID == "" || e.LoanID == 0 {
		return LoanEvent{}, errors.New("loan event: eventId and loanId are required")
	}
	return e, nil
}
