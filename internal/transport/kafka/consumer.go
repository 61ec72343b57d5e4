package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// HandleFunc processes a single notification from Kafka
type HandleFunc func(context.Context, domain.Notification) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and dispatches notifications to a handler
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
	backoff time.Duration
}

// NewConsumer creates a new Kafka consumer. It returns nil, nil when Kafka is
// not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	// не стратую если у кафки нет настроек
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	// старые уведомления не нужны: оффер живёт секунды
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		topic:   strings.TrimSpace(topic),
		handler: h,
		logger:  logger.With(logx.Component("kafka")),
		backoff: time.Second,
	}, nil
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("kafka consume error", logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim handles messages one by one. A notification is delivered at
// most once: handler failures are logged and the message is marked anyway.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto NotificationDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json", logx.Err(err), logx.Int("partition", int(msg.Partition)))
			sess.MarkMessage(msg, "")
			continue
		}
		n := ToDomain(dto)
		if n.Title == "" {
			h.c.logger.Warn("kafka empty title", logx.Int("partition", int(msg.Partition)))
			sess.MarkMessage(msg, "")
			continue
		}

		ctx := sess.Context()
		if err := h.c.handler(ctx, n); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return err
			}
			h.c.logger.Warn("kafka handle failed, skipping message", logx.String("title", n.Title), logx.Err(err))
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
