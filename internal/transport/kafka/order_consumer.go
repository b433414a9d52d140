package kafkat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tgstore/internal/entity"
	"tgstore/internal/service"
	"tgstore/pkg/logger"
	"tgstore/pkg/metric"

	"github.com/segmentio/kafka-go"
)

// OrderConsumer reads checkout events from the shop front end and registers
// them as orders. Duplicate deliveries and malformed payloads are logged and
// skipped; the consumer only stops on context cancellation or a broken
// reader.
type OrderConsumer struct {
	reader  *kafka.Reader
	svc     *service.OrderService
	log     logger.Logger
	metrics metric.Kafka
}

func NewOrderConsumer(
	reader *kafka.Reader,
	svc *service.OrderService,
	log logger.Logger,
	metrics metric.Kafka,
) *OrderConsumer {
	return &OrderConsumer{
		reader:  reader,
		svc:     svc,
		log:     log,
		metrics: metrics,
	}
}

func (c *OrderConsumer) Run(ctx context.Context) error {
	const op = "transport.kafka.OrderConsumer.Run"

	c.log.Infow("starting checkout consumer",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID,
	)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.log.Infow("checkout consumer stopping", "reason", err)
				return nil
			}
			return fmt.Errorf("%s: read message: %w", op, err)
		}

		c.handleMessage(ctx, msg)
	}
}

func (c *OrderConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	const op = "transport.kafka.OrderConsumer.handleMessage"

	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		c.log.Errorw("malformed checkout event",
			"op", op,
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		c.metrics.MessageFailed(msg.Topic, msg.Partition, "unmarshal")
		return
	}

	if err := c.svc.RegisterOrder(ctx, &order); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicateOrder):
			c.log.Warnw("checkout event already registered, skipping",
				"op", op,
				"order_id", order.ID,
				"offset", msg.Offset,
			)
			c.metrics.MessageFailed(msg.Topic, msg.Partition, "duplicate")
		case errors.Is(err, entity.ErrInvalidData):
			c.log.Errorw("checkout event failed validation",
				"op", op,
				"order_id", order.ID,
				"offset", msg.Offset,
				"error", err,
			)
			c.metrics.MessageFailed(msg.Topic, msg.Partition, "validation")
		default:
			c.log.Errorw("failed to register order",
				"op", op,
				"order_id", order.ID,
				"offset", msg.Offset,
				"error", err,
			)
			c.metrics.MessageFailed(msg.Topic, msg.Partition, "register")
		}
		return
	}

	c.metrics.MessageProcessed(msg.Topic, msg.Partition)
}

func (c *OrderConsumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("transport.kafka.OrderConsumer.Close: %w", err)
	}
	return nil
}
