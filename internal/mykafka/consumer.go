package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

const orderCreatedTopic = "order.created"

// OrderCreatedEvent is the payload published when an order is placed.
type OrderCreatedEvent struct {
	OrderID   uint    `json:"orderId"`
	UserID    uint    `json:"userId"`
	Total     float64 `json:"total"`
	Timestamp int64   `json:"timestamp"`
	Status    string  `json:"status"`
}

// Consumer reads order.created events and applies the follow-up side effects
// (inventory sync, customer notification).
type Consumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

func NewConsumer(brokers []string, groupID string, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   orderCreatedTopic,
	})
	return &Consumer{reader: r, log: log}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var event OrderCreatedEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			c.log.Error("order event decode failed", "error", err, "payload", string(m.Value))
			continue
		}

		c.log.Info("order received",
			"order_id", event.OrderID,
			"user_id", event.UserID,
			"total", event.Total,
			"status", event.Status,
		)
		c.updateInventory(event)
		c.sendNotification(event)
	}
}

func (c *Consumer) updateInventory(event OrderCreatedEvent) {
	c.log.Info("updating inventory", "order_id", event.OrderID)
}

func (c *Consumer) sendNotification(event OrderCreatedEvent) {
	c.log.Info("sending notification", "order_id", event.OrderID, "user_id", event.UserID)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
