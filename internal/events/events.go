// Package events publishes order lifecycle notifications after they are committed.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"driphorizon/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderPlaced        = "OrderPlaced"
	TypeOrderCancelled     = "OrderCancelled"
	TypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderEvent is the JSON payload written to the order events topic.
type OrderEvent struct {
	Type            string             `json:"type"`
	OrderID         int64              `json:"orderId"`
	UserID          int64              `json:"userId,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	Reason          string             `json:"reason,omitempty"`
	TotalPriceCents int64              `json:"totalPriceCents,omitempty"`
	OccurredAt      time.Time          `json:"occurredAt"`
}

// Placed builds the event for a freshly inserted order.
func Placed(o domain.Order) OrderEvent {
	return OrderEvent{
		Type:            TypeOrderPlaced,
		OrderID:         o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalPriceCents: o.TotalPriceCents,
		OccurredAt:      time.Now().UTC(),
	}
}

func Cancelled(o domain.Order, reason string) OrderEvent {
	return OrderEvent{
		Type:       TypeOrderCancelled,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     domain.StatusCancelled,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// StatusChanged records an administrator override.
func StatusChanged(orderID int64, status domain.OrderStatus) OrderEvent {
	return OrderEvent{
		Type:       TypeOrderStatusChanged,
		OrderID:    orderID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a no-op one when brokers is empty.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                              { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// Publish keys messages by order id so one order's events stay on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(event OrderEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: data,
		Time:  event.OccurredAt,
	}, nil
}
