package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is published on every booking lifecycle change.
type BookingEvent struct {
	Type       string    `json:"type"`
	Ref        string    `json:"ref"`
	UserID     int64     `json:"user_id"`
	TableID    int64     `json:"table_id"`
	PartySize  int       `json:"party_size"`
	StartsAt   time.Time `json:"starts_at"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
}

// PaymentEvent arrives from the external payment collaborator on the
// payments topic once a payment settles.
type PaymentEvent struct {
	BookingRef    string `json:"booking_ref"`
	UserID        int64  `json:"user_id"`
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
	Currency      string `json:"currency"`
	Verified      bool   `json:"verified"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
