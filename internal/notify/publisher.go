package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "storefront.events"
	ExchangeType = "topic"
)

// Routing keys for the events the storefront emits.
const (
	KeyOrderConfirmed            = "order.confirmed"
	KeyOrderCancelled            = "order.cancelled"
	KeyEmailVerificationRequired = "email.verification.requested"
)

// SetupConn dials the broker and declares the topic exchange. Startup retries
// cover the broker container coming up after the API.
func SetupConn(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("notify: broker dial attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(ExchangeName, ExchangeType, true, false, false, false, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

// Publisher emits storefront events. A nil *Publisher is valid and drops
// events, so the API runs without a broker in development.
type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) *Publisher {
	if ch == nil {
		return nil
	}
	return &Publisher{ch: ch}
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}
	return p.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// OrderEvent is the payload for order.* routing keys.
type OrderEvent struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Email       string `json:"email"`
	TotalCents  int64  `json:"totalCents"`
	Currency    string `json:"currency"`
}

// VerificationEvent is the payload for email.verification.requested.
type VerificationEvent struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
