package notify

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Subscriber consumes storefront events. Used by the notifier worker, which
// turns order and verification events into outbound mail.
type Subscriber struct {
	ch *amqp.Channel
}

func NewSubscriber(ch *amqp.Channel) *Subscriber {
	return &Subscriber{ch: ch}
}

// Subscribe binds a durable queue to the given routing-key pattern and feeds
// deliveries to handler until ctx is cancelled. Handler errors nack the
// message back onto the queue.
func (s *Subscriber) Subscribe(ctx context.Context, queue, pattern string, handler func(routingKey string, body []byte) error) error {
	q, err := s.ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("could not declare queue: %w", err)
	}

	if err := s.ch.QueueBind(q.Name, pattern, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("could not bind queue: %w", err)
	}

	msgs, err := s.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("could not start consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(d.RoutingKey, d.Body); err != nil {
				log.Printf("notify: handler error key=%s: %v", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
