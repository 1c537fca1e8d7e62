package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"greenhaven/internal/config"
	"greenhaven/internal/notify"
)

// The notifier consumes storefront events and, in a real deployment, would
// hand them to a mail provider. Here it logs the outbound message instead.
func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[notifier] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required")
	}

	conn, ch, err := notify.SetupConn(cfg.AMQPURL)
	if err != nil {
		logger.Fatalf("connect to broker: %v", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub := notify.NewSubscriber(ch)
	err = sub.Subscribe(ctx, "notifier", "#", func(routingKey string, body []byte) error {
		switch routingKey {
		case notify.KeyOrderConfirmed, notify.KeyOrderCancelled:
			var ev notify.OrderEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				return err
			}
			logger.Printf("would mail %s: order %s %s, total %d %s",
				ev.Email, ev.OrderNumber, routingKey, ev.TotalCents, ev.Currency)
		case notify.KeyEmailVerificationRequired:
			var ev notify.VerificationEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				return err
			}
			logger.Printf("would mail %s: verification token %s", ev.Email, ev.Token)
		default:
			logger.Printf("unhandled routing key %s", routingKey)
		}
		return nil
	})
	if err != nil {
		logger.Fatalf("subscribe: %v", err)
	}

	logger.Println("notifier stopped")
}
