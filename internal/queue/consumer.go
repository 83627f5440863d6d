package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sender delivers one rendered notification to the buyer. The real
// transactional email provider sits behind this interface; the default
// LogSender appends to logs/notifications.log so development and tests
// run without credentials.
type Sender interface {
	Send(n TicketNotification) error
}

// StartNotificationConsumer connects to RabbitMQ, declares the
// ticket.notifications queue (durable) and consumes messages, handing
// each to the sender. It runs a reconnect loop with exponential
// backoff and keeps the server operating through broker outages;
// malformed messages are rejected without requeue to avoid tight
// loops.
func StartNotificationConsumer(sender Sender) error {
	if sender == nil {
		sender = LogSender{}
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("notify-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, sender); err != nil {
			log.Printf("notify-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, sender Sender) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notify-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(notificationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(notificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var n TicketNotification
		if err := json.Unmarshal(d.Body, &n); err != nil {
			log.Printf("notify-consumer: unmarshal failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := sender.Send(n); err != nil {
			log.Printf("notify-consumer: send failed for %s: %v", n.ConfirmationCode, err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// LogSender appends each notification as one human-readable line to
// logs/notifications.log.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(n TicketNotification) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s kind=%s to=%s name=%q event=%q starts=%s seats=%s amount=%d code=%s url=%s\n",
		time.Now().UTC().Format(time.RFC3339), n.Kind, n.To, n.Name, n.EventTitle,
		n.EventStartsAt, strings.Join(n.SeatLabels, ","), n.AmountCents,
		n.ConfirmationCode, n.RetrieveURL)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}
