package service

import (
	"context"
	"time"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/queue"
)

// Notifier hands a rendered notification to the delivery pipeline.
// Production wires the AMQP publisher; tests substitute a recorder.
type Notifier interface {
	Notify(ctx context.Context, n queue.TicketNotification) error
}

// AMQPNotifier publishes notifications to the broker queue consumed by
// queue.StartNotificationConsumer.
type AMQPNotifier struct{}

// Notify implements Notifier.
func (AMQPNotifier) Notify(ctx context.Context, n queue.TicketNotification) error {
	return queue.PublishNotification(ctx, n)
}

// buildNotification assembles the template parameters for a ticket
// notification, including the deep link used to retrieve the ticket by
// confirmation code.
func buildNotification(kind string, t *model.Ticket, baseURL string, now time.Time) queue.TicketNotification {
	return queue.TicketNotification{
		Kind:             kind,
		To:               t.Customer.Email,
		Name:             t.Customer.FirstName + " " + t.Customer.LastName,
		EventID:          t.EventID,
		EventTitle:       t.EventTitle,
		EventStartsAt:    t.EventStartsAt.UTC().Format(time.RFC3339),
		Venue:            t.Venue,
		SeatLabels:       t.SeatLabels(),
		AmountCents:      t.TotalCents,
		ConfirmationCode: t.ConfirmationCode,
		RetrieveURL:      baseURL + "/v1/tickets/" + t.ConfirmationCode,
		SentAt:           now.UTC().Format(time.RFC3339),
	}
}
