package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/contracts"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
)

// Sender delivers a rendered notification to a member. The default
// implementation just logs; a mail or messaging integration plugs in here.
type Sender interface {
	Send(ctx context.Context, memberID, subject, body string) error
}

type LogSender struct {
	Log *logger.Logger
}

func (s *LogSender) Send(ctx context.Context, memberID, subject, body string) error {
	s.Log.Info("Notification dispatched",
		"member_id", memberID,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Service turns booking events into member notifications.
type Service struct {
	log    *logger.Logger
	sender Sender
}

func NewService(log *logger.Logger, sender Sender) *Service {
	return &Service{log: log, sender: sender}
}

// HandleMessage is the consumer entry point. Malformed payloads are
// permanent failures and go straight to the DLQ; sender failures are
// transient and retried.
func (s *Service) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event contracts.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}
	if event.BookingID == "" || event.MemberID == "" {
		return kafka.NewPermanentError("booking event missing required fields", nil)
	}

	subject, body := s.render(msg.Headers[kafka.HeaderEventType], event)
	if subject == "" {
		s.log.Debug("Ignoring unhandled event type",
			"event_type", msg.Headers[kafka.HeaderEventType],
			"booking_id", event.BookingID,
		)
		return nil
	}

	if err := s.sender.Send(ctx, event.MemberID, subject, body); err != nil {
		return kafka.NewTransientError("failed to send notification", err)
	}
	return nil
}

func (s *Service) render(eventType string, event contracts.BookingEvent) (subject, body string) {
	nights := int(event.CheckoutDate.Sub(event.CheckinDate).Hours() / 24)
	stay := fmt.Sprintf("%s to %s (%d nights)",
		event.CheckinDate.Format("Mon 2 Jan 2006"),
		event.CheckoutDate.Format("Mon 2 Jan 2006"),
		nights,
	)

	switch eventType {
	case contracts.EventBookingCreated:
		subject = fmt.Sprintf("Booking confirmed: %s", event.Reference)
		body = fmt.Sprintf(
			"Your booking %s at %s is confirmed for %s. Total: $%.2f.",
			event.Reference, event.PropertyID, stay, float64(event.TotalCents)/100,
		)
	case contracts.EventBookingCancelled:
		subject = fmt.Sprintf("Booking cancelled: %s", event.Reference)
		body = fmt.Sprintf(
			"Your booking %s at %s for %s has been cancelled as of %s.",
			event.Reference, event.PropertyID, stay,
			event.OccurredAt.Format(time.RFC1123),
		)
	}
	return subject, body
}
