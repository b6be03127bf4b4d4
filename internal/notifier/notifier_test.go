package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/contracts"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
)

type captureSender struct {
	memberID string
	subject  string
	body     string
	err      error
}

func (s *captureSender) Send(_ context.Context, memberID, subject, body string) error {
	s.memberID = memberID
	s.subject = subject
	s.body = body
	return s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "notifier-test",
	})
}

func createdMessage(t *testing.T) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey("cabin").
		WithValue(contracts.BookingEvent{
			BookingID:    "booking-1",
			Reference:    "LDG-A1B2C3D4",
			MemberID:     "member-1",
			PropertyID:   "cabin",
			Mode:         "room",
			CheckinDate:  time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			CheckoutDate: time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
			GuestsCount:  2,
			TotalCents:   18000,
			Status:       "hold",
			OccurredAt:   time.Now().UTC(),
		}).
		WithEventType(contracts.EventBookingCreated).
		Build()
}

func TestHandleMessageSendsConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(testLogger(), sender)

	if err := svc.HandleMessage(context.Background(), createdMessage(t)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if sender.memberID != "member-1" {
		t.Errorf("member = %q, want member-1", sender.memberID)
	}
	if !strings.Contains(sender.subject, "LDG-A1B2C3D4") {
		t.Errorf("subject %q missing reference", sender.subject)
	}
	if !strings.Contains(sender.body, "$180.00") {
		t.Errorf("body %q missing total", sender.body)
	}
	if !strings.Contains(sender.body, "2 nights") {
		t.Errorf("body %q missing nights", sender.body)
	}
}

func TestHandleMessageMalformedPayloadIsPermanent(t *testing.T) {
	svc := NewService(testLogger(), &captureSender{})

	msg := kafka.NewMessage().WithKey("cabin").Build()
	msg.Value = []byte("{not json")

	err := svc.HandleMessage(context.Background(), msg)
	var perr *kafka.ProcessingError
	if !errors.As(err, &perr) || perr.Type != kafka.ErrorTypePermanent {
		t.Fatalf("expected permanent processing error, got %v", err)
	}
}

func TestHandleMessageSenderFailureIsTransient(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewService(testLogger(), sender)

	err := svc.HandleMessage(context.Background(), createdMessage(t))
	var perr *kafka.ProcessingError
	if !errors.As(err, &perr) || perr.Type != kafka.ErrorTypeTransient {
		t.Fatalf("expected transient processing error, got %v", err)
	}
}

func TestHandleMessageIgnoresUnknownEventType(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(testLogger(), sender)

	msg := createdMessage(t)
	msg.Headers[kafka.HeaderEventType] = "booking.snoozed"

	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if sender.subject != "" {
		t.Errorf("unexpected send: %q", sender.subject)
	}
}
