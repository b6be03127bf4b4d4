package service

import (
	"context"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/contracts"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

// publishEvent emits a booking lifecycle event, fire-and-forget. Events are
// keyed by property so consumers observe per-property ordering; a publish
// failure is logged and never fails the booking.
func (s *BookingService) publishEvent(booking *model.Booking, eventType string) {
	if s.deps.Events == nil {
		return
	}

	event := contracts.BookingEvent{
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		MemberID:     booking.MemberID,
		PropertyID:   string(booking.PropertyID),
		Mode:         string(booking.Mode),
		RoomIDs:      booking.RoomIDs,
		CheckinDate:  booking.CheckinDate,
		CheckoutDate: booking.CheckoutDate,
		GuestsCount:  booking.GuestsCount,
		TotalCents:   booking.TotalCents,
		Status:       string(booking.Status),
		OccurredAt:   s.now(),
	}

	msg := kafka.NewMessage().
		WithKey(string(booking.PropertyID)).
		WithValue(event).
		WithEventType(eventType).
		WithCorrelationID(booking.ID).
		WithSource(s.cfg.ServiceName).
		Build()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.deps.Events.Publish(ctx, msg); err != nil {
			s.cfg.Log.Error("Failed to publish booking event",
				"event_type", eventType,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()
}
