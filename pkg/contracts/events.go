package contracts

import "time"

// Booking event types published to the booking events topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload shared by the bookings producer and the
// notifier consumer. Messages are keyed by PropertyID so events for one
// property are consumed in order.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	Reference    string    `json:"reference"`
	MemberID     string    `json:"member_id"`
	PropertyID   string    `json:"property_id"`
	Mode         string    `json:"mode"`
	RoomIDs      []string  `json:"room_ids,omitempty"`
	CheckinDate  time.Time `json:"checkin_date"`
	CheckoutDate time.Time `json:"checkout_date"`
	GuestsCount  int       `json:"guests_count"`
	TotalCents   int64     `json:"total_cents"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
