package model

import "time"

type BookingStatus string

const (
	// StatusHold reserves inventory while payment is pending. Holds count
	// toward exclusivity and quota exactly like completed bookings.
	StatusHold      BookingStatus = "hold"
	StatusComplete  BookingStatus = "complete"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses are the statuses that occupy inventory.
var ActiveStatuses = []BookingStatus{StatusHold, StatusComplete}

type Booking struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	Reference string `json:"reference" bson:"reference"`

	MemberID   string     `json:"member_id" bson:"member_id" validate:"required"`
	PropertyID PropertyID `json:"property_id" bson:"property_id" validate:"required"`

	CheckinDate  time.Time `json:"checkin_date" bson:"checkin_date" validate:"required"`
	CheckoutDate time.Time `json:"checkout_date" bson:"checkout_date" validate:"required,gtfield=CheckinDate"`

	Mode    BookingMode `json:"mode" bson:"mode" validate:"required,oneof=room buyout"`
	RoomIDs []string    `json:"room_ids,omitempty" bson:"room_ids,omitempty" validate:"omitempty,dive,min=1"`

	GuestsCount   int      `json:"guests_count" bson:"guests_count" validate:"required,min=1"`
	ChildrenCount int      `json:"children_count" bson:"children_count" validate:"min=0"`
	GuestNames    []string `json:"guest_names,omitempty" bson:"guest_names,omitempty"`
	ContactPhone  string   `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`

	Status     BookingStatus `json:"status" bson:"status" validate:"required,oneof=hold complete cancelled"`
	TotalCents int64         `json:"total_cents" bson:"total_cents" validate:"min=0"`

	// Nonce is the client-supplied submission nonce used to de-duplicate
	// retried create requests.
	Nonce string `json:"nonce,omitempty" bson:"nonce,omitempty"`

	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

func (b *Booking) Nights() int {
	return NightsBetween(b.CheckinDate, b.CheckoutDate)
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusHold || b.Status == StatusComplete
}

// RoomCount returns how many rooms the booking occupies toward the member
// quota; a buyout counts as the whole property, reported as its room count
// by the caller that knows it.
func (b *Booking) RoomCount() int {
	return len(b.RoomIDs)
}

// OverlapsStay reports whether the booking intersects [checkin, checkout).
func (b *Booking) OverlapsStay(checkin, checkout time.Time) bool {
	return Overlaps(b.CheckinDate, b.CheckoutDate, checkin, checkout)
}

// StayRequest is the immutable value the stay rules and the quote engine
// evaluate. Handlers build it once per request; nothing mutates it after.
type StayRequest struct {
	MemberID     string      `json:"member_id" validate:"required"`
	PropertyID   PropertyID  `json:"property_id" validate:"required"`
	CheckinDate  time.Time   `json:"checkin_date" validate:"required"`
	CheckoutDate time.Time   `json:"checkout_date" validate:"required,gtfield=CheckinDate"`
	Mode         BookingMode `json:"mode" validate:"required,oneof=room buyout"`

	RoomIDs       []string `json:"room_ids,omitempty" validate:"omitempty,dive,min=1"`
	GuestsCount   int      `json:"guests_count" validate:"required,min=1"`
	ChildrenCount int      `json:"children_count" validate:"min=0"`

	GuestNames   []string `json:"guest_names,omitempty"`
	ContactPhone string   `json:"contact_phone,omitempty"`
	Nonce        string   `json:"nonce,omitempty"`
}

func (r StayRequest) Nights() int {
	return NightsBetween(r.CheckinDate, r.CheckoutDate)
}
