package model

import (
	"fmt"
	"time"
)

// PropertyInventory is one document per (property, calendar day). It is the
// contention point: concurrent booking attempts for overlapping ranges
// serialize on the advisory locks derived from these keys, and the unique
// (property_id, date) index makes double-writes impossible.
type PropertyInventory struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID PropertyID `json:"property_id" bson:"property_id"`
	Date       time.Time  `json:"date" bson:"date"`

	// BuyoutBooked marks the whole property occupied, whether the owning
	// booking is still a hold or already complete.
	BuyoutBooked bool `json:"buyout_booked" bson:"buyout_booked"`

	// RoomIDs are the rooms held or booked on this day.
	RoomIDs []string `json:"room_ids,omitempty" bson:"room_ids,omitempty"`

	// BookingIDs links back to the bookings occupying this day, so a
	// cancellation can release exactly what it reserved.
	BookingIDs []string `json:"booking_ids,omitempty" bson:"booking_ids,omitempty"`
}

// InventoryLock is a short-lived advisory lock over one (property, day).
// Its deterministic _id plus the collection's unique key constraint gives
// first-writer-wins semantics; ExpiresAt lets a TTL monitor reap locks
// abandoned by crashed processes.
type InventoryLock struct {
	ID        string    `json:"id" bson:"_id"`
	Owner     string    `json:"owner" bson:"owner"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// InventoryLockID derives the deterministic lock key for a property-day.
func InventoryLockID(property PropertyID, day time.Time) string {
	return fmt.Sprintf("inv_%s_%s", property, DateOnly(day).Format("2006-01-02"))
}
