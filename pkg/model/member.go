package model

// MembershipTier is a derived attribute of a member, owned by the
// subscription service. It parameterizes the room quota rules; it is never
// stored on a booking.
type MembershipTier string

const (
	TierNone     MembershipTier = "none"
	TierSingle   MembershipTier = "single"
	TierFamily   MembershipTier = "family"
	TierLifetime MembershipTier = "lifetime"
)

// RoomQuota is the number of rooms a member may hold across overlapping
// active bookings.
func (t MembershipTier) RoomQuota() int {
	switch t {
	case TierSingle:
		return 1
	case TierFamily, TierLifetime:
		return 2
	default:
		return 0
	}
}

// AllowsSecondBooking reports whether the tier may add a second overlapping
// booking at all; only family and lifetime members can, and only for a
// single extra room.
func (t MembershipTier) AllowsSecondBooking() bool {
	return t == TierFamily || t == TierLifetime
}

type Member struct {
	ID       string         `json:"id" bson:"_id"`
	FullName string         `json:"full_name" bson:"full_name"`
	Email    string         `json:"email" bson:"email"`
	Phone    string         `json:"phone,omitempty" bson:"phone,omitempty"`
	Tier     MembershipTier `json:"tier" bson:"tier"`
}
