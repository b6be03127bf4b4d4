package model

type BookingMode string

const (
	ModeRoom   BookingMode = "room"
	ModeBuyout BookingMode = "buyout"
)

type RateBasis string

const (
	BasisPerPersonPerNight RateBasis = "per_person_per_night"
	BasisBuyoutFixed       RateBasis = "buyout_fixed"
)

// PricingRule prices a (property, season, mode, basis) combination. RoomID
// and CategoryID narrow the rule; lookup resolves room-specific over
// category-specific over property-wide. All amounts are cents.
type PricingRule struct {
	ID         string      `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID PropertyID  `json:"property_id" bson:"property_id" validate:"required"`
	SeasonID   string      `json:"season_id,omitempty" bson:"season_id,omitempty"`
	RoomID     string      `json:"room_id,omitempty" bson:"room_id,omitempty"`
	CategoryID string      `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Mode       BookingMode `json:"mode" bson:"mode" validate:"required,oneof=room buyout"`
	Basis      RateBasis   `json:"basis" bson:"basis" validate:"required,oneof=per_person_per_night buyout_fixed"`

	AmountCents int64 `json:"amount_cents" bson:"amount_cents" validate:"required,min=0"`

	// ChildrenAmountCents is optional; 0 means the rule carries no child
	// rate and resolution falls through to the configured default.
	ChildrenAmountCents int64 `json:"children_amount_cents,omitempty" bson:"children_amount_cents,omitempty" validate:"min=0"`
}

// Quote is the priced result of a stay request, with enough breakdown for
// the UI to explain the total.
type Quote struct {
	Mode   BookingMode `json:"mode"`
	Nights int         `json:"nights"`

	AdultRateCents int64 `json:"adult_rate_cents,omitempty"`
	ChildRateCents int64 `json:"child_rate_cents,omitempty"`

	BillableAdults int `json:"billable_adults,omitempty"`
	Children       int `json:"children,omitempty"`

	BaseCents        int64 `json:"base_cents"`
	ChildrenFeeCents int64 `json:"children_fee_cents,omitempty"`
	TotalCents       int64 `json:"total_cents"`

	// UsingMinimumPricing is set when the billed occupancy exceeds the
	// actual guest count because of a room's billing floor.
	UsingMinimumPricing bool `json:"using_minimum_pricing,omitempty"`
}
