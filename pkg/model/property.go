package model

import "time"

// PropertyID identifies a bookable physical property. Properties are
// admin-configured and effectively an enum; the club currently operates a
// single cabin.
type PropertyID string

const PropertyCabin PropertyID = "cabin"

type Property struct {
	ID               PropertyID `json:"id" bson:"_id" validate:"required"`
	Name             string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DefaultMaxNights int        `json:"default_max_nights" bson:"default_max_nights" validate:"required,min=1"`
	IsActive         bool       `json:"is_active" bson:"is_active"`
}

type Room struct {
	ID                   string     `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID           PropertyID `json:"property_id" bson:"property_id" validate:"required"`
	CategoryID           string     `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Name                 string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	CapacityMax          int        `json:"capacity_max" bson:"capacity_max" validate:"required,min=1"`
	MinBillableOccupancy int        `json:"min_billable_occupancy" bson:"min_billable_occupancy" validate:"min=0"`
	Beds                 string     `json:"beds,omitempty" bson:"beds,omitempty"`
	IsActive             bool       `json:"is_active" bson:"is_active"`
}

// RoomCategory groups rooms for category-level pricing fallback.
type RoomCategory struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID PropertyID `json:"property_id" bson:"property_id" validate:"required"`
	Name       string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
}

// BlackoutDate closes a property for an inclusive date range; no booking of
// any kind may overlap it.
type BlackoutDate struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID PropertyID `json:"property_id" bson:"property_id" validate:"required"`
	StartDate  time.Time  `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time  `json:"end_date" bson:"end_date" validate:"required"`
	Reason     string     `json:"reason,omitempty" bson:"reason,omitempty"`
}

// OverlapsStay reports whether a half-open stay [checkin, checkout) touches
// the inclusive blackout range.
func (b BlackoutDate) OverlapsStay(checkin, checkout time.Time) bool {
	return Overlaps(checkin, checkout, DateOnly(b.StartDate), DateOnly(b.EndDate).AddDate(0, 0, 1))
}
