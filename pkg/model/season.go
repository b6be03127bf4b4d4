package model

import "time"

// Boundary is a season edge as a recurring (month, day) pair with no year.
type Boundary struct {
	Month time.Month `json:"month" bson:"month" validate:"required,min=1,max=12"`
	Day   int        `json:"day" bson:"day" validate:"required,min=1,max=31"`
}

// Before compares two boundaries ignoring year.
func (b Boundary) Before(other Boundary) bool {
	if b.Month != other.Month {
		return b.Month < other.Month
	}
	return b.Day < other.Day
}

// OnDate reports whether the given date falls on this boundary.
func (b Boundary) OnDate(d time.Time) bool {
	return d.Month() == b.Month && d.Day() == b.Day
}

// Season is an admin-configured pricing/rules window of a property. End may
// be numerically before Start, meaning the season wraps across the year
// boundary (e.g. Nov 1 – Apr 30).
type Season struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID PropertyID `json:"property_id" bson:"property_id" validate:"required"`
	Name       string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Start      Boundary   `json:"start" bson:"start" validate:"required"`
	End        Boundary   `json:"end" bson:"end" validate:"required"`

	// AdvanceBookingDays bounds how far ahead members may book while this
	// season is current; 0 means unbounded (limited only by the season end
	// plus the next season's own limit).
	AdvanceBookingDays int `json:"advance_booking_days,omitempty" bson:"advance_booking_days,omitempty" validate:"min=0"`

	// MaxNights overrides the property default when positive.
	MaxNights int `json:"max_nights,omitempty" bson:"max_nights,omitempty" validate:"min=0"`
}

// Wraps reports whether the season crosses the year boundary.
func (s Season) Wraps() bool {
	return s.End.Before(s.Start)
}

// Contains reports whether the date falls inside the season, inclusive on
// both boundaries, handling year wrap.
func (s Season) Contains(d time.Time) bool {
	day := DateOnly(d)
	afterStart := !dayBefore(day, s.Start)
	beforeEnd := !dayAfter(day, s.End)
	if s.Wraps() {
		return afterStart || beforeEnd
	}
	return afterStart && beforeEnd
}

// EffectiveMaxNights resolves the stay-length cap for this season given the
// property default.
func (s Season) EffectiveMaxNights(propertyDefault int) int {
	if s.MaxNights > 0 {
		return s.MaxNights
	}
	return propertyDefault
}

func dayBefore(d time.Time, b Boundary) bool {
	if d.Month() != b.Month {
		return d.Month() < b.Month
	}
	return d.Day() < b.Day
}

func dayAfter(d time.Time, b Boundary) bool {
	if d.Month() != b.Month {
		return d.Month() > b.Month
	}
	return d.Day() > b.Day
}
