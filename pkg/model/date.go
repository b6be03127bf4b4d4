package model

import "time"

// Booking intervals are half-open: [checkin, checkout). The checkout day is
// the departure day and is not itself occupied. All dates are UTC midnights.

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates a timestamp to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NightsBetween(checkin, checkout time.Time) int {
	return int(DateOnly(checkout).Sub(DateOnly(checkin)) / (24 * time.Hour))
}

// Overlaps reports whether the half-open intervals [a1,a2) and [b1,b2)
// intersect.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && a2.After(b1)
}

// DaysIn returns every occupied night of [checkin, checkout), one entry per
// calendar day.
func DaysIn(checkin, checkout time.Time) []time.Time {
	var days []time.Time
	for d := DateOnly(checkin); d.Before(DateOnly(checkout)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
