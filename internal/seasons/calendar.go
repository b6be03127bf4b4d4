package seasons

import (
	"context"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

// Calendar answers season membership and the advance-booking horizon for a
// property. Season configuration is read once per call; callers that need
// several answers for one request should use the pure In-memory variants.
type Calendar struct {
	repo SeasonRepository
	cfg  *config.Config
}

func NewCalendar(repo SeasonRepository, cfg *config.Config) *Calendar {
	return &Calendar{repo: repo, cfg: cfg}
}

// NextOccurrence returns the first calendar date on or after `after` that
// falls on the boundary's (month, day).
func NextOccurrence(b model.Boundary, after time.Time) time.Time {
	day := model.DateOnly(after)
	candidate := model.Date(day.Year(), b.Month, b.Day)
	if candidate.Before(day) {
		candidate = model.Date(day.Year()+1, b.Month, b.Day)
	}
	return candidate
}

// SeasonForIn matches a date against an already-fetched season list.
// Returns nil when no season covers the date.
func SeasonForIn(seasons []*model.Season, date time.Time) *model.Season {
	for _, s := range seasons {
		if s.Contains(date) {
			return s
		}
	}
	return nil
}

// CurrentEnd returns the end date of the season occurrence covering today.
// For a wrapping season observed after its start boundary, the end lands in
// the following calendar year.
func CurrentEnd(s *model.Season, today time.Time) time.Time {
	return NextOccurrence(s.End, today)
}

// nextSeasonAfter picks the season whose start occurrence comes soonest
// after the given date.
func nextSeasonAfter(seasons []*model.Season, current *model.Season, after time.Time) *model.Season {
	ref := model.DateOnly(after).AddDate(0, 0, 1)

	var best *model.Season
	var bestStart time.Time
	for _, s := range seasons {
		if current != nil && s.ID == current.ID {
			continue
		}
		start := NextOccurrence(s.Start, ref)
		if best == nil || start.Before(bestStart) {
			best = s
			bestStart = start
		}
	}
	return best
}

func (c *Calendar) SeasonFor(ctx context.Context, propertyID model.PropertyID, date time.Time) (*model.Season, error) {
	seasons, err := c.repo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return SeasonForIn(seasons, date), nil
}

// MaxBookingDate derives the latest check-in date a member may currently
// select. A bounded season caps at today + its limit. An unbounded season
// runs to its own end, extended by the next season's limit when that
// reaches further.
func (c *Calendar) MaxBookingDate(ctx context.Context, propertyID model.PropertyID, today time.Time) (time.Time, error) {
	seasons, err := c.repo.FindByProperty(ctx, propertyID)
	if err != nil {
		return time.Time{}, err
	}
	return c.MaxBookingDateIn(seasons, propertyID, today), nil
}

func (c *Calendar) MaxBookingDateIn(seasons []*model.Season, propertyID model.PropertyID, today time.Time) time.Time {
	day := model.DateOnly(today)

	current := SeasonForIn(seasons, day)
	if current == nil {
		// Safety net, not a business rule: season configuration should
		// cover every calendar day.
		c.cfg.Log.Warn("No season covers date, applying fallback booking horizon",
			"property_id", propertyID,
			"date", day.Format("2006-01-02"),
			"fallback", c.cfg.FallbackAdvance,
		)
		return day.Add(c.cfg.FallbackAdvance)
	}

	if current.AdvanceBookingDays > 0 {
		return day.AddDate(0, 0, current.AdvanceBookingDays)
	}

	currentEnd := CurrentEnd(current, day)

	next := nextSeasonAfter(seasons, current, currentEnd)
	if next != nil && next.AdvanceBookingDays > 0 {
		extended := day.AddDate(0, 0, next.AdvanceBookingDays)
		if extended.After(currentEnd) {
			return extended
		}
	}

	return currentEnd
}

// EffectiveMaxNights resolves the stay-length cap for a date, falling back
// to the configured property default outside any season override.
func (c *Calendar) EffectiveMaxNightsIn(seasons []*model.Season, date time.Time) int {
	if s := SeasonForIn(seasons, date); s != nil {
		return s.EffectiveMaxNights(c.cfg.MaxNights)
	}
	return c.cfg.MaxNights
}
