package validator

import (
	"fmt"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"github.com/go-playground/validator/v10"
)

// Violation names. The UI keys its inline messages on these.
const (
	RuleMaxNights         = "max_nights"
	RuleWeekend           = "weekend_rule"
	RuleAdvanceBooking    = "advance_booking_limit"
	RuleSeasonBookingMode = "season_booking_mode"
	RuleActiveBooking     = "active_booking"
	RuleAvailability      = "availability"
)

// StayContext carries the already-fetched state a stay is judged against.
// The service assembles it once per request; the rules themselves are pure.
type StayContext struct {
	Today          time.Time
	MaxNights      int
	MaxBookingDate time.Time

	Member         *model.Member
	ActiveBookings []*model.Booking

	// BuyoutOffered is whether a buyout pricing rule resolves for the
	// check-in season; seasons without one do not sell buyouts.
	BuyoutOffered bool

	// BuyoutConflict is set when a blackout or any active booking overlaps
	// the requested range. Only consulted for buyout requests; room-mode
	// conflicts surface per-room through availability.
	BuyoutConflict bool
}

type stayRule struct {
	name  string
	check func(req model.StayRequest, sc StayContext) (string, bool)
}

// StayRuleValidator evaluates the full rule table and reports every
// violation at once, so the member can fix all of them in one pass.
type StayRuleValidator struct {
	cfg      *config.Config
	validate *validator.Validate
	rules    []stayRule
}

func New(cfg *config.Config) *StayRuleValidator {
	v := &StayRuleValidator{
		cfg:      cfg,
		validate: validator.New(),
	}
	v.rules = []stayRule{
		{RuleMaxNights, v.checkMaxNights},
		{RuleWeekend, v.checkWeekend},
		{RuleAdvanceBooking, v.checkAdvanceBooking},
		{RuleSeasonBookingMode, v.checkSeasonBookingMode},
		{RuleActiveBooking, v.checkActiveBooking},
		{RuleAvailability, v.checkAvailability},
	}
	return v
}

// ValidateRequest enforces structural validity (dates present and ordered,
// positive guests, rooms present in room mode). Failures here are caller
// mistakes, distinct from stay-rule violations.
func (v *StayRuleValidator) ValidateRequest(req model.StayRequest) error {
	if err := v.validate.Struct(req); err != nil {
		details := map[string]any{}
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				details[fe.Field()] = translateTag(fe)
			}
		}
		return apperrors.Validation("invalid booking parameters", details).
			WithReason(berrors.ReasonInvalidParameters)
	}

	if req.Mode == model.ModeRoom && len(req.RoomIDs) == 0 {
		return apperrors.Validation("invalid booking parameters", map[string]any{
			"room_ids": "at least one room is required in room mode",
		}).WithReason(berrors.ReasonInvalidParameters)
	}
	if req.Mode == model.ModeBuyout && len(req.RoomIDs) > 0 {
		return apperrors.Validation("invalid booking parameters", map[string]any{
			"room_ids": "a buyout request must not name rooms",
		}).WithReason(berrors.ReasonInvalidParameters)
	}
	if req.Mode == model.ModeBuyout && req.GuestsCount+req.ChildrenCount > v.cfg.BuyoutOccupancyCap {
		return apperrors.Validation("invalid booking parameters", map[string]any{
			"guests_count": fmt.Sprintf("a buyout hosts at most %d people", v.cfg.BuyoutOccupancyCap),
		}).WithReason(berrors.ReasonInsufficientCapacity)
	}

	return nil
}

// Violations runs every rule and returns the named failures. An empty map
// means the stay shape is acceptable. Advisory only: the booking transaction
// re-checks under lock.
func (v *StayRuleValidator) Violations(req model.StayRequest, sc StayContext) map[string]string {
	violations := make(map[string]string)
	for _, rule := range v.rules {
		if msg, violated := rule.check(req, sc); violated {
			violations[rule.name] = msg
		}
	}
	return violations
}

func (v *StayRuleValidator) checkMaxNights(req model.StayRequest, sc StayContext) (string, bool) {
	if req.Nights() > sc.MaxNights {
		return fmt.Sprintf("stays are limited to %d nights for these dates", sc.MaxNights), true
	}
	return "", false
}

// checkWeekend: a stay occupying a Saturday night must also occupy the
// following Sunday night. Saturday-only weekend stays fragment the weekend
// for everyone else.
func (v *StayRuleValidator) checkWeekend(req model.StayRequest, sc StayContext) (string, bool) {
	for d := model.DateOnly(req.CheckinDate); d.Before(req.CheckoutDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday {
			continue
		}
		sunday := d.AddDate(0, 0, 1)
		if !sunday.Before(req.CheckoutDate) {
			return "a stay including Saturday night must also include the following Sunday night", true
		}
	}
	return "", false
}

func (v *StayRuleValidator) checkAdvanceBooking(req model.StayRequest, sc StayContext) (string, bool) {
	if model.DateOnly(req.CheckinDate).After(sc.MaxBookingDate) {
		return fmt.Sprintf("bookings are open through %s", sc.MaxBookingDate.Format("January 2, 2006")), true
	}
	return "", false
}

func (v *StayRuleValidator) checkSeasonBookingMode(req model.StayRequest, sc StayContext) (string, bool) {
	if req.Mode == model.ModeBuyout && !sc.BuyoutOffered {
		return "full-property buyouts are not offered for these dates", true
	}
	return "", false
}

// checkActiveBooking enforces the tier room quota. Single-tier members hold
// one room at a time; family and lifetime members may hold two rooms, but a
// second booking must be a single room with a check-in inside the date
// envelope anchored on their first booking.
func (v *StayRuleValidator) checkActiveBooking(req model.StayRequest, sc StayContext) (string, bool) {
	if sc.Member == nil {
		return "", false
	}

	quota := sc.Member.Tier.RoomQuota()
	if quota == 0 {
		return "an active membership is required to book", true
	}

	var overlappingRooms int
	for _, b := range sc.ActiveBookings {
		if !b.OverlapsStay(req.CheckinDate, req.CheckoutDate) {
			continue
		}
		if b.Mode == model.ModeBuyout {
			return "you already hold the whole property for these dates", true
		}
		overlappingRooms += b.RoomCount()
	}

	requested := len(req.RoomIDs)
	if req.Mode == model.ModeBuyout {
		if len(sc.ActiveBookings) > 0 {
			return "a buyout cannot be combined with other active bookings", true
		}
		return "", false
	}

	if overlappingRooms+requested > quota {
		return fmt.Sprintf("your membership allows %d room(s) at a time", quota), true
	}

	// Second booking while one is already held: must be a single room and
	// must check in inside the envelope around the first booking.
	if len(sc.ActiveBookings) > 0 && sc.Member.Tier.AllowsSecondBooking() {
		if requested > 1 {
			return "a second booking may only add one room", true
		}

		from, to := SecondBookingWindow(sc.ActiveBookings[0], sc.MaxNights, sc.Today, sc.MaxBookingDate)
		checkin := model.DateOnly(req.CheckinDate)
		if checkin.Before(from) || checkin.After(to) {
			return fmt.Sprintf("a second booking must check in between %s and %s",
				from.Format("January 2, 2006"), to.Format("January 2, 2006")), true
		}
	}

	return "", false
}

func (v *StayRuleValidator) checkAvailability(req model.StayRequest, sc StayContext) (string, bool) {
	if req.Mode == model.ModeBuyout && sc.BuyoutConflict {
		return "the property is not free for these dates", true
	}
	return "", false
}

// SecondBookingWindow computes the check-in envelope for a member's second
// booking: [checkin1 - (maxNights - nights1), checkin1 + maxNights], clamped
// to [today, maxBookingDate]. The envelope keeps both stays within one
// max-nights span of each other.
func SecondBookingWindow(first *model.Booking, maxNights int, today, maxBookingDate time.Time) (time.Time, time.Time) {
	checkin1 := model.DateOnly(first.CheckinDate)
	nights1 := first.Nights()

	from := checkin1.AddDate(0, 0, -(maxNights - nights1))
	to := checkin1.AddDate(0, 0, maxNights)

	today = model.DateOnly(today)
	if from.Before(today) {
		from = today
	}
	if to.After(maxBookingDate) {
		to = maxBookingDate
	}

	return from, to
}

func translateTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gtfield":
		return "checkout must be after checkin"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}
