package service

import (
	"context"
	"errors"
	"strings"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/repository"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/validator"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/pricing"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/properties"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/seasons"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/client"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/contracts"
	mongodb "github.com/barreyo/ysc-redesign-ex-sub001/pkg/db/mongo"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Dependencies wires the booking service. Everything is an interface or a
// read-only helper so tests can swap the persistence layer wholesale.
type Dependencies struct {
	Bookings  repository.BookingRepository
	Inventory repository.InventoryRepository
	Locks     repository.LockRepository
	Tx        mongodb.TransactionManager

	Rooms     properties.RoomRepository
	Blackouts properties.BlackoutRepository
	Seasons   seasons.SeasonRepository
	Rules     pricing.RuleRepository
	Quoter    *pricing.Service

	Members client.MembershipGetter
	Events  EventPublisher
}

// BookingService is the authoritative write path. Every mutation of booking
// or inventory state funnels through here, under the per-day advisory locks
// and a single multi-document transaction.
type BookingService struct {
	cfg       *config.Config
	deps      Dependencies
	calendar  *seasons.Calendar
	validator *validator.StayRuleValidator

	// now is swappable for tests that pin "today".
	now func() time.Time
}

func NewBookingService(cfg *config.Config, deps Dependencies) *BookingService {
	return &BookingService{
		cfg:       cfg,
		deps:      deps,
		calendar:  seasons.NewCalendar(deps.Seasons, cfg),
		validator: validator.New(cfg),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ValidateStay runs the advisory rule set and reports every violation by
// name. It holds no locks; the answer can go stale the moment it is
// computed, which is why CreateBooking re-checks everything.
func (s *BookingService) ValidateStay(ctx context.Context, req model.StayRequest) (map[string]string, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	sc, err := s.buildStayContext(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.validator.Violations(req, sc), nil
}

// CreateBooking commits a stay exactly once. Protocol: advisory validation,
// quote, per-day lock acquisition in sorted key order, then a transaction
// that re-validates against committed state and inserts the booking plus its
// inventory days all-or-nothing.
func (s *BookingService) CreateBooking(ctx context.Context, req model.StayRequest) (*model.Booking, error) {
	req.GuestNames = sanitizer.SanitizeSlice(req.GuestNames, sanitizer.SanitizeGuestName)
	req.ContactPhone = sanitizer.SanitizePhone(req.ContactPhone)

	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	// A retried submission with the same nonce returns the original
	// booking instead of creating a twin.
	if req.Nonce != "" {
		existing, err := s.deps.Bookings.FindByNonce(ctx, req.MemberID, req.Nonce)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, berrors.ErrNotFound) {
			return nil, apperrors.Internal("failed to check for duplicate submission", err)
		}
	}

	sc, err := s.buildStayContext(ctx, req)
	if err != nil {
		return nil, err
	}
	if violations := s.validator.Violations(req, sc); len(violations) > 0 {
		return nil, violationsError(violations)
	}

	quote, err := s.deps.Quoter.QuoteStay(ctx, req)
	if err != nil {
		return nil, err
	}

	days := stayDays(req.CheckinDate, req.CheckoutDate)
	owner := uuid.NewString()

	acquired, err := s.acquireStayLocks(ctx, req.PropertyID, days, owner)
	if err != nil {
		s.releaseStayLocks(acquired, owner)
		return nil, err
	}
	defer s.releaseStayLocks(acquired, owner)

	booking := s.buildBooking(req, quote)

	err = s.deps.Tx.ExecuteTransaction(ctx, func(sctx mongo.SessionContext) error {
		if err := s.recheckStay(sctx, req, sc); err != nil {
			return err
		}

		if _, err := s.deps.Bookings.Create(sctx, booking); err != nil {
			return apperrors.Internal("failed to create booking", err)
		}

		buyout := req.Mode == model.ModeBuyout
		if err := s.deps.Inventory.Reserve(sctx, req.PropertyID, days, booking.ID, req.RoomIDs, buyout); err != nil {
			return apperrors.Internal("failed to reserve inventory", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"member_id", booking.MemberID,
		"property_id", booking.PropertyID,
		"mode", booking.Mode,
		"nights", booking.Nights(),
		"total_cents", booking.TotalCents,
	)

	s.publishEvent(booking, contracts.EventBookingCreated)

	return booking, nil
}

// CancelBooking releases exactly the resource set the booking reserved,
// under the same locking discipline as creation, so no phantom holds leak.
func (s *BookingService) CancelBooking(ctx context.Context, id, memberID string) (*model.Booking, error) {
	booking, err := s.findOwnedBooking(ctx, id, memberID)
	if err != nil {
		return nil, err
	}
	if !booking.IsActive() {
		return nil, apperrors.Conflict("booking is not active")
	}

	days := stayDays(booking.CheckinDate, booking.CheckoutDate)
	owner := uuid.NewString()

	acquired, err := s.acquireStayLocks(ctx, booking.PropertyID, days, owner)
	if err != nil {
		s.releaseStayLocks(acquired, owner)
		return nil, err
	}
	defer s.releaseStayLocks(acquired, owner)

	var cancelled *model.Booking
	err = s.deps.Tx.ExecuteTransaction(ctx, func(sctx mongo.SessionContext) error {
		cancelled, err = s.deps.Bookings.Cancel(sctx, booking.ID, s.now())
		if errors.Is(err, berrors.ErrNotFound) {
			return apperrors.Conflict("booking is not active")
		}
		if err != nil {
			return apperrors.Internal("failed to cancel booking", err)
		}

		buyout := booking.Mode == model.ModeBuyout
		if err := s.deps.Inventory.Release(sctx, booking.PropertyID, days, booking.ID, booking.RoomIDs, buyout); err != nil {
			return apperrors.Internal("failed to release inventory", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled",
		"booking_id", cancelled.ID,
		"member_id", cancelled.MemberID,
		"property_id", cancelled.PropertyID,
	)

	s.publishEvent(cancelled, contracts.EventBookingCancelled)

	return cancelled, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id, memberID string) (*model.Booking, error) {
	return s.findOwnedBooking(ctx, id, memberID)
}

func (s *BookingService) ListMemberBookings(ctx context.Context, memberID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	bookings, total, err := s.deps.Bookings.FindByMember(ctx, memberID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}
	return bookings, total, nil
}

// findOwnedBooking hides other members' bookings behind not-found rather
// than leaking their existence through a forbidden response.
func (s *BookingService) findOwnedBooking(ctx context.Context, id, memberID string) (*model.Booking, error) {
	booking, err := s.deps.Bookings.FindByID(ctx, id)
	if errors.Is(err, berrors.ErrNotFound) {
		return nil, apperrors.NotFoundWithID("booking", id)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load booking", err)
	}
	if booking.MemberID != memberID {
		return nil, apperrors.NotFoundWithID("booking", id)
	}
	return booking, nil
}

func (s *BookingService) buildStayContext(ctx context.Context, req model.StayRequest) (validator.StayContext, error) {
	today := model.DateOnly(s.now())

	seasonList, err := s.deps.Seasons.FindByProperty(ctx, req.PropertyID)
	if err != nil {
		return validator.StayContext{}, apperrors.Internal("failed to load season configuration", err)
	}

	member, err := s.deps.Members.GetMember(ctx, req.MemberID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return validator.StayContext{}, err
		}
		return validator.StayContext{}, apperrors.Unavailable("membership service")
	}

	active, err := s.deps.Bookings.FindActiveByMember(ctx, req.MemberID, req.PropertyID)
	if err != nil {
		return validator.StayContext{}, apperrors.Internal("failed to load member bookings", err)
	}

	sc := validator.StayContext{
		Today:          today,
		MaxNights:      s.calendar.EffectiveMaxNightsIn(seasonList, req.CheckinDate),
		MaxBookingDate: s.calendar.MaxBookingDateIn(seasonList, req.PropertyID, today),
		Member:         member,
		ActiveBookings: active,
	}

	if req.Mode == model.ModeBuyout {
		rules, err := s.deps.Rules.FindByProperty(ctx, req.PropertyID)
		if err != nil {
			return validator.StayContext{}, apperrors.Internal("failed to load pricing rules", err)
		}
		season := seasons.SeasonForIn(seasonList, req.CheckinDate)
		seasonID := ""
		if season != nil {
			seasonID = season.ID
		}
		if _, err := pricing.Resolve(rules, seasonID, "", "", model.ModeBuyout, model.BasisBuyoutFixed); err == nil {
			sc.BuyoutOffered = true
		}

		conflict, err := s.buyoutConflict(ctx, req)
		if err != nil {
			return validator.StayContext{}, err
		}
		sc.BuyoutConflict = conflict
	}

	return sc, nil
}

func (s *BookingService) buyoutConflict(ctx context.Context, req model.StayRequest) (bool, error) {
	blackouts, err := s.deps.Blackouts.FindOverlapping(ctx, req.PropertyID, req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return false, apperrors.Internal("failed to load blackout dates", err)
	}
	if len(blackouts) > 0 {
		return true, nil
	}

	overlapping, err := s.deps.Bookings.FindActiveOverlapping(ctx, req.PropertyID, req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return false, apperrors.Internal("failed to load bookings", err)
	}

	return len(overlapping) > 0, nil
}

// recheckStay is the authoritative re-validation inside the transaction.
// The advisory answer is stale by definition; this one is not.
func (s *BookingService) recheckStay(ctx context.Context, req model.StayRequest, sc validator.StayContext) error {
	blackouts, err := s.deps.Blackouts.FindOverlapping(ctx, req.PropertyID, req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return apperrors.Internal("failed to re-check blackout dates", err)
	}
	if len(blackouts) > 0 {
		return apperrors.Conflict("the property is closed for these dates").
			WithReason(berrors.ReasonPropertyUnavailable)
	}

	overlapping, err := s.deps.Bookings.FindActiveOverlapping(ctx, req.PropertyID, req.CheckinDate, req.CheckoutDate)
	if err != nil {
		return apperrors.Internal("failed to re-check bookings", err)
	}

	if req.Mode == model.ModeBuyout {
		if len(overlapping) > 0 {
			return apperrors.Conflict("the property is no longer free for these dates").
				WithReason(berrors.ReasonPropertyUnavailable)
		}
	} else {
		requested := make(map[string]struct{}, len(req.RoomIDs))
		for _, id := range req.RoomIDs {
			requested[id] = struct{}{}
		}

		var conflicting []string
		for _, b := range overlapping {
			if b.Mode == model.ModeBuyout {
				return apperrors.Conflict("the property is no longer free for these dates").
					WithReason(berrors.ReasonPropertyUnavailable)
			}
			for _, roomID := range b.RoomIDs {
				if _, ok := requested[roomID]; ok {
					conflicting = append(conflicting, roomID)
				}
			}
		}
		if len(conflicting) > 0 {
			return apperrors.Conflict("one or more rooms are no longer available").
				WithDetails(map[string]any{"room_ids": conflicting}).
				WithReason(berrors.ReasonRoomUnavailable)
		}
	}

	if err := s.recheckQuota(ctx, req, sc); err != nil {
		return err
	}

	// Cross-check the inventory table. A conflict here after a clean
	// bookings scan means the two stores disagree; the caller should
	// refresh and retry rather than trust either answer.
	buyout := req.Mode == model.ModeBuyout
	conflicts, err := s.deps.Inventory.FindConflicts(ctx, req.PropertyID, stayDays(req.CheckinDate, req.CheckoutDate), req.RoomIDs, buyout)
	if err != nil {
		return apperrors.Internal("failed to re-check inventory", err)
	}
	if len(conflicts) > 0 {
		return apperrors.Conflict("inventory changed, refresh availability and retry").
			WithReason(berrors.ReasonStaleInventory)
	}

	return nil
}

// recheckQuota re-runs the full active-booking rule against the member's
// bookings as read inside the transaction. Two concurrent non-overlapping
// requests touch disjoint day locks, so the envelope and single-room-second
// constraints must be enforced here, not just in the advisory pass.
func (s *BookingService) recheckQuota(ctx context.Context, req model.StayRequest, sc validator.StayContext) error {
	active, err := s.deps.Bookings.FindActiveByMember(ctx, req.MemberID, req.PropertyID)
	if err != nil {
		return apperrors.Internal("failed to re-check member bookings", err)
	}

	fresh := sc
	fresh.ActiveBookings = active

	if msg, ok := s.validator.Violations(req, fresh)[validator.RuleActiveBooking]; ok {
		return apperrors.Conflict(msg).
			WithReason(berrors.ReasonQuotaExceeded)
	}

	return nil
}

func (s *BookingService) buildBooking(req model.StayRequest, quote *model.Quote) *model.Booking {
	id := uuid.NewString()

	return &model.Booking{
		ID:            id,
		Reference:     bookingReference(id),
		MemberID:      req.MemberID,
		PropertyID:    req.PropertyID,
		CheckinDate:   model.DateOnly(req.CheckinDate),
		CheckoutDate:  model.DateOnly(req.CheckoutDate),
		Mode:          req.Mode,
		RoomIDs:       req.RoomIDs,
		GuestsCount:   req.GuestsCount,
		ChildrenCount: req.ChildrenCount,
		GuestNames:    req.GuestNames,
		ContactPhone:  req.ContactPhone,
		Status:        model.StatusHold,
		TotalCents:    quote.TotalCents,
		Nonce:         req.Nonce,
	}
}

// bookingReference derives the short member-facing code from the booking id.
func bookingReference(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "LDG-" + strings.ToUpper(compact)
}

// violationsError maps advisory rule failures onto the discrete outcome the
// caller switches on. Quota and availability get their own reasons; the rest
// bundle under rule_violation.
func violationsError(violations map[string]string) error {
	details := map[string]any{"violations": violations}

	if _, ok := violations[validator.RuleActiveBooking]; ok {
		return apperrors.Conflict("membership room quota exceeded").
			WithDetails(details).
			WithReason(berrors.ReasonQuotaExceeded)
	}
	if _, ok := violations[validator.RuleAvailability]; ok {
		return apperrors.Conflict("the property is not free for these dates").
			WithDetails(details).
			WithReason(berrors.ReasonPropertyUnavailable)
	}

	return apperrors.Validation("the requested stay violates booking rules", details).
		WithReason(berrors.ReasonRuleViolation)
}

func stayDays(checkin, checkout time.Time) []time.Time {
	var days []time.Time
	for d := model.DateOnly(checkin); d.Before(checkout); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
