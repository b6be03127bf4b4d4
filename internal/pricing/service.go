package pricing

import (
	"context"
	"errors"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/properties"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/seasons"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

// Service prices stay requests. It never mutates state; booking creation
// re-quotes inside its transaction through the same code path.
type Service struct {
	cfg      *config.Config
	rules    RuleRepository
	rooms    properties.RoomRepository
	calendar *seasons.Calendar
}

func NewService(cfg *config.Config, rules RuleRepository, rooms properties.RoomRepository, calendar *seasons.Calendar) *Service {
	return &Service{
		cfg:      cfg,
		rules:    rules,
		rooms:    rooms,
		calendar: calendar,
	}
}

// ListRules returns a property's full rule set for the admin config view.
func (s *Service) ListRules(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
	rules, err := s.rules.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load pricing rules", err)
	}
	return rules, nil
}

// QuoteStay fetches configuration and prices the request. The season is the
// one covering the check-in date; a stay spanning a season boundary is priced
// at its check-in season throughout.
func (s *Service) QuoteStay(ctx context.Context, req model.StayRequest) (*model.Quote, error) {
	if req.Nights() < 1 {
		return nil, apperrors.InvalidInput("checkout must be after checkin").
			WithReason(berrors.ReasonInvalidParameters)
	}

	season, err := s.calendar.SeasonFor(ctx, req.PropertyID, req.CheckinDate)
	if err != nil {
		return nil, apperrors.Internal("failed to load season configuration", err)
	}

	rules, err := s.rules.FindByProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load pricing rules", err)
	}

	if req.Mode == model.ModeBuyout {
		return s.quoteBuyout(rules, season, req)
	}

	roomList, err := s.rooms.FindByIDs(ctx, req.RoomIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load rooms", err)
	}

	return s.QuoteRoomsIn(rules, season, roomList, req)
}

func (s *Service) quoteBuyout(rules []*model.PricingRule, season *model.Season, req model.StayRequest) (*model.Quote, error) {
	rule, err := Resolve(rules, seasonID(season), "", "", model.ModeBuyout, model.BasisBuyoutFixed)
	if err != nil {
		return nil, s.pricingFault(err, req, "")
	}

	nights := req.Nights()
	base := rule.AmountCents * int64(nights)

	return &model.Quote{
		Mode:       model.ModeBuyout,
		Nights:     nights,
		BaseCents:  base,
		TotalCents: base,
	}, nil
}

// QuoteRoomsIn prices a room-mode stay against already-fetched configuration.
// Each room bills at least its minimum occupancy; guests beyond the summed
// floors bill at the cheapest selected room's rate, since guest-to-room
// assignment is not part of the request.
func (s *Service) QuoteRoomsIn(rules []*model.PricingRule, season *model.Season, roomList []*model.Room, req model.StayRequest) (*model.Quote, error) {
	if len(req.RoomIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one room is required").
			WithReason(berrors.ReasonInvalidParameters)
	}

	byID := make(map[string]*model.Room, len(roomList))
	for _, room := range roomList {
		byID[room.ID] = room
	}

	nights := req.Nights()
	adults := req.GuestsCount

	var (
		perNight     int64
		sumFloors    int
		sumCapacity  int
		cheapest     int64
		childCents   int64
		uniformAdult int64
		uniform      = true
	)

	for i, id := range req.RoomIDs {
		room, ok := byID[id]
		if !ok || room.PropertyID != req.PropertyID || !room.IsActive {
			return nil, apperrors.NotFoundWithID("room", id).
				WithReason(berrors.ReasonRoomUnavailable)
		}

		// Final tier after room > category > property-wide: the configured
		// default rate. Only an ambiguous rule set is a pricing fault.
		var adult, child int64
		rule, err := Resolve(rules, seasonID(season), room.ID, room.CategoryID, model.ModeRoom, model.BasisPerPersonPerNight)
		switch {
		case err == nil:
			adult = rule.AmountCents
			child = rule.ChildrenAmountCents
		case errors.Is(err, ErrNoRule):
			adult = s.cfg.AdultRateCents
		default:
			return nil, s.pricingFault(err, req, room.ID)
		}
		if child == 0 {
			child = s.cfg.ChildRateCents
		}

		perNight += adult * int64(room.MinBillableOccupancy)
		sumFloors += room.MinBillableOccupancy
		sumCapacity += room.CapacityMax

		if i == 0 {
			cheapest = adult
			childCents = child
			uniformAdult = adult
		} else {
			if adult < cheapest {
				cheapest = adult
			}
			if child < childCents {
				childCents = child
			}
			if adult != uniformAdult {
				uniform = false
			}
		}
	}

	if adults+req.ChildrenCount > sumCapacity {
		return nil, apperrors.Validation("selected rooms cannot hold the requested guests", map[string]any{
			"capacity": sumCapacity,
			"guests":   adults + req.ChildrenCount,
		}).WithReason(berrors.ReasonInsufficientCapacity)
	}

	billable := adults
	if sumFloors > billable {
		billable = sumFloors
	} else if surplus := adults - sumFloors; surplus > 0 {
		perNight += int64(surplus) * cheapest
	}

	base := perNight * int64(nights)
	childrenFee := int64(req.ChildrenCount) * childCents * int64(nights)

	quote := &model.Quote{
		Mode:                model.ModeRoom,
		Nights:              nights,
		ChildRateCents:      childCents,
		BillableAdults:      billable,
		Children:            req.ChildrenCount,
		BaseCents:           base,
		ChildrenFeeCents:    childrenFee,
		TotalCents:          base + childrenFee,
		UsingMinimumPricing: sumFloors > adults,
	}
	if uniform {
		quote.AdultRateCents = uniformAdult
	}

	return quote, nil
}

// pricingFault translates resolver errors. An ambiguous rule set is an admin
// configuration fault and gets logged loudly; the caller still only sees
// that pricing is unavailable.
func (s *Service) pricingFault(err error, req model.StayRequest, roomID string) error {
	if errors.Is(err, ErrAmbiguousRules) {
		s.cfg.Log.Error("Pricing configuration is ambiguous",
			"error", err,
			"property_id", req.PropertyID,
			"room_id", roomID,
			"mode", req.Mode,
			"checkin_date", req.CheckinDate.Format("2006-01-02"),
		)
	}
	return apperrors.Validation("no pricing is configured for this stay", map[string]any{
		"property_id": req.PropertyID,
	}).WithReason(berrors.ReasonPricingUnavailable)
}

func seasonID(season *model.Season) string {
	if season == nil {
		return ""
	}
	return season.ID
}
