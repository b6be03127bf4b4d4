package pricing

import (
	"context"
	"testing"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/seasons"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

type mockRuleRepository struct {
	findByPropertyFunc func(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error)
}

func (m *mockRuleRepository) FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
	return m.findByPropertyFunc(ctx, propertyID)
}

type mockRoomRepository struct {
	findActiveByPropertyFunc func(ctx context.Context, propertyID model.PropertyID) ([]*model.Room, error)
	findByIDsFunc            func(ctx context.Context, ids []string) ([]*model.Room, error)
}

func (m *mockRoomRepository) FindActiveByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Room, error) {
	return m.findActiveByPropertyFunc(ctx, propertyID)
}

func (m *mockRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error) {
	return m.findByIDsFunc(ctx, ids)
}

type mockSeasonRepository struct {
	seasons []*model.Season
}

func (m *mockSeasonRepository) FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Season, error) {
	return m.seasons, nil
}

func pricingTestConfig() *config.Config {
	return &config.Config{
		MaxNights:      4,
		AdultRateCents: 4500,
		ChildRateCents: 2500,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "pricing-test",
		}),
	}
}

func testRoom(id, categoryID string, capacity, minBillable int) *model.Room {
	return &model.Room{
		ID:                   id,
		PropertyID:           model.PropertyCabin,
		CategoryID:           categoryID,
		Name:                 id,
		CapacityMax:          capacity,
		MinBillableOccupancy: minBillable,
		IsActive:             true,
	}
}

func stay(mode model.BookingMode, roomIDs []string, guests, children, nights int) model.StayRequest {
	checkin := model.Date(2026, time.February, 6)
	return model.StayRequest{
		MemberID:      "member-1",
		PropertyID:    model.PropertyCabin,
		CheckinDate:   checkin,
		CheckoutDate:  checkin.AddDate(0, 0, nights),
		Mode:          mode,
		RoomIDs:       roomIDs,
		GuestsCount:   guests,
		ChildrenCount: children,
	}
}

func TestQuoteAppliesMinimumOccupancy(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}
	rooms := []*model.Room{testRoom("room-1", "", 2, 2)}

	// One guest in a room billing at least two, for two nights:
	// $45 x 2 x 2 = $180.
	quote, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 1, 0, 2))
	if err != nil {
		t.Fatalf("QuoteRoomsIn() error = %v", err)
	}

	if quote.TotalCents != 18000 {
		t.Errorf("TotalCents = %d, want 18000", quote.TotalCents)
	}
	if !quote.UsingMinimumPricing {
		t.Error("expected UsingMinimumPricing to be set")
	}
	if quote.BillableAdults != 2 {
		t.Errorf("BillableAdults = %d, want 2", quote.BillableAdults)
	}
}

func TestQuoteFullOccupancyIsNotMinimumPricing(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}
	rooms := []*model.Room{testRoom("room-1", "", 4, 2)}

	quote, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 3, 0, 2))
	if err != nil {
		t.Fatalf("QuoteRoomsIn() error = %v", err)
	}

	// 3 guests x $45 x 2 nights.
	if quote.TotalCents != 27000 {
		t.Errorf("TotalCents = %d, want 27000", quote.TotalCents)
	}
	if quote.UsingMinimumPricing {
		t.Error("did not expect UsingMinimumPricing")
	}
}

func TestQuoteMultiRoomSumsBillingFloors(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}
	rooms := []*model.Room{
		testRoom("room-1", "", 2, 2),
		testRoom("room-2", "", 3, 2),
	}

	// Three guests across two rooms with floors 2+2: billed occupancy is 4.
	quote, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1", "room-2"}, 3, 0, 1))
	if err != nil {
		t.Fatalf("QuoteRoomsIn() error = %v", err)
	}

	if quote.BillableAdults != 4 {
		t.Errorf("BillableAdults = %d, want 4", quote.BillableAdults)
	}
	if quote.TotalCents != 18000 {
		t.Errorf("TotalCents = %d, want 18000", quote.TotalCents)
	}
	if !quote.UsingMinimumPricing {
		t.Error("expected UsingMinimumPricing to be set")
	}
}

func TestQuoteChildrenFee(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}
	rooms := []*model.Room{testRoom("room-1", "", 6, 2)}

	quote, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 2, 2, 2))
	if err != nil {
		t.Fatalf("QuoteRoomsIn() error = %v", err)
	}

	// Adults: $45 x 2 x 2 = $180. Children at the config default:
	// $25 x 2 x 2 = $100.
	if quote.BaseCents != 18000 {
		t.Errorf("BaseCents = %d, want 18000", quote.BaseCents)
	}
	if quote.ChildrenFeeCents != 10000 {
		t.Errorf("ChildrenFeeCents = %d, want 10000", quote.ChildrenFeeCents)
	}
	if quote.TotalCents != 28000 {
		t.Errorf("TotalCents = %d, want 28000", quote.TotalCents)
	}
}

func TestQuoteRejectsOverCapacity(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}
	rooms := []*model.Room{testRoom("room-1", "", 2, 2)}

	_, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 3, 0, 1))
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if apperrors.AsAppError(err).Reason() != berrors.ReasonInsufficientCapacity {
		t.Errorf("reason = %s, want %s", apperrors.AsAppError(err).Reason(), berrors.ReasonInsufficientCapacity)
	}
}

func TestQuoteUnknownRoom(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}

	_, err := svc.QuoteRoomsIn(rules, nil, nil, stay(model.ModeRoom, []string{"room-missing"}, 1, 0, 1))
	if err == nil {
		t.Fatal("expected unknown room error")
	}
	if apperrors.AsAppError(err).Reason() != berrors.ReasonRoomUnavailable {
		t.Errorf("reason = %s, want %s", apperrors.AsAppError(err).Reason(), berrors.ReasonRoomUnavailable)
	}
}

func TestQuoteDefaultRateWhenNoRules(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	rooms := []*model.Room{testRoom("room-1", "", 2, 1)}

	// No rule at any tier: the configured default rate is the final tier.
	// 2 guests x $45 x 2 nights.
	quote, err := svc.QuoteRoomsIn(nil, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 2, 0, 2))
	if err != nil {
		t.Fatalf("QuoteRoomsIn() error = %v", err)
	}

	if quote.TotalCents != 18000 {
		t.Errorf("TotalCents = %d, want 18000", quote.TotalCents)
	}
	if quote.AdultRateCents != 4500 {
		t.Errorf("AdultRateCents = %d, want 4500", quote.AdultRateCents)
	}
}

func TestQuotePricingUnavailable(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	// Two season-less property-wide rules match the same stay; the config
	// fault surfaces as pricing being unavailable.
	rules := []*model.PricingRule{
		rule("base-a", "", "", "", 4500),
		rule("base-b", "", "", "", 4700),
	}
	rooms := []*model.Room{testRoom("room-1", "", 2, 1)}

	_, err := svc.QuoteRoomsIn(rules, nil, rooms, stay(model.ModeRoom, []string{"room-1"}, 1, 0, 1))
	if err == nil {
		t.Fatal("expected pricing error")
	}
	if apperrors.AsAppError(err).Reason() != berrors.ReasonPricingUnavailable {
		t.Errorf("reason = %s, want %s", apperrors.AsAppError(err).Reason(), berrors.ReasonPricingUnavailable)
	}
}

func TestQuoteBuyoutHasNoDefaultRate(t *testing.T) {
	cfg := pricingTestConfig()
	calendar := seasons.NewCalendar(&mockSeasonRepository{}, cfg)

	ruleRepo := &mockRuleRepository{
		findByPropertyFunc: func(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
			return nil, nil
		},
	}
	svc := NewService(cfg, ruleRepo, &mockRoomRepository{}, calendar)

	_, err := svc.QuoteStay(context.Background(), stay(model.ModeBuyout, nil, 10, 0, 2))
	if err == nil {
		t.Fatal("expected pricing error")
	}
	if apperrors.AsAppError(err).Reason() != berrors.ReasonPricingUnavailable {
		t.Errorf("reason = %s, want %s", apperrors.AsAppError(err).Reason(), berrors.ReasonPricingUnavailable)
	}
}

func TestQuoteInactiveRoomRejected(t *testing.T) {
	svc := NewService(pricingTestConfig(), nil, nil, nil)

	inactive := testRoom("room-1", "", 2, 1)
	inactive.IsActive = false

	rules := []*model.PricingRule{rule("base", "", "", "", 4500)}

	_, err := svc.QuoteRoomsIn(rules, nil, []*model.Room{inactive}, stay(model.ModeRoom, []string{"room-1"}, 1, 0, 1))
	if err == nil {
		t.Fatal("expected inactive room rejection")
	}
	if apperrors.AsAppError(err).Reason() != berrors.ReasonRoomUnavailable {
		t.Errorf("reason = %s, want %s", apperrors.AsAppError(err).Reason(), berrors.ReasonRoomUnavailable)
	}
}

func TestQuoteStayBuyout(t *testing.T) {
	cfg := pricingTestConfig()

	ruleRepo := &mockRuleRepository{
		findByPropertyFunc: func(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
			return []*model.PricingRule{
				{
					ID:          "buyout-flat",
					PropertyID:  model.PropertyCabin,
					Mode:        model.ModeBuyout,
					Basis:       model.BasisBuyoutFixed,
					AmountCents: 120000,
				},
			}, nil
		},
	}

	calendar := seasons.NewCalendar(&mockSeasonRepository{}, cfg)
	svc := NewService(cfg, ruleRepo, &mockRoomRepository{}, calendar)

	quote, err := svc.QuoteStay(context.Background(), stay(model.ModeBuyout, nil, 10, 4, 3))
	if err != nil {
		t.Fatalf("QuoteStay() error = %v", err)
	}

	// Flat $1200 x 3 nights, occupancy does not enter the total.
	if quote.TotalCents != 360000 {
		t.Errorf("TotalCents = %d, want 360000", quote.TotalCents)
	}
	if quote.Mode != model.ModeBuyout {
		t.Errorf("Mode = %s, want buyout", quote.Mode)
	}
}

func TestQuoteStaySeasonalRoomRate(t *testing.T) {
	cfg := pricingTestConfig()

	winter := &model.Season{
		ID:         "season-winter",
		PropertyID: model.PropertyCabin,
		Name:       "Winter",
		Start:      model.Boundary{Month: time.November, Day: 1},
		End:        model.Boundary{Month: time.April, Day: 30},
	}

	ruleRepo := &mockRuleRepository{
		findByPropertyFunc: func(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
			return []*model.PricingRule{
				rule("year-round", "", "", "", 4500),
				rule("winter-rate", "season-winter", "", "", 5500),
			}, nil
		},
	}
	roomRepo := &mockRoomRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) ([]*model.Room, error) {
			return []*model.Room{testRoom("room-1", "", 2, 1)}, nil
		},
	}

	calendar := seasons.NewCalendar(&mockSeasonRepository{seasons: []*model.Season{winter}}, cfg)
	svc := NewService(cfg, ruleRepo, roomRepo, calendar)

	// February check-in lands in winter, so the seasonal rate wins.
	quote, err := svc.QuoteStay(context.Background(), stay(model.ModeRoom, []string{"room-1"}, 1, 0, 2))
	if err != nil {
		t.Fatalf("QuoteStay() error = %v", err)
	}

	if quote.AdultRateCents != 5500 {
		t.Errorf("AdultRateCents = %d, want 5500", quote.AdultRateCents)
	}
	if quote.TotalCents != 11000 {
		t.Errorf("TotalCents = %d, want 11000", quote.TotalCents)
	}
}
