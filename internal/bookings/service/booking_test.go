package service

import (
	"context"
	"sync"
	"testing"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/validator"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/pricing"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Fixed clock for every test: Monday, March 2, 2026.
var testToday = model.Date(2026, time.March, 2)

type testEnv struct {
	cfg       *config.Config
	store     *memStore
	blackouts *fakeBlackoutRepository
	svc       *BookingService
}

func newTestEnv(tiers map[string]model.MembershipTier) *testEnv {
	cfg := &config.Config{
		ServiceName:        "bookings-test",
		MaxNights:          4,
		FallbackAdvance:    365 * 24 * time.Hour,
		BuyoutOccupancyCap: 17,
		AdultRateCents:     4500,
		ChildRateCents:     2500,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		LockTTL:            30 * time.Second,
		LockRetries:        100,
		LockRetryBackoff:   time.Millisecond,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "bookings-test",
		}),
	}

	store := newMemStore()

	seasonRepo := &fakeSeasonRepository{seasons: []*model.Season{
		{
			ID:                 "season-all-year",
			PropertyID:         model.PropertyCabin,
			Name:               "All Year",
			Start:              model.Boundary{Month: time.January, Day: 1},
			End:                model.Boundary{Month: time.December, Day: 31},
			AdvanceBookingDays: 365,
		},
	}}

	roomRepo := &fakeRoomRepository{rooms: []*model.Room{
		{ID: "room-1", PropertyID: model.PropertyCabin, Name: "Loft", CapacityMax: 4, MinBillableOccupancy: 2, IsActive: true},
		{ID: "room-2", PropertyID: model.PropertyCabin, Name: "Bunk A", CapacityMax: 4, MinBillableOccupancy: 2, IsActive: true},
		{ID: "room-3", PropertyID: model.PropertyCabin, Name: "Bunk B", CapacityMax: 4, MinBillableOccupancy: 2, IsActive: true},
	}}

	ruleRepo := &fakeRuleRepository{rules: []*model.PricingRule{
		{
			ID:          "rate-room",
			PropertyID:  model.PropertyCabin,
			Mode:        model.ModeRoom,
			Basis:       model.BasisPerPersonPerNight,
			AmountCents: 4500,
		},
		{
			ID:          "rate-buyout",
			PropertyID:  model.PropertyCabin,
			Mode:        model.ModeBuyout,
			Basis:       model.BasisBuyoutFixed,
			AmountCents: 120000,
		},
	}}

	blackoutRepo := &fakeBlackoutRepository{}

	deps := Dependencies{
		Bookings:  &fakeBookingRepository{store: store},
		Inventory: &fakeInventoryRepository{store: store},
		Locks:     &fakeLockRepository{store: store},
		Tx:        &fakeTxManager{},
		Rooms:     roomRepo,
		Blackouts: blackoutRepo,
		Seasons:   seasonRepo,
		Rules:     ruleRepo,
		Members:   &fakeMembership{tiers: tiers},
	}
	svc := NewBookingService(cfg, deps)
	svc.now = func() time.Time { return testToday }
	svc.deps.Quoter = pricing.NewService(cfg, ruleRepo, roomRepo, svc.calendar)

	return &testEnv{
		cfg:       cfg,
		store:     store,
		blackouts: blackoutRepo,
		svc:       svc,
	}
}

func roomStay(memberID string, roomIDs []string, checkin time.Time, nights int) model.StayRequest {
	return model.StayRequest{
		MemberID:     memberID,
		PropertyID:   model.PropertyCabin,
		CheckinDate:  checkin,
		CheckoutDate: checkin.AddDate(0, 0, nights),
		Mode:         model.ModeRoom,
		RoomIDs:      roomIDs,
		GuestsCount:  2,
	}
}

func buyoutStay(memberID string, checkin time.Time, nights int) model.StayRequest {
	return model.StayRequest{
		MemberID:     memberID,
		PropertyID:   model.PropertyCabin,
		CheckinDate:  checkin,
		CheckoutDate: checkin.AddDate(0, 0, nights),
		Mode:         model.ModeBuyout,
		GuestsCount:  10,
	}
}

func reason(err error) string {
	return apperrors.AsAppError(err).Reason()
}

// Tuesday, two nights, no weekend involvement.
var quietCheckin = model.Date(2026, time.March, 10)

func TestCreateBookingSucceeds(t *testing.T) {
	env := newTestEnv(nil)

	booking, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	if booking.Status != model.StatusHold {
		t.Errorf("Status = %s, want hold", booking.Status)
	}
	// 2 guests x $45 x 2 nights.
	if booking.TotalCents != 18000 {
		t.Errorf("TotalCents = %d, want 18000", booking.TotalCents)
	}
	if booking.Reference == "" {
		t.Error("expected a booking reference")
	}
	if len(env.store.locks) != 0 {
		t.Errorf("locks leaked: %d still held", len(env.store.locks))
	}
}

func TestConcurrentSameRoomExactlyOneWins(t *testing.T) {
	env := newTestEnv(nil)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			memberID := "member-" + string(rune('a'+i))
			_, errs[i] = env.svc.CreateBooking(context.Background(), roomStay(memberID, []string{"room-1"}, quietCheckin, 2))
		}(i)
	}
	wg.Wait()

	var successes, unavailable int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case reason(err) == berrors.ReasonRoomUnavailable:
			unavailable++
		default:
			t.Errorf("unexpected failure: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if unavailable != attempts-1 {
		t.Errorf("room_unavailable failures = %d, want %d", unavailable, attempts-1)
	}
	if len(env.store.locks) != 0 {
		t.Errorf("locks leaked: %d still held", len(env.store.locks))
	}
}

func TestConcurrentBuyoutVersusRoom(t *testing.T) {
	env := newTestEnv(nil)

	var wg sync.WaitGroup
	var roomErr, buyoutErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, roomErr = env.svc.CreateBooking(context.Background(), roomStay("member-room", []string{"room-1"}, quietCheckin, 2))
	}()
	go func() {
		defer wg.Done()
		_, buyoutErr = env.svc.CreateBooking(context.Background(), buyoutStay("member-buyout", quietCheckin, 2))
	}()
	wg.Wait()

	successes := 0
	if roomErr == nil {
		successes++
	}
	if buyoutErr == nil {
		successes++
	}

	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1 (roomErr=%v, buyoutErr=%v)", successes, roomErr, buyoutErr)
	}
}

func TestBuyoutAfterRoomBookingRejected(t *testing.T) {
	env := newTestEnv(nil)

	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	_, err := env.svc.CreateBooking(context.Background(), buyoutStay("member-2", quietCheckin, 2))
	if err == nil {
		t.Fatal("expected buyout to be rejected")
	}
	if reason(err) != berrors.ReasonPropertyUnavailable {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonPropertyUnavailable)
	}
}

func TestWeekendRule(t *testing.T) {
	env := newTestEnv(nil)

	saturday := model.Date(2026, time.March, 7)

	// Saturday night only.
	violations, err := env.svc.ValidateStay(context.Background(), roomStay("member-1", []string{"room-1"}, saturday, 1))
	if err != nil {
		t.Fatalf("ValidateStay() error = %v", err)
	}
	if _, ok := violations[validator.RuleWeekend]; !ok {
		t.Errorf("expected weekend_rule violation, got %v", violations)
	}

	// Through Monday, Sunday night included.
	violations, err = env.svc.ValidateStay(context.Background(), roomStay("member-1", []string{"room-1"}, saturday, 2))
	if err != nil {
		t.Fatalf("ValidateStay() error = %v", err)
	}
	if _, ok := violations[validator.RuleWeekend]; ok {
		t.Errorf("did not expect weekend_rule violation, got %v", violations)
	}
}

func TestMaxNightsRule(t *testing.T) {
	env := newTestEnv(nil)

	sunday := model.Date(2026, time.March, 8)

	violations, err := env.svc.ValidateStay(context.Background(), roomStay("member-1", []string{"room-1"}, sunday, 5))
	if err != nil {
		t.Fatalf("ValidateStay() error = %v", err)
	}
	if _, ok := violations[validator.RuleMaxNights]; !ok {
		t.Errorf("expected max_nights violation, got %v", violations)
	}

	violations, err = env.svc.ValidateStay(context.Background(), roomStay("member-1", []string{"room-1"}, sunday, 4))
	if err != nil {
		t.Fatalf("ValidateStay() error = %v", err)
	}
	if _, ok := violations[validator.RuleMaxNights]; ok {
		t.Errorf("did not expect max_nights violation, got %v", violations)
	}
}

func TestAdvanceBookingLimit(t *testing.T) {
	env := newTestEnv(nil)

	farFuture := testToday.AddDate(0, 0, 400)

	violations, err := env.svc.ValidateStay(context.Background(), roomStay("member-1", []string{"room-1"}, farFuture, 2))
	if err != nil {
		t.Fatalf("ValidateStay() error = %v", err)
	}
	if _, ok := violations[validator.RuleAdvanceBooking]; !ok {
		t.Errorf("expected advance_booking_limit violation, got %v", violations)
	}
}

func TestQuotaSingleTier(t *testing.T) {
	env := newTestEnv(map[string]model.MembershipTier{"member-1": model.TierSingle})

	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// Different room, same dates: still over the single-tier quota.
	_, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-2"}, quietCheckin, 2))
	if err == nil {
		t.Fatal("expected quota rejection")
	}
	if reason(err) != berrors.ReasonQuotaExceeded {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonQuotaExceeded)
	}
}

func TestQuotaFamilyTwoRoomsOneSubmission(t *testing.T) {
	env := newTestEnv(map[string]model.MembershipTier{"member-1": model.TierFamily})

	booking, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1", "room-2"}, quietCheckin, 2))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	if len(booking.RoomIDs) != 2 {
		t.Errorf("rooms = %d, want 2", len(booking.RoomIDs))
	}
}

func TestQuotaFamilySecondBookingEnvelope(t *testing.T) {
	env := newTestEnv(map[string]model.MembershipTier{"member-1": model.TierFamily})

	// First booking: 2 nights from March 10. Envelope for the second:
	// [Mar 10 - (4-2), Mar 10 + 4] = [Mar 8, Mar 14].
	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// Inside the envelope, one room, non-overlapping dates: allowed.
	inEnvelope := roomStay("member-1", []string{"room-2"}, model.Date(2026, time.March, 12), 1)
	if _, err := env.svc.CreateBooking(context.Background(), inEnvelope); err != nil {
		t.Fatalf("CreateBooking() inside envelope error = %v", err)
	}

	env2 := newTestEnv(map[string]model.MembershipTier{"member-1": model.TierFamily})
	if _, err := env2.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// Outside the envelope: rejected even though rooms are free.
	outside := roomStay("member-1", []string{"room-2"}, model.Date(2026, time.March, 20), 1)
	_, err := env2.svc.CreateBooking(context.Background(), outside)
	if err == nil {
		t.Fatal("expected envelope rejection")
	}
	if reason(err) != berrors.ReasonQuotaExceeded {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonQuotaExceeded)
	}

	// A second booking naming two rooms is rejected outright.
	twoRooms := roomStay("member-1", []string{"room-2", "room-3"}, model.Date(2026, time.March, 12), 1)
	if _, err := env2.svc.CreateBooking(context.Background(), twoRooms); err == nil {
		t.Fatal("expected two-room second booking to be rejected")
	}
}

// Two concurrent non-overlapping requests hold disjoint day locks, so each
// can reach its transaction with a rule context read before the other
// committed. The in-transaction re-check must still enforce the envelope.
func TestQuotaEnvelopeEnforcedAtCommit(t *testing.T) {
	env := newTestEnv(map[string]model.MembershipTier{"member-1": model.TierFamily})

	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// Context as a concurrent request would have read it before the first
	// booking committed: no active bookings yet.
	stale := validator.StayContext{
		Today:          testToday,
		MaxNights:      env.cfg.MaxNights,
		MaxBookingDate: testToday.AddDate(0, 0, 365),
		Member:         &model.Member{ID: "member-1", Tier: model.TierFamily},
	}

	// March 20 is outside the [Mar 8, Mar 14] envelope of the first booking.
	outside := roomStay("member-1", []string{"room-2"}, model.Date(2026, time.March, 20), 1)

	err := env.svc.deps.Tx.ExecuteTransaction(context.Background(), func(sctx mongo.SessionContext) error {
		return env.svc.recheckStay(sctx, outside, stale)
	})
	if err == nil {
		t.Fatal("expected envelope rejection at commit time")
	}
	if reason(err) != berrors.ReasonQuotaExceeded {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonQuotaExceeded)
	}

	// Same stale context, two rooms: the single-room-second constraint also
	// holds at commit time.
	twoRooms := roomStay("member-1", []string{"room-2", "room-3"}, model.Date(2026, time.March, 12), 1)
	err = env.svc.deps.Tx.ExecuteTransaction(context.Background(), func(sctx mongo.SessionContext) error {
		return env.svc.recheckStay(sctx, twoRooms, stale)
	})
	if err == nil {
		t.Fatal("expected two-room second booking rejection at commit time")
	}
	if reason(err) != berrors.ReasonQuotaExceeded {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonQuotaExceeded)
	}
}

func TestSecondBookingWindowClamping(t *testing.T) {
	first := &model.Booking{
		CheckinDate:  model.Date(2026, time.March, 10),
		CheckoutDate: model.Date(2026, time.March, 12),
	}

	maxBookingDate := model.Date(2026, time.June, 1)

	from, to := validator.SecondBookingWindow(first, 4, testToday, maxBookingDate)
	if !from.Equal(model.Date(2026, time.March, 8)) {
		t.Errorf("from = %s, want 2026-03-08", from.Format("2006-01-02"))
	}
	if !to.Equal(model.Date(2026, time.March, 14)) {
		t.Errorf("to = %s, want 2026-03-14", to.Format("2006-01-02"))
	}

	// Today clamps the lower bound.
	lateToday := model.Date(2026, time.March, 9)
	from, _ = validator.SecondBookingWindow(first, 4, lateToday, maxBookingDate)
	if !from.Equal(lateToday) {
		t.Errorf("from = %s, want clamp to today", from.Format("2006-01-02"))
	}
}

func TestIdempotentNonce(t *testing.T) {
	env := newTestEnv(nil)

	req := roomStay("member-1", []string{"room-1"}, quietCheckin, 2)
	req.Nonce = "nonce-123"

	first, err := env.svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	second, err := env.svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("retried CreateBooking() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("retry created a new booking: %s vs %s", first.ID, second.ID)
	}
	if len(env.store.bookings) != 1 {
		t.Errorf("bookings = %d, want 1", len(env.store.bookings))
	}
}

func TestCancelReleasesRooms(t *testing.T) {
	env := newTestEnv(nil)

	booking, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	// The room is taken.
	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-2", []string{"room-1"}, quietCheckin, 2)); err == nil {
		t.Fatal("expected conflict before cancellation")
	}

	cancelled, err := env.svc.CancelBooking(context.Background(), booking.ID, "member-1")
	if err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", cancelled.Status)
	}

	// The room is free again.
	if _, err := env.svc.CreateBooking(context.Background(), roomStay("member-2", []string{"room-1"}, quietCheckin, 2)); err != nil {
		t.Fatalf("CreateBooking() after cancel error = %v", err)
	}
}

func TestCancelOtherMembersBookingHidden(t *testing.T) {
	env := newTestEnv(nil)

	booking, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	_, err = env.svc.CancelBooking(context.Background(), booking.ID, "member-2")
	if err == nil {
		t.Fatal("expected not-found for foreign booking")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeNotFound)
	}
}

func TestLockContentionTimesOut(t *testing.T) {
	env := newTestEnv(nil)
	env.cfg.LockRetries = 2
	env.cfg.LockRetryBackoff = time.Millisecond

	// A foreign process holds one of the day locks and never lets go.
	env.store.locks[model.InventoryLockID(model.PropertyCabin, quietCheckin)] = &model.InventoryLock{
		ID:        model.InventoryLockID(model.PropertyCabin, quietCheckin),
		Owner:     "someone-else",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	_, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err == nil {
		t.Fatal("expected lock timeout")
	}
	if reason(err) != berrors.ReasonLockTimeout {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonLockTimeout)
	}
}

func TestBlackoutRejectedAtCommit(t *testing.T) {
	env := newTestEnv(nil)
	env.blackouts.blackouts = []*model.BlackoutDate{
		{
			ID:         "maintenance",
			PropertyID: model.PropertyCabin,
			StartDate:  quietCheckin,
			EndDate:    quietCheckin.AddDate(0, 0, 3),
		},
	}

	_, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err == nil {
		t.Fatal("expected blackout rejection")
	}
	if reason(err) != berrors.ReasonPropertyUnavailable {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonPropertyUnavailable)
	}
}

func TestStaleInventoryDetected(t *testing.T) {
	env := newTestEnv(nil)

	// Inventory claims the room is taken but no booking backs it up: the
	// stores disagree and the member should refresh.
	key := inventoryKey(model.PropertyCabin, quietCheckin)
	env.store.inventory[key] = &model.PropertyInventory{
		ID:         key,
		PropertyID: model.PropertyCabin,
		Date:       quietCheckin,
		RoomIDs:    []string{"room-1"},
	}

	_, err := env.svc.CreateBooking(context.Background(), roomStay("member-1", []string{"room-1"}, quietCheckin, 2))
	if err == nil {
		t.Fatal("expected stale inventory rejection")
	}
	if reason(err) != berrors.ReasonStaleInventory {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonStaleInventory)
	}
}

func TestInvalidParameters(t *testing.T) {
	env := newTestEnv(nil)

	// Room mode with no rooms.
	req := roomStay("member-1", nil, quietCheckin, 2)
	_, err := env.svc.CreateBooking(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if reason(err) != berrors.ReasonInvalidParameters {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonInvalidParameters)
	}

	// Checkout before checkin.
	req = roomStay("member-1", []string{"room-1"}, quietCheckin, 2)
	req.CheckoutDate = req.CheckinDate.AddDate(0, 0, -1)
	if _, err := env.svc.CreateBooking(context.Background(), req); err == nil {
		t.Fatal("expected validation error for inverted dates")
	}

	// Buyout over the occupancy cap.
	req = buyoutStay("member-1", quietCheckin, 2)
	req.GuestsCount = 18
	_, err = env.svc.CreateBooking(context.Background(), req)
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if reason(err) != berrors.ReasonInsufficientCapacity {
		t.Errorf("reason = %s, want %s", reason(err), berrors.ReasonInsufficientCapacity)
	}
}
