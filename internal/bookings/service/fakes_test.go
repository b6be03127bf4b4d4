package service

import (
	"context"
	"sync"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	mongodb "github.com/barreyo/ysc-redesign-ex-sub001/pkg/db/mongo"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// memStore backs the repository fakes with a single mutex-guarded state, so
// concurrent test requests exercise the same interleavings the real
// collections would see.
type memStore struct {
	mu        sync.Mutex
	bookings  map[string]*model.Booking
	locks     map[string]*model.InventoryLock
	inventory map[string]*model.PropertyInventory
}

func newMemStore() *memStore {
	return &memStore{
		bookings:  make(map[string]*model.Booking),
		locks:     make(map[string]*model.InventoryLock),
		inventory: make(map[string]*model.PropertyInventory),
	}
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

type fakeBookingRepository struct {
	store *memStore
}

func (r *fakeBookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	return booking, nil
}

func (r *fakeBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, berrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepository) FindByNonce(ctx context.Context, memberID, nonce string) (*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, booking := range r.store.bookings {
		if booking.MemberID == memberID && booking.Nonce == nonce {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, berrors.ErrNotFound
}

func (r *fakeBookingRepository) FindActiveOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*model.Booking
	for _, booking := range r.store.bookings {
		if booking.PropertyID == propertyID && booking.IsActive() && booking.OverlapsStay(checkin, checkout) {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepository) FindActiveByMember(ctx context.Context, memberID string, propertyID model.PropertyID) ([]*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*model.Booking
	for _, booking := range r.store.bookings {
		if booking.MemberID == memberID && booking.PropertyID == propertyID && booking.IsActive() {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepository) FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*model.Booking
	for _, booking := range r.store.bookings {
		if booking.MemberID == memberID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepository) Cancel(ctx context.Context, id string, at time.Time) (*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok || !booking.IsActive() {
		return nil, berrors.ErrNotFound
	}
	booking.Status = model.StatusCancelled
	booking.CancelledAt = &at
	copied := *booking
	return &copied, nil
}

type fakeLockRepository struct {
	store *memStore
}

func (r *fakeLockRepository) Acquire(ctx context.Context, lock *model.InventoryLock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.locks[lock.ID]; ok && existing.ExpiresAt.After(time.Now()) {
		return duplicateKeyError()
	}
	copied := *lock
	r.store.locks[lock.ID] = &copied
	return nil
}

func (r *fakeLockRepository) Release(ctx context.Context, id, owner string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.locks[id]; ok && existing.Owner == owner {
		delete(r.store.locks, id)
	}
	return nil
}

type fakeInventoryRepository struct {
	store *memStore
}

func (r *fakeInventoryRepository) FindConflicts(ctx context.Context, propertyID model.PropertyID, days []time.Time, roomIDs []string, buyout bool) ([]*model.PropertyInventory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	requested := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		requested[id] = struct{}{}
	}

	var conflicts []*model.PropertyInventory
	for _, day := range days {
		doc, ok := r.store.inventory[inventoryKey(propertyID, day)]
		if !ok {
			continue
		}
		if doc.BuyoutBooked {
			conflicts = append(conflicts, doc)
			continue
		}
		if buyout && len(doc.RoomIDs) > 0 {
			conflicts = append(conflicts, doc)
			continue
		}
		for _, roomID := range doc.RoomIDs {
			if _, ok := requested[roomID]; ok {
				conflicts = append(conflicts, doc)
				break
			}
		}
	}
	return conflicts, nil
}

func (r *fakeInventoryRepository) Reserve(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, day := range days {
		key := inventoryKey(propertyID, day)
		doc, ok := r.store.inventory[key]
		if !ok {
			doc = &model.PropertyInventory{
				ID:         key,
				PropertyID: propertyID,
				Date:       model.DateOnly(day),
			}
			r.store.inventory[key] = doc
		}
		doc.BookingIDs = append(doc.BookingIDs, bookingID)
		if buyout {
			doc.BuyoutBooked = true
		} else {
			doc.RoomIDs = append(doc.RoomIDs, roomIDs...)
		}
	}
	return nil
}

func (r *fakeInventoryRepository) Release(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	remove := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		remove[id] = struct{}{}
	}

	for _, day := range days {
		doc, ok := r.store.inventory[inventoryKey(propertyID, day)]
		if !ok {
			continue
		}
		doc.BookingIDs = without(doc.BookingIDs, map[string]struct{}{bookingID: {}})
		if buyout {
			doc.BuyoutBooked = false
		} else {
			doc.RoomIDs = without(doc.RoomIDs, remove)
		}
	}
	return nil
}

func without(values []string, remove map[string]struct{}) []string {
	var out []string
	for _, v := range values {
		if _, ok := remove[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func inventoryKey(propertyID model.PropertyID, day time.Time) string {
	return string(propertyID) + "_" + model.DateOnly(day).Format("2006-01-02")
}

// fakeTxManager runs the transaction body directly. Atomicity in these tests
// comes from the advisory locks, which is exactly the property under test.
type fakeTxManager struct{}

func (f *fakeTxManager) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type fakeMembership struct {
	tiers map[string]model.MembershipTier
}

func (f *fakeMembership) GetMember(ctx context.Context, memberID string) (*model.Member, error) {
	tier, ok := f.tiers[memberID]
	if !ok {
		tier = model.TierSingle
	}
	return &model.Member{
		ID:       memberID,
		FullName: "Test Member",
		Tier:     tier,
	}, nil
}

type fakeRuleRepository struct {
	rules []*model.PricingRule
}

func (f *fakeRuleRepository) FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.PricingRule, error) {
	return f.rules, nil
}

type fakeRoomRepository struct {
	rooms []*model.Room
}

func (f *fakeRoomRepository) FindActiveByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Room, error) {
	return f.rooms, nil
}

func (f *fakeRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error) {
	var out []*model.Room
	for _, id := range ids {
		for _, room := range f.rooms {
			if room.ID == id {
				out = append(out, room)
			}
		}
	}
	return out, nil
}

type fakeBlackoutRepository struct {
	blackouts []*model.BlackoutDate
}

func (f *fakeBlackoutRepository) FindOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.BlackoutDate, error) {
	var out []*model.BlackoutDate
	for _, b := range f.blackouts {
		if b.OverlapsStay(checkin, checkout) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSeasonRepository struct {
	seasons []*model.Season
}

func (f *fakeSeasonRepository) FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Season, error) {
	return f.seasons, nil
}
