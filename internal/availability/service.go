package availability

import (
	"context"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/properties"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

// Snapshot is a point-in-time view of what a member can book for a date
// range. It is advisory: the booking transaction re-checks everything under
// lock before committing.
type Snapshot struct {
	PropertyID   model.PropertyID `json:"property_id"`
	CheckinDate  time.Time        `json:"checkin_date"`
	CheckoutDate time.Time        `json:"checkout_date"`

	Rooms           []*model.Room `json:"rooms"`
	BuyoutAvailable bool          `json:"buyout_available"`

	// BlackedOut is set when an admin blackout covers any night of the
	// range; nothing is bookable then regardless of occupancy.
	BlackedOut bool `json:"blacked_out,omitempty"`
}

type Service struct {
	cfg       *config.Config
	rooms     properties.RoomRepository
	blackouts properties.BlackoutRepository
	stays     StayReader
}

func NewService(cfg *config.Config, rooms properties.RoomRepository, blackouts properties.BlackoutRepository, stays StayReader) *Service {
	return &Service{
		cfg:       cfg,
		rooms:     rooms,
		blackouts: blackouts,
		stays:     stays,
	}
}

// ForRange computes the open rooms and buyout availability for a stay range.
// Reads are not serialized against concurrent bookings; two members may both
// see a room open and race to the locker.
func (s *Service) ForRange(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) (*Snapshot, error) {
	checkin = model.DateOnly(checkin)
	checkout = model.DateOnly(checkout)

	if !checkout.After(checkin) {
		return nil, apperrors.InvalidInput("checkout must be after checkin").
			WithReason(berrors.ReasonInvalidParameters)
	}

	snapshot := &Snapshot{
		PropertyID:   propertyID,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
		Rooms:        []*model.Room{},
	}

	blackouts, err := s.blackouts.FindOverlapping(ctx, propertyID, checkin, checkout)
	if err != nil {
		return nil, apperrors.Internal("failed to load blackout dates", err)
	}
	if len(blackouts) > 0 {
		snapshot.BlackedOut = true
		return snapshot, nil
	}

	rooms, err := s.rooms.FindActiveByProperty(ctx, propertyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load rooms", err)
	}

	overlapping, err := s.stays.FindActiveOverlapping(ctx, propertyID, checkin, checkout)
	if err != nil {
		return nil, apperrors.Internal("failed to load bookings", err)
	}

	occupied := occupiedRooms(overlapping)
	buyoutHeld := holdsBuyout(overlapping)

	for _, room := range rooms {
		if buyoutHeld {
			break
		}
		if _, taken := occupied[room.ID]; taken {
			continue
		}
		snapshot.Rooms = append(snapshot.Rooms, room)
	}

	snapshot.BuyoutAvailable = len(overlapping) == 0

	return snapshot, nil
}

func occupiedRooms(bookings []*model.Booking) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, b := range bookings {
		for _, id := range b.RoomIDs {
			occupied[id] = struct{}{}
		}
	}
	return occupied
}

// holdsBuyout reports whether any overlapping booking claims the whole
// property, which blocks every room.
func holdsBuyout(bookings []*model.Booking) bool {
	for _, b := range bookings {
		if b.Mode == model.ModeBuyout {
			return true
		}
	}
	return false
}
