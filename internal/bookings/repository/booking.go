package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingsCollection = "Bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByNonce(ctx context.Context, memberID, nonce string) (*model.Booking, error)
	FindActiveOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.Booking, error)
	FindActiveByMember(ctx context.Context, memberID string, propertyID model.PropertyID) ([]*model.Booking, error)
	FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string, at time.Time) (*model.Booking, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
	}
}

// withTimeout guards standalone reads; inside a session context the
// transaction owns the deadline and we must not layer another one.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	return booking, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, berrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByNonce(ctx context.Context, memberID, nonce string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{
		"member_id": memberID,
		"nonce":     nonce,
	}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, berrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking by nonce: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindActiveOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Half-open overlap: [a1, a2) and [b1, b2) intersect iff a1 < b2 and
	// a2 > b1.
	filter := bson.M{
		"property_id":   propertyID,
		"status":        bson.M{"$in": model.ActiveStatuses},
		"checkin_date":  bson.M{"$lt": checkout},
		"checkout_date": bson.M{"$gt": checkin},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindActiveByMember(ctx context.Context, memberID string, propertyID model.PropertyID) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "checkin_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{
		"member_id":   memberID,
		"property_id": propertyID,
		"status":      bson.M{"$in": model.ActiveStatuses},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find member bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode member bookings: %w", err)
	}

	return bookings, nil
}

// FindByMember pages through a member's booking history, newest first. Count
// and page run in parallel; both hit the same index.
func (r *mongoBookingRepository) FindByMember(ctx context.Context, memberID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"member_id": memberID}

	var (
		wg       sync.WaitGroup
		total    int64
		bookings []*model.Booking
		countErr error
		findErr  error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		total, countErr = r.collection.CountDocuments(ctx, filter)
	}()

	go func() {
		defer wg.Done()

		opts := options.Find().
			SetSort(bson.D{{Key: "checkin_date", Value: -1}}).
			SetLimit(int64(limit)).
			SetSkip(offset)

		cursor, err := r.collection.Find(ctx, filter, opts)
		if err != nil {
			findErr = fmt.Errorf("failed to find bookings: %w", err)
			return
		}
		defer cursor.Close(ctx)

		if err = cursor.All(ctx, &bookings); err != nil {
			findErr = fmt.Errorf("failed to decode bookings: %w", err)
		}
	}()

	wg.Wait()

	if countErr != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", countErr)
	}
	if findErr != nil {
		return nil, 0, findErr
	}

	return bookings, total, nil
}

// Cancel flips an active booking to cancelled. Returns ErrNotFound when the
// booking does not exist or is already cancelled; the caller distinguishes
// via FindByID if it cares.
func (r *mongoBookingRepository) Cancel(ctx context.Context, id string, at time.Time) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": model.ActiveStatuses},
	}
	update := bson.M{"$set": bson.M{
		"status":       model.StatusCancelled,
		"cancelled_at": at,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, berrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	return &booking, nil
}
