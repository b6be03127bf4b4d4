package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const bookingsCollection = "Bookings"

// StayReader reads the active bookings that occupy inventory in a date
// range. It is deliberately read-only; all writes go through the booking
// service and its locking discipline.
type StayReader interface {
	FindActiveOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.Booking, error)
}

type mongoStayReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStayReader(cfg *config.Config) StayReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStayReader{
		cfg:        cfg,
		collection: db.Collection(bookingsCollection),
	}
}

func (r *mongoStayReader) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// FindActiveOverlapping applies the half-open overlap test in the query
// itself: a booking occupies [checkin, checkout), so checkout day equals
// next check-in day without conflict.
func (r *mongoStayReader) FindActiveOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

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
