package properties

import (
	"context"
	"fmt"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomsCollection     = "Rooms"
	BlackoutsCollection = "Blackout_dates"
)

// RoomRepository reads room configuration. Rooms are admin-managed and
// effectively immutable during a booking's lifetime.
type RoomRepository interface {
	FindActiveByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Room, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error)
}

// BlackoutRepository reads blackout ranges.
type BlackoutRepository interface {
	FindOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.BlackoutDate, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(RoomsCollection),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) FindActiveByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{
		"property_id": propertyID,
		"is_active":   true,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

// FindByIDs only returns active rooms, so a deactivated room behaves like an
// unknown one everywhere rooms are looked up by id.
func (r *mongoRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

type mongoBlackoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlackoutRepository(cfg *config.Config) BlackoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlackoutRepository{
		cfg:        cfg,
		collection: db.Collection(BlackoutsCollection),
	}
}

func (r *mongoBlackoutRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// FindOverlapping treats a blackout's end_date as occupied, unlike booking
// checkout days, so the comparison is inclusive on both sides.
func (r *mongoBlackoutRepository) FindOverlapping(ctx context.Context, propertyID model.PropertyID, checkin, checkout time.Time) ([]*model.BlackoutDate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"start_date":  bson.M{"$lt": checkout},
		"end_date":    bson.M{"$gte": checkin},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackout dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []*model.BlackoutDate
	if err = cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackout dates: %w", err)
	}

	return blackouts, nil
}
