package repository

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

const InventoryCollection = "Property_inventory"

// InventoryRepository maintains the per-(property, day) occupancy documents.
// Reserve and Release are meant to run inside the booking transaction so the
// booking row and its inventory rows commit or roll back together.
type InventoryRepository interface {
	FindConflicts(ctx context.Context, propertyID model.PropertyID, days []time.Time, roomIDs []string, buyout bool) ([]*model.PropertyInventory, error)
	Reserve(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error
	Release(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error
}

type mongoInventoryRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInventoryRepository(cfg *config.Config) InventoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInventoryRepository{
		cfg:        cfg,
		collection: db.Collection(InventoryCollection),
	}
}

func (r *mongoInventoryRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// inventoryDayID keeps the document key deterministic so upserts from
// concurrent transactions collide instead of duplicating days.
func inventoryDayID(propertyID model.PropertyID, day time.Time) string {
	return fmt.Sprintf("%s_%s", propertyID, model.DateOnly(day).Format("2006-01-02"))
}

// FindConflicts returns inventory days already holding any of the requested
// rooms, or any occupancy at all for a buyout request. A hit here when the
// bookings scan came back clean means the two tables disagree, which the
// caller surfaces as stale inventory.
func (r *mongoInventoryRepository) FindConflicts(ctx context.Context, propertyID model.PropertyID, days []time.Time, roomIDs []string, buyout bool) ([]*model.PropertyInventory, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	ids := make([]string, len(days))
	for i, day := range days {
		ids[i] = inventoryDayID(propertyID, day)
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	if buyout {
		filter["$or"] = []bson.M{
			{"buyout_booked": true},
			{"room_ids.0": bson.M{"$exists": true}},
		}
	} else {
		filter["$or"] = []bson.M{
			{"buyout_booked": true},
			{"room_ids": bson.M{"$in": roomIDs}},
		}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory conflicts: %w", err)
	}
	defer cursor.Close(ctx)

	var conflicts []*model.PropertyInventory
	if err = cursor.All(ctx, &conflicts); err != nil {
		return nil, fmt.Errorf("failed to decode inventory conflicts: %w", err)
	}

	return conflicts, nil
}

func (r *mongoInventoryRepository) Reserve(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	for _, day := range days {
		day = model.DateOnly(day)

		update := bson.M{
			"$setOnInsert": bson.M{
				"property_id": propertyID,
				"date":        day,
			},
			"$addToSet": bson.M{
				"booking_ids": bookingID,
			},
		}
		if buyout {
			update["$set"] = bson.M{"buyout_booked": true}
		} else if len(roomIDs) > 0 {
			update["$addToSet"].(bson.M)["room_ids"] = bson.M{"$each": roomIDs}
		}

		filter := bson.M{"_id": inventoryDayID(propertyID, day)}

		opts := options.Update().SetUpsert(true)
		if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to reserve inventory for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	return nil
}

// Release removes exactly what Reserve added for one booking. Days whose
// booking list empties are left in place; they are cheap and keep history of
// having been touched.
func (r *mongoInventoryRepository) Release(ctx context.Context, propertyID model.PropertyID, days []time.Time, bookingID string, roomIDs []string, buyout bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	for _, day := range days {
		day = model.DateOnly(day)

		update := bson.M{
			"$pull": bson.M{
				"booking_ids": bookingID,
			},
		}
		if buyout {
			update["$set"] = bson.M{"buyout_booked": false}
		} else if len(roomIDs) > 0 {
			update["$pull"].(bson.M)["room_ids"] = bson.M{"$in": roomIDs}
		}

		filter := bson.M{"_id": inventoryDayID(propertyID, day)}

		if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("failed to release inventory for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	return nil
}
