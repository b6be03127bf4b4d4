package seasons

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

const CollectionName = "Seasons"

type SeasonRepository interface {
	FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Season, error)
}

type mongoSeasonRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSeasonRepository(cfg *config.Config) SeasonRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeasonRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSeasonRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSeasonRepository) FindByProperty(ctx context.Context, propertyID model.PropertyID) ([]*model.Season, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start.month", Value: 1}, {Key: "start.day", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seasons: %w", err)
	}
	defer cursor.Close(ctx)

	var seasons []*model.Season
	if err = cursor.All(ctx, &seasons); err != nil {
		return nil, fmt.Errorf("failed to decode seasons: %w", err)
	}

	return seasons, nil
}
