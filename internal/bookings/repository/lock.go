package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "Inventory_locks"

// LockRepository implements advisory locking over (property, day) keys. The
// deterministic _id and the collection's unique key give first-writer-wins;
// a duplicate key error is surfaced untouched so the caller can classify it
// as contention rather than failure.
type LockRepository interface {
	Acquire(ctx context.Context, lock *model.InventoryLock) error
	Release(ctx context.Context, id, owner string) error
}

type mongoLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLockRepository(cfg *config.Config) LockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLockRepository{
		cfg:        cfg,
		collection: db.Collection(LocksCollection),
	}
}

func (r *mongoLockRepository) Acquire(ctx context.Context, lock *model.InventoryLock) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

// Release only deletes a lock still owned by the caller, so a lock that
// expired and was re-acquired by someone else is never stolen back.
func (r *mongoLockRepository) Release(ctx context.Context, id, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", id, err)
	}

	return nil
}
