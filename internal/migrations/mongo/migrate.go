package mongo

import (
	"context"
	"fmt"
	"time"

	"roombooking/internal/migrations/mongo/validators"
	"roombooking/internal/rooms/repository"
	"roombooking/pkg/logger"
	"roombooking/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomsIndexes back the booking-id lookup used by cancellation. The unique
// index also stops two rooms from claiming the same booking id; rooms without
// bookings are left out of it.
var RoomsIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{{Key: "bookings.id", Value: 1}},
		Options: options.Index().
			SetName("bookings_id_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"bookings.id": bson.M{"$exists": true}}),
	},
	{
		Keys:    bson.D{{Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("updated_at"),
	},
}

func RunMigration(ctx context.Context, db *mongo.Database, seedRoomIDs []string, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	if err := ensureCollection(ctx, db, repository.CollectionName, validators.RoomValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", repository.CollectionName, err)
	}
	if err := ensureIndexes(ctx, db, repository.CollectionName, RoomsIndexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", repository.CollectionName, err)
	}
	if err := seedRooms(ctx, db.Collection(repository.CollectionName), seedRoomIDs, time.Now().UTC(), log); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

// seedRooms inserts any missing room ids with no bookings. Existing rooms are
// left untouched.
func seedRooms(ctx context.Context, coll *mongo.Collection, ids []string, now time.Time, log *logger.Logger) error {
	models := seedModels(ids, now)
	if len(models) == 0 {
		return nil
	}

	result, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return err
	}
	log.Info("Seeded rooms", "requested", len(ids), "inserted", result.UpsertedCount)
	return nil
}

func seedModels(ids []string, now time.Time) []mongo.WriteModel {
	var models []mongo.WriteModel
	for _, id := range sanitizer.SanitizeSlice(ids, sanitizer.SanitizeID) {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"bookings":   bson.A{},
				"updated_at": now,
			}}).
			SetUpsert(true))
	}
	return models
}
