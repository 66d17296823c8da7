package mongo

import (
	"testing"
	"time"

	"roombooking/internal/migrations/mongo/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSeedModels_DeduplicatesAndSkipsEmpty(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	models := seedModels([]string{"room1", "", " room2 ", "room1"}, now)
	require.Len(t, models, 2)

	first, ok := models[0].(*mongo.UpdateOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": "room1"}, first.Filter)
	require.NotNil(t, first.Upsert)
	assert.True(t, *first.Upsert)

	update := first.Update.(bson.M)["$setOnInsert"].(bson.M)
	assert.Equal(t, now, update["updated_at"])
	assert.Empty(t, update["bookings"])
}

func TestSeedModels_Empty(t *testing.T) {
	assert.Empty(t, seedModels(nil, time.Now()))
}

func TestRoomsIndexes(t *testing.T) {
	require.NotEmpty(t, RoomsIndexes)
	bookingIdx := RoomsIndexes[0]
	assert.Equal(t, bson.D{{Key: "bookings.id", Value: 1}}, bookingIdx.Keys)
	require.NotNil(t, bookingIdx.Options.Unique)
	assert.True(t, *bookingIdx.Options.Unique)
	assert.NotNil(t, bookingIdx.Options.PartialFilterExpression)
}

func TestRoomValidator_RequiresDocumentShape(t *testing.T) {
	schema := validators.RoomValidator["$jsonSchema"].(bson.M)
	assert.ElementsMatch(t, []string{"_id", "bookings", "updated_at"}, schema["required"])

	bookings := schema["properties"].(bson.M)["bookings"].(bson.M)
	items := bookings["items"].(bson.M)
	assert.ElementsMatch(t, []string{"id", "start_time", "end_time"}, items["required"])
}
