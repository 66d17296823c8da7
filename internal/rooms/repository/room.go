package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/pkg/config"
	"roombooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Rooms"
)

type roomDocument struct {
	ID        string            `bson:"_id"`
	Bookings  []bookingDocument `bson:"bookings"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

type bookingDocument struct {
	ID        string    `bson:"id"`
	StartTime time.Time `bson:"start_time"`
	EndTime   time.Time `bson:"end_time"`
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// withTimeout bounds ctx by timeout unless the caller's deadline is sooner.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRoomRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"bookings.id": bookingID})
}

func (r *mongoRoomRepository) findOne(ctx context.Context, filter bson.M) (*model.Room, error) {
	var doc roomDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return doc.toModel()
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []roomDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	rooms := make([]*model.Room, 0, len(docs))
	for _, doc := range docs {
		room, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Save(ctx context.Context, room *model.Room) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := toDocument(room, r.now())
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.ID(), err)
	}
	return nil
}

func toDocument(room *model.Room, updatedAt time.Time) roomDocument {
	bookings := room.Bookings()
	doc := roomDocument{
		ID:        room.ID(),
		Bookings:  make([]bookingDocument, 0, len(bookings)),
		UpdatedAt: updatedAt,
	}
	for _, b := range bookings {
		doc.Bookings = append(doc.Bookings, bookingDocument{
			ID:        b.ID(),
			StartTime: b.StartTime(),
			EndTime:   b.EndTime(),
		})
	}
	return doc
}

func (d roomDocument) toModel() (*model.Room, error) {
	bookings := make([]*model.Booking, 0, len(d.Bookings))
	for _, bd := range d.Bookings {
		b, err := model.NewBooking(bd.ID, bd.StartTime, bd.EndTime)
		if err != nil {
			return nil, fmt.Errorf("corrupt booking %s in room %s: %w", bd.ID, d.ID, err)
		}
		bookings = append(bookings, b)
	}
	return model.NewRoom(d.ID, bookings...), nil
}
