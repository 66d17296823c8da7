package repository

import (
	"context"
	"sync"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/pkg/model"
)

// MemoryRoomRepository keeps rooms in process. FindAll returns rooms in the
// order they were first saved. Rooms are copied on the way in and out.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	order []string
	rooms map[string]*model.Room
}

func NewMemoryRoomRepository(rooms ...*model.Room) *MemoryRoomRepository {
	r := &MemoryRoomRepository{
		rooms: make(map[string]*model.Room, len(rooms)),
	}
	for _, room := range rooms {
		r.put(room)
	}
	return r
}

func (r *MemoryRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, roomserrors.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (r *MemoryRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id].Clone())
	}
	return out, nil
}

func (r *MemoryRoomRepository) Save(ctx context.Context, room *model.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(room)
	return nil
}

func (r *MemoryRoomRepository) put(room *model.Room) {
	if _, exists := r.rooms[room.ID()]; !exists {
		r.order = append(r.order, room.ID())
	}
	r.rooms[room.ID()] = room.Clone()
}
