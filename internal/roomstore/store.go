package roomstore

import (
	"sync"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

// Store is the in-memory room table. It is the only place Room values
// are constructed; rooms are created lazily on first lookup and live
// for the process lifetime.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func New() *Store {
	return &Store{
		rooms: make(map[string]*entity.Room),
	}
}

// GetOrCreate returns the room for the given id, creating a fresh
// waiting room if none exists yet. It never fails.
func (that *Store) GetOrCreate(id string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[id]; ok {
		return room
	}

	room := entity.NewRoom(id)
	that.rooms[id] = room

	return room
}

// Get returns the room for the given id, if any.
func (that *Store) Get(id string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]

	return room, ok
}

// Len reports how many rooms exist.
func (that *Store) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
