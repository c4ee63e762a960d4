package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roomline/roomline-server/internal/store"
)

// Hub resolves room names to their actor instances. Rooms are created
// on first use and live until the hub's context is canceled; two rooms
// never share mutable state.
type Hub struct {
	store store.Store
	log   *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewHub creates an empty hub. The hub carries its own lifetime
// context so every room actor observes shutdown no matter when it was
// created relative to Run.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		store:  st,
		log:    logger,
		ctx:    ctx,
		cancel: cancel,
		rooms:  make(map[string]*Room),
	}
}

// Run blocks until ctx is canceled, then stops every room actor.
func (h *Hub) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-h.ctx.Done():
	}
	h.cancel()
}

// GetOrCreate returns the actor for name, starting it on first use.
func (h *Hub) GetOrCreate(name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[name]; ok {
		return room
	}

	room := NewRoom(name, h.store, h.log)
	h.rooms[name] = room
	go room.Run(h.ctx)

	h.log.Info().Str("room", name).Msg("room created")
	return room
}
