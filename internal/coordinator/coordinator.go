package coordinator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/roomstore"
)

// Broadcaster is the abstract channel the transport provides: ordered
// fan-out to a room's members plus per-connection unicast.
type Broadcaster interface {
	Subscribe(connID, roomID string)
	Unsubscribe(connID, roomID string)
	Broadcast(roomID, action string, payload any)
	Unicast(connID, action string, payload any)
}

type resultRecorder interface {
	Record(ctx context.Context, result *entity.GameResult) error
}

// Coordinator owns every room transition. A single mutex is held for
// the whole of each read-modify-broadcast, so two events on the same
// room can never interleave mid-transition; broadcasts only enqueue
// to the channel and do no I/O under the lock.
type Coordinator struct {
	logger  *slog.Logger
	store   *roomstore.Store
	channel Broadcaster
	results resultRecorder

	mu    sync.Mutex
	conns map[string]string // connection id -> room id
}

func New(logger *slog.Logger, store *roomstore.Store, channel Broadcaster, results resultRecorder) *Coordinator {
	return &Coordinator{
		logger:  logger.With("component", "coordinator"),
		store:   store,
		channel: channel,
		results: results,

		conns: make(map[string]string),
	}
}

// Join puts the connection into the room, assigning the free symbol.
// A full room is the only error ever surfaced to a client; it leaves
// all state untouched. The second join starts a fresh game so a
// reused room id never leaks a previous pairing's board.
func (that *Coordinator) Join(ctx context.Context, connID, roomID, name string) {
	log := that.logger.With("method", "Join", "connID", connID)

	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		roomID = DefaultRoomID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = entity.DefaultPlayerName
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	room := that.store.GetOrCreate(roomID)

	player, err := room.AddPlayer(connID, name)
	if err != nil {
		that.channel.Unicast(connID, ActionJoinError, apperror.ErrRoomFull.Error())
		log.Info("join rejected", "roomID", roomID, "reason", err)
		return
	}

	that.channel.Subscribe(connID, roomID)
	that.conns[connID] = roomID

	if room.IsFull() {
		room.StartNewGame()
	}

	that.channel.Broadcast(roomID, ActionRoomUpdate, snapshot(room))

	private := snapshot(room)
	private.You = &You{ID: connID, Symbol: player.Symbol}
	that.channel.Unicast(connID, ActionRoomUpdate, private)

	log.Info("player joined", "roomID", roomID, "name", name, "symbol", player.Symbol)
}

// MakeMove applies one move for the connection's room. Every invalid
// move — unknown connection, wrong turn, finished game, bad index,
// occupied cell — is dropped silently: late or mis-ordered client
// messages are expected noise, not errors.
func (that *Coordinator) MakeMove(ctx context.Context, connID string, cell int) {
	log := that.logger.With("method", "MakeMove", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.roomOf(connID)
	if !ok {
		return
	}

	player, ok := room.Players[connID]
	if !ok {
		return
	}

	if err := room.ApplyMove(player.Symbol, cell); err != nil {
		log.Debug("move ignored", "roomID", room.ID, "cell", cell, "reason", err)
		return
	}

	that.channel.Broadcast(room.ID, ActionRoomUpdate, snapshot(room))

	if room.IsEnded() {
		log.Info("game ended", "roomID", room.ID, "winner", room.Winner)
		that.recordResult(ctx, room)
	}
}

// RequestRematch counts one vote per connection. Once every present
// player has voted the room starts a fresh game.
func (that *Coordinator) RequestRematch(ctx context.Context, connID string) {
	log := that.logger.With("method", "RequestRematch", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.roomOf(connID)
	if !ok {
		return
	}

	room.VoteRematch(connID)

	votes := len(room.RematchVotes)
	needed := len(room.Players)

	that.channel.Broadcast(room.ID, ActionRematchVotes, RematchVotes{Votes: votes, Needed: needed})

	if votes >= needed && needed > 0 {
		room.StartNewGame()
		that.channel.Broadcast(room.ID, ActionRoomUpdate, snapshot(room))
		log.Info("rematch started", "roomID", room.ID)
	}
}

// Leave removes the connection from its room. Dropping below two
// players puts the room back to waiting and clears rematch votes; the
// board and winner stay as-is until the next second join resets them.
func (that *Coordinator) Leave(ctx context.Context, connID string) {
	log := that.logger.With("method", "Leave", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.roomOf(connID)
	if !ok {
		return
	}

	room.RemovePlayer(connID)
	delete(that.conns, connID)
	that.channel.Unsubscribe(connID, room.ID)

	if len(room.Players) < entity.MaxPlayers {
		room.Status = entity.StatusWaiting
		room.ClearRematchVotes()
	}

	that.channel.Broadcast(room.ID, ActionRoomUpdate, snapshot(room))

	log.Info("player left", "roomID", room.ID)
}

// Disconnect is the transport telling us a connection went away; the
// effect is identical to an explicit leave.
func (that *Coordinator) Disconnect(ctx context.Context, connID string) {
	that.Leave(ctx, connID)
}

// roomOf resolves the connection's room. Callers must hold the mutex.
func (that *Coordinator) roomOf(connID string) (*entity.Room, bool) {
	roomID, ok := that.conns[connID]
	if !ok {
		return nil, false
	}

	room, ok := that.store.Get(roomID)
	if !ok {
		return nil, false
	}

	return room, true
}

// recordResult appends the finished game to the history sidecar, off
// the handler path so the transition never blocks on storage.
func (that *Coordinator) recordResult(ctx context.Context, room *entity.Room) {
	if that.results == nil {
		return
	}

	result := &entity.GameResult{
		RoomID:     room.ID,
		Winner:     room.Winner,
		Board:      room.Board,
		FinishedAt: time.Now().UTC(),
	}

	log := that.logger.With("method", "recordResult")

	go func() {
		if err := that.results.Record(ctx, result); err != nil {
			log.Error("failed to record game result", "roomID", result.RoomID, "error", err)
		}
	}()
}
