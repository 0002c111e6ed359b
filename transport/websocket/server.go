package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gameroom-backend/internal/coordinator"
)

// sessionCoordinator is the part of the game core the transport
// drives with inbound events.
type sessionCoordinator interface {
	Join(ctx context.Context, connID, roomID, name string)
	MakeMove(ctx context.Context, connID string, cell int)
	RequestRematch(ctx context.Context, connID string)
	Leave(ctx context.Context, connID string)
	Disconnect(ctx context.Context, connID string)
}

type Server struct {
	logger *slog.Logger
	hub    *Hub
	game   sessionCoordinator

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, hub *Hub, game sessionCoordinator) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
		game:   game,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the browser client is served from anywhere
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start serves the /ws endpoint until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the request, registers the connection with
// the hub and runs its read loop until it goes away.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()
	log = log.With("connID", connID)

	c := newClient(connID, conn)
	that.hub.register(c)

	go c.writePump(that.logger)

	log.Info("connection established")

	that.readLoop(ctx, c)

	that.game.Disconnect(ctx, connID)
	that.hub.unregister(connID)

	if err = conn.Close(); err != nil {
		log.Debug("failed to close connection", "error", err)
	}

	log.Info("connection closed")
}

// readLoop dispatches inbound messages until the connection fails or
// the context is done. Unknown actions and malformed payloads are
// dropped, matching the server's ignore-invalid policy.
func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connID", c.id)

	for {
		if ctx.Err() != nil {
			return
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug("read failed", "error", err)
			return
		}

		var msg Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		that.dispatch(ctx, c.id, &msg, log)
	}
}

func (that *Server) dispatch(ctx context.Context, connID string, msg *Message, log *slog.Logger) {
	switch msg.Action {
	case coordinator.ActionJoin:
		var payload JoinPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Debug("failed to unmarshal join payload", "error", err)
			return
		}

		that.game.Join(ctx, connID, payload.RoomID, payload.Name)

	case coordinator.ActionMakeMove:
		var payload MovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Debug("failed to unmarshal move payload", "error", err)
			return
		}

		that.game.MakeMove(ctx, connID, payload.Index)

	case coordinator.ActionRequestRematch:
		that.game.RequestRematch(ctx, connID)

	case coordinator.ActionLeave:
		that.game.Leave(ctx, connID)

	default:
		log.Debug("unknown action", "action", msg.Action)
	}
}
