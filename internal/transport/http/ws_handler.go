package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomline/roomline-server/internal/config"
	"github.com/roomline/roomline-server/internal/core"
	"github.com/roomline/roomline-server/internal/proto"
	"github.com/roomline/roomline-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to a room
// session.
type WSHandler struct {
	hub *core.Hub
	cfg config.Config
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, cfg: cfg, log: logger}
}

// Handle serves GET /api/room/:room. The client must supply a non-empty
// username query parameter; without one the connection is closed with a
// policy violation before any session exists.
func (h *WSHandler) Handle(c *gin.Context) {
	roomName := c.Param("room")

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("room", roomName).Msg("ws accept error")
		return
	}

	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		conn.Close(websocket.StatusPolicyViolation, "username required")
		return
	}

	defer conn.Close(websocket.StatusInternalError, "internal error")

	session := core.NewSession(utils.NewID(), username, h.cfg.SessionBuffer)
	room := h.hub.GetOrCreate(roomName)
	room.Join(session)
	defer room.Leave(session)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, room, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, session)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("username", username).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop decodes inbound frames and dispatches them to the room.
// Malformed frames are logged and dropped; the connection stays open.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, room *core.Room, session *core.Session) error {
	limiter := newRateLimiter(h.cfg.InboundRateLimit)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow() {
			h.log.Debug().Str("username", session.Username).Msg("inbound frame rate limited")
			continue
		}

		var in proto.Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			h.log.Warn().Err(err).Str("username", session.Username).Msg("malformed inbound frame dropped")
			continue
		}

		cmd, err := inboundToCommand(in)
		if err != nil {
			h.log.Warn().Err(err).Str("username", session.Username).Str("type", in.Type).Msg("invalid inbound frame dropped")
			continue
		}

		room.Dispatch(session, cmd)
	}
}

// writeLoop drains the session's event queue onto the wire and keeps
// the connection alive with periodic pings.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	var ping <-chan time.Time
	if h.cfg.PingInterval > 0 {
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case ev := <-session.Events:
			payload := outboundFromEvent(ev)
			if payload == nil {
				continue
			}
			if err := wsjson.Write(ctx, conn, payload); err != nil {
				return err
			}
		case <-ping:
			if err := conn.Ping(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
