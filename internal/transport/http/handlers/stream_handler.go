package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
)

type StreamHandler struct {
	auth    ports.AuthService
	streams ports.StreamService
	logger  *logger.Logger
}

func NewStreamHandler(auth ports.AuthService, streams ports.StreamService, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{auth: auth, streams: streams, logger: logger}
}

// Handle serves one live query over a WebSocket. The client names the
// stream in the path and authenticates with a `token` query parameter,
// since browsers cannot set headers on WebSocket upgrades. Every message
// sent is a full snapshot replacing the client's previous view.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	kind, ok := domain.ParseStreamKind(c.Params("kind"))
	if !ok {
		h.logger.Warnw("stream_unknown_kind", "kind", c.Params("kind"))
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"unknown stream kind"}`))
		c.Close()
		return
	}

	session, err := h.auth.SessionFromToken(c.Query("token"))
	if err != nil {
		h.logger.Warnw("stream_auth_failed", "kind", kind, "error", err)
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
		c.Close()
		return
	}

	sub, err := h.streams.Subscribe(context.Background(), session, kind)
	if err != nil {
		h.logger.Errorw("stream_subscribe_failed", "kind", kind, "error", err)
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"subscription failed"}`))
		c.Close()
		return
	}
	defer h.streams.Unsubscribe(sub.ID)

	h.logger.Infow("stream_opened", "id", sub.ID, "kind", kind, "owner_id", session.UserID)

	// Drain the read side so peer close tears the subscription down.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-sub.C:
			if !ok {
				return
			}
			if err := c.WriteJSON(snapshot); err != nil {
				h.logger.Warnw("stream_write_failed", "id", sub.ID, "error", err)
				return
			}
		case <-closed:
			h.logger.Infow("stream_closed", "id", sub.ID, "kind", kind)
			return
		}
	}
}
