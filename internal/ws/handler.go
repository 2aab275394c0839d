package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oriolripoll/typeracer-backend/internal/hub"
	"github.com/oriolripoll/typeracer-backend/internal/protocol"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection, registers it with the hub and pumps
// frames both ways. The connection id doubles as the player id for the
// lifetime of the socket.
func Handler(h *hub.Hub, logger *zap.Logger, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Info("could not upgrade request", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan []byte, 32)

		h.Inbox() <- hub.Connected{ID: connID, Outbox: out}
		defer func() { h.Inbox() <- hub.Disconnected{ID: connID} }()

		logger.Info("client connected", zap.String("connId", connID))

		// Writer goroutine: drains the outbox until the hub closes it
		// (shutdown or slow-client drop), then tears the connection down.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					return
				}
			}
			conn.Close(websocket.StatusGoingAway, "server closed the channel")
		}()

		// Reader loop. One connection's bad input must never affect the
		// others, so decode failures are answered and skipped, never fatal.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					logger.Info("client read failed",
						zap.String("connId", connID),
						zap.Error(err),
					)
				}
				return
			}

			msg, err := protocol.Decode(data)
			if err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"bad json"}`))
				continue
			}
			if !msg.Type.IsKnown() {
				logger.Info("unknown message type",
					zap.String("connId", connID),
					zap.String("type", string(msg.Type)),
				)
				continue
			}

			h.Inbox() <- hub.FromClient{ID: connID, Msg: msg}
		}
	}
}
