package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/hub"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
	"github.com/DoyleJ11/pokedraft-backend/internal/types"
)

const (
	readIdleTimeout = 10 * time.Minute
	writeTimeout    = 3 * time.Second
)

func Handler(h *hub.Hub, details catalog.DetailSource, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		s, err := h.Get(r.Context(), code)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("code", code), zap.String("client", clientID))

		out := make(chan session.Snapshot, 8)
		if err := s.Send(r.Context(), session.Join{ClientID: clientID, Outbox: out}); err != nil {
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = s.Send(ctx, session.Leave{ClientID: clientID})
		}()
		log.Debug("client joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = wsjson.Write(ctx, conn, types.SnapshotMessage(snap))
				cancel()
			}
			// Outbox closed: the session ended or dropped us.
			conn.Close(websocket.StatusNormalClosure, "session closed")
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readIdleTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Debug("client left")
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = wsjson.Write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			if err := Dispatch(r.Context(), s, clientID, cm, details); err != nil && !errors.Is(err, board.ErrStaleIndex) {
				_ = wsjson.Write(r.Context(), conn, types.ErrorMessage(err))
			}
		}
	}
}
