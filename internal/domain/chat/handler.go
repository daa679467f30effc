package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/domain/automod"
	"github.com/skinvaults/skinvaults-api/internal/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
	maxChatLength  = 500
)

// SettingsProvider supplies the current automod settings.
type SettingsProvider interface {
	Get(ctx context.Context) (automod.Settings, error)
}

type Handler struct {
	hub      *Hub
	settings SettingsProvider
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, settings SettingsProvider, allowedOrigins []string) *Handler {
	return &Handler{
		hub:      hub,
		settings: settings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if strings.EqualFold(origin, allowed) {
						return true
					}
				}
				return false
			},
		},
	}
}

type inboundMessage struct {
	Message string `json:"message"`
}

// WebSocket handles GET /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	steamID := middleware.GetSteamID(r.Context())

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		SteamID: steamID,
		Conn:    ws,
		Send:    make(chan []byte, 64),
	}
	h.hub.Register(conn)

	go h.writePump(conn)
	h.readPump(conn)
}

func (h *Handler) readPump(conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(maxMessageSize)
	conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("steam_id", conn.SteamID).Msg("WebSocket read error")
			}
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}

		text := strings.TrimSpace(in.Message)
		if text == "" || len(text) > maxChatLength {
			continue
		}

		settings, err := h.settings.Get(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("Failed to load automod settings, dropping message")
			continue
		}

		verdict := automod.Check(text, settings)
		if !verdict.Allowed {
			h.hub.SendTo(conn.SteamID, WSEvent{
				Type:      EventRejected,
				Reason:    verdict.Reason,
				Timestamp: time.Now().UTC(),
			})
			continue
		}

		h.hub.Broadcast(WSEvent{
			Type:      EventChatMessage,
			SteamID:   conn.SteamID,
			Message:   text,
			Timestamp: time.Now().UTC(),
		})
	}
}

func (h *Handler) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
