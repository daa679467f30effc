package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventChatMessage EventType = "chat_message"
	EventRejected    EventType = "message_rejected"
)

const chatChannel = "chat:global"

// WSEvent represents a WebSocket event
type WSEvent struct {
	Type      EventType `json:"type"`
	SteamID   string    `json:"steam_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Connection represents one WebSocket connection
type Connection struct {
	SteamID string
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub fans chat events out to local connections, with Redis Pub/Sub
// bridging instances. Messages are not persisted anywhere.
type Hub struct {
	connections map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx        context.Context
	cancel     context.CancelFunc
	instanceID string
}

type wireEvent struct {
	Event  WSEvent `json:"event"`
	Origin string  `json:"origin"`
}

// NewHub creates a chat hub. redisClient may be nil for single-instance
// deployments; fan-out then stays local.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, chatChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			log.Debug().Str("steam_id", conn.SteamID).Msg("User connected to chat")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Debug().Str("steam_id", conn.SteamID).Msg("User disconnected from chat")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var we wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &we); err != nil {
				log.Warn().Err(err).Msg("Malformed chat event from Redis")
				continue
			}
			// Events from this instance were already delivered locally.
			if we.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(we.Event)
		}
	}
}

// Broadcast sends an event to every connected client, across instances
// when Redis is configured.
func (h *Hub) Broadcast(event WSEvent) {
	h.deliverLocal(event)

	if h.redis == nil {
		return
	}

	payload, err := json.Marshal(wireEvent{Event: event, Origin: h.instanceID})
	if err != nil {
		return
	}
	if err := h.redis.Publish(h.ctx, chatChannel, payload).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to publish chat event to Redis")
	}
}

func (h *Hub) deliverLocal(event WSEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections {
		select {
		case conn.Send <- payload:
		default:
			// Slow consumer, drop rather than block the hub.
		}
	}
}

// SendTo delivers an event to one user's local connections only. Used for
// automod rejections, which the rest of the room never sees.
func (h *Hub) SendTo(steamID string, event WSEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections {
		if conn.SteamID != steamID {
			continue
		}
		select {
		case conn.Send <- payload:
		default:
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Stop shuts the hub down.
func (h *Hub) Stop() {
	if h.pubsub != nil {
		h.pubsub.Close()
	}
	h.cancel()
}
