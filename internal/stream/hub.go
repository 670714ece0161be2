package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is one parse-lifecycle transition of a route source.
type Event struct {
	SourceID string    `json:"source_id"`
	RouteID  string    `json:"route_id"`
	Status   string    `json:"status"`
	Error    *string   `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// Hub fans parse-status events out to websocket subscribers, bridged
// across instances over redis pubsub when redis is configured.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	SourceID string
	Send     chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(sourceID string) *Client {
	client := &Client{
		SourceID: sourceID,
		Send:     make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sourceID] == nil {
		h.clients[sourceID] = map[*Client]struct{}{}
	}
	h.clients[sourceID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sourceClients, ok := h.clients[client.SourceID]; ok {
		delete(sourceClients, client)
		if len(sourceClients) == 0 {
			delete(h.clients, client.SourceID)
		}
	}
	close(client.Send)
}

func (h *Hub) BroadcastEvent(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.Broadcast(ev.SourceID, payload)
}

func (h *Hub) Broadcast(sourceID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[sourceID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(sourceID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, "parse:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		sourceID := sourceIDFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[sourceID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(sourceID string) string {
	return "parse:" + sourceID + ":events"
}

func sourceIDFromChannel(ch string) string {
	// parse:{source}:events
	const prefix = "parse:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
