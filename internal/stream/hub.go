package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans live session snapshots out to websocket subscribers. With a
// redis client attached, snapshots are also relayed through pub/sub so
// subscribers connected to other instances receive them.
type Hub struct {
	redis       *redis.Client
	subscribers map[string]map[*Subscriber]struct{}
	mu          sync.RWMutex
}

type Subscriber struct {
	ActivityID string
	Send       chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:       redisClient,
		subscribers: map[string]map[*Subscriber]struct{}{},
	}

	if redisClient != nil {
		go h.relayRedis()
	}
	return h
}

func (h *Hub) Subscribe(activityID string) *Subscriber {
	sub := &Subscriber{
		ActivityID: activityID,
		Send:       make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[activityID] == nil {
		h.subscribers[activityID] = map[*Subscriber]struct{}{}
	}
	h.subscribers[activityID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[sub.ActivityID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, sub.ActivityID)
		}
	}
	close(sub.Send)
}

// Broadcast pushes a snapshot to subscribers. With redis attached, the
// snapshot goes through pub/sub only; the relay delivers it locally along
// with every other instance, so local delivery here would double it up.
// A failed publish falls back to local delivery. Slow subscribers are
// skipped, not waited on.
func (h *Hub) Broadcast(activityID string, payload []byte) {
	if h.redis == nil {
		h.deliver(activityID, payload)
		return
	}

	err := h.redis.Publish(context.Background(), liveChannel(activityID), payload).Err()
	if err != nil {
		log.Printf("redis publish error: %v", err)
		h.deliver(activityID, payload)
	}
}

func (h *Hub) deliver(activityID string, payload []byte) {
	h.mu.RLock()
	subs := h.subscribers[activityID]
	h.mu.RUnlock()

	for sub := range subs {
		select {
		case sub.Send <- payload:
		default:
		}
	}
}

func (h *Hub) relayRedis() {
	pubsub := h.redis.PSubscribe(context.Background(), "live:*:updates")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(activityIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func liveChannel(activityID string) string {
	return "live:" + activityID + ":updates"
}

func activityIDFromChannel(ch string) string {
	// live:{activity}:updates
	const prefix = "live:"
	const suffix = ":updates"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
