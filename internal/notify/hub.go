package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notify:user:"

// Hub fans notifications out to live subscribers and keeps each user's
// merged in-memory feed. Cross-instance delivery goes through Redis
// pub/sub; without Redis the hub still works within one process.
type Hub struct {
	rdb *redis.Client

	mu    sync.RWMutex
	feeds map[string][]Notification
	subs  map[string]map[*Subscription]struct{}
}

// Subscription is a live feed handle. Callers must Close it when the
// owning connection goes away or the hub leaks the channel.
type Subscription struct {
	C <-chan Notification

	hub    *Hub
	userID string
	ch     chan Notification
	once   sync.Once
}

// Close releases the subscription.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.ch)
	})
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:   rdb,
		feeds: make(map[string][]Notification),
		subs:  make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe opens a live feed for a user. The returned handle must be
// closed by the caller on teardown.
func (h *Hub) Subscribe(userID string) *Subscription {
	ch := make(chan Notification, 16)
	sub := &Subscription{C: ch, hub: h, userID: userID, ch: ch}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
}

// Publish creates a system notification, merges it into the user's
// feed, and delivers it to live subscribers. When Redis is available
// the item is also published for other instances.
func (h *Hub) Publish(ctx context.Context, userID, title, body string) Notification {
	n := Notification{
		ID:        SystemIDPrefix + uuid.New().String(),
		Title:     title,
		Body:      body,
		Source:    "system",
		CreatedAt: time.Now(),
	}

	h.deliver(userID, n)

	if h.rdb != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			if err := h.rdb.Publish(ctx, channelPrefix+userID, payload).Err(); err != nil {
				log.Printf("[Notify] Redis publish failed: %v", err)
			}
		}
	}
	return n
}

// MergeExternal folds externally-polled items into the user's feed and
// returns the merged list.
func (h *Hub) MergeExternal(userID string, items []Notification) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feeds[userID] = Merge(h.feeds[userID], items)
	return h.feeds[userID]
}

// Feed returns the user's current merged feed, newest first.
func (h *Hub) Feed(userID string) []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	feed := h.feeds[userID]
	out := make([]Notification, len(feed))
	copy(out, feed)
	return out
}

func (h *Hub) deliver(userID string, n Notification) {
	h.mu.Lock()
	for _, existing := range h.feeds[userID] {
		if existing.ID == n.ID {
			// Already seen, e.g. our own Redis publish echoed back.
			h.mu.Unlock()
			return
		}
	}
	h.feeds[userID] = Merge(h.feeds[userID], []Notification{n})

	// Sends stay under the lock so Close cannot shut a channel
	// mid-send; they are non-blocking either way.
	for sub := range h.subs[userID] {
		select {
		case sub.ch <- n:
		default:
			// Slow consumer: drop rather than block the publisher.
		}
	}
	h.mu.Unlock()
}

// Listen consumes the Redis channel pattern for all users and delivers
// items published by other instances. Blocks until ctx is cancelled.
func (h *Hub) Listen(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var n Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Printf("[Notify] Bad pub/sub payload: %v", err)
				continue
			}
			userID := msg.Channel[len(channelPrefix):]
			h.deliver(userID, n)
		}
	}
}
