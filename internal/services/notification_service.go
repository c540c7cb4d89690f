package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"abarrotes-backend/internal/notify"
)

// NotificationService ties the live hub to the external relay. Each
// user gets a stable relay topic derived from their id; pending relay
// messages are pulled on demand and merged into the feed.
type NotificationService struct {
	Hub    *notify.Hub
	Poller *notify.Poller

	topicSalt string
}

func NewNotificationService(hub *notify.Hub, poller *notify.Poller, topicSalt string) *NotificationService {
	return &NotificationService{Hub: hub, Poller: poller, topicSalt: topicSalt}
}

// Topic returns the user's relay topic. Hashed so the topic name does
// not leak the numeric user id on the shared relay.
func (s *NotificationService) Topic(userID string) string {
	h := sha256.Sum256([]byte(s.topicSalt + ":" + userID))
	return "abarrotes-" + hex.EncodeToString(h[:])[:24]
}

// Feed refreshes the user's feed from the relay and returns the merged
// list, newest first. A relay outage degrades to the local feed.
func (s *NotificationService) Feed(ctx context.Context, userID string) []notify.Notification {
	if s.Poller != nil {
		since := time.Now().AddDate(0, 0, -7)
		items, err := s.Poller.Poll(ctx, s.Topic(userID), since)
		if err != nil {
			log.Printf("[Notify] Relay poll failed for user %s: %v", userID, err)
		} else if len(items) > 0 {
			return s.Hub.MergeExternal(userID, items)
		}
	}
	return s.Hub.Feed(userID)
}

// Subscribe opens a live subscription on the hub.
func (s *NotificationService) Subscribe(userID string) *notify.Subscription {
	return s.Hub.Subscribe(userID)
}

// Announce publishes a system notification to a user.
func (s *NotificationService) Announce(ctx context.Context, userID, title, body string) notify.Notification {
	return s.Hub.Publish(ctx, userID, title, body)
}
