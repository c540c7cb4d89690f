package notify

import (
	"sort"
	"strings"
	"time"
)

// SystemIDPrefix tags notifications generated by this service, keeping
// them out of the id space of externally-relayed items.
const SystemIDPrefix = "sys-"

// Notification is one item in a user's merged feed. Feeds live in
// memory only and reset on restart.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Source    string    `json:"source"` // "system" or "webhook"
	CreatedAt time.Time `json:"created_at"`
}

// IsSystem reports whether the notification was generated locally.
func (n Notification) IsSystem() bool {
	return strings.HasPrefix(n.ID, SystemIDPrefix)
}

// Merge combines the current feed with newly arrived items into one
// de-duplicated, time-descending list. On an id collision the existing
// item wins, and a system-tagged item is never replaced by an external
// one regardless of arrival order.
func Merge(current, incoming []Notification) []Notification {
	byID := make(map[string]Notification, len(current)+len(incoming))
	for _, n := range current {
		byID[n.ID] = n
	}

	for _, n := range incoming {
		// The existing item wins every collision, which is also what keeps
		// a system notification safe from an external item reusing its id.
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}

	merged := make([]Notification, 0, len(byID))
	for _, n := range byID {
		merged = append(merged, n)
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}
