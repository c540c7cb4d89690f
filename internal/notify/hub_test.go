package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(nil)

	sub := hub.Subscribe("1")
	defer sub.Close()

	n := hub.Publish(context.Background(), "1", "Corte cerrado", "Caja cuadrada")
	assert.True(t, n.IsSystem())

	select {
	case got := <-sub.C:
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, "Corte cerrado", got.Title)
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
}

func TestHubPublishIsolatedPerUser(t *testing.T) {
	hub := NewHub(nil)

	other := hub.Subscribe("2")
	defer other.Close()

	hub.Publish(context.Background(), "1", "t", "b")

	select {
	case <-other.C:
		t.Fatal("notification leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFeedAccumulatesAndDedupes(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()

	first := hub.Publish(ctx, "1", "a", "")
	hub.Publish(ctx, "1", "b", "")

	// Re-delivering an already-seen id (a Redis echo) changes nothing.
	hub.deliver("1", first)

	feed := hub.Feed("1")
	require.Len(t, feed, 2)
}

func TestHubMergeExternalKeepsSystemItems(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()

	sys := hub.Publish(ctx, "1", "sistema", "")
	merged := hub.MergeExternal("1", []Notification{
		{ID: sys.ID, Title: "impostor", Source: "webhook", CreatedAt: time.Now()},
		{ID: "ext-1", Title: "externa", Source: "webhook", CreatedAt: time.Now()},
	})

	require.Len(t, merged, 2)
	for _, n := range merged {
		if n.ID == sys.ID {
			assert.Equal(t, "sistema", n.Title)
		}
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe("1")

	sub.Close()
	sub.Close()

	// Publishing after close must not panic or block.
	hub.Publish(context.Background(), "1", "t", "b")
}
