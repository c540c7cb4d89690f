package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, sec, 0, time.UTC)
}

func TestMergeDeduplicates(t *testing.T) {
	current := []Notification{
		{ID: "a", Title: "first", CreatedAt: at(1)},
	}
	incoming := []Notification{
		{ID: "a", Title: "duplicate", CreatedAt: at(5)},
		{ID: "b", Title: "second", CreatedAt: at(3)},
	}

	merged := Merge(current, incoming)
	require.Len(t, merged, 2)

	seen := map[string]int{}
	for _, n := range merged {
		seen[n.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s appears once", id)
	}

	// Existing item wins the collision.
	assert.Equal(t, "first", merged[1].Title)
}

func TestMergeTimeDescending(t *testing.T) {
	merged := Merge(nil, []Notification{
		{ID: "old", CreatedAt: at(1)},
		{ID: "new", CreatedAt: at(9)},
		{ID: "mid", CreatedAt: at(5)},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "new", merged[0].ID)
	assert.Equal(t, "mid", merged[1].ID)
	assert.Equal(t, "old", merged[2].ID)
}

func TestMergeSystemItemsNotClobbered(t *testing.T) {
	sys := Notification{ID: SystemIDPrefix + "1", Title: "corte saved", Source: "system", CreatedAt: at(2)}
	ext := Notification{ID: SystemIDPrefix + "1", Title: "spoofed", Source: "webhook", CreatedAt: at(8)}

	merged := Merge([]Notification{sys}, []Notification{ext})
	require.Len(t, merged, 1)
	assert.Equal(t, "corte saved", merged[0].Title)
	assert.Equal(t, "system", merged[0].Source)
}

func TestMergeEmptySides(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))

	one := []Notification{{ID: "x", CreatedAt: at(1)}}
	assert.Len(t, Merge(one, nil), 1)
	assert.Len(t, Merge(nil, one), 1)
}
