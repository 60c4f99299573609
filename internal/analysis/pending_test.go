package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yotamfogel/Dress-App/internal/vision"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	p := &PendingSelection{
		ID: "abc",
		Candidates: []vision.Candidate{
			{Label: "dress", Confidence: 0.8, Region: vision.Region{X2: 100, Y2: 200}},
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, store.Put(ctx, p))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, p.Candidates, got.Candidates)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrPendingNotFound)
}

func TestMemoryStore_ExpiredEntryIsAbsent(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &PendingSelection{
		ID:        "stale",
		CreatedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := store.Get(ctx, "stale")
	require.ErrorIs(t, err, ErrPendingNotFound)
}

func TestMemoryStore_MissingID(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrPendingNotFound)

	// Deleting an absent id is not an error.
	require.NoError(t, store.Delete(context.Background(), "nope"))
}
