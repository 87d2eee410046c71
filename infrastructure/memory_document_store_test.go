package infrastructure_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitovidale/ai-video-backend/domain"
	"github.com/vitovidale/ai-video-backend/infrastructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryDocumentStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()

	id, err := store.Insert(ctx, "video", domain.Document{"prompt": "a", "status": "preview"})
	require.NoError(t, err)
	require.True(t, primitive.IsValidObjectID(id))

	doc, err := store.FindOne(ctx, "video", id)
	require.NoError(t, err)
	require.Equal(t, id, doc["id"])
	require.Equal(t, "a", doc["prompt"])

	// Returned documents are copies.
	doc["prompt"] = "mutated"
	again, err := store.FindOne(ctx, "video", id)
	require.NoError(t, err)
	require.Equal(t, "a", again["prompt"])

	require.NoError(t, store.UpdateOne(ctx, "video", id, domain.Document{"status": "ready", "id": "ignored"}))
	updated, err := store.FindOne(ctx, "video", id)
	require.NoError(t, err)
	require.Equal(t, "ready", updated["status"])
	require.Equal(t, id, updated["id"])

	// Unknown ids are a no-op for updates.
	require.NoError(t, store.UpdateOne(ctx, "video", primitive.NewObjectID().Hex(), domain.Document{"status": "ready"}))
}

func TestMemoryDocumentStoreIdentifierCase(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()

	id, err := store.Insert(ctx, "video", domain.Document{"status": "preview"})
	require.NoError(t, err)
	upper := strings.ToUpper(id)

	require.NoError(t, store.UpdateOne(ctx, "video", upper, domain.Document{"status": "ready"}))
	doc, err := store.FindOne(ctx, "video", upper)
	require.NoError(t, err)
	require.Equal(t, id, doc["id"])
	require.Equal(t, "ready", doc["status"])
}

func TestMemoryDocumentStoreLookupErrors(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()

	_, err := store.FindOne(ctx, "video", "not-a-valid-id")
	require.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = store.FindOne(ctx, "video", primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)

	require.ErrorIs(t, store.UpdateOne(ctx, "video", "zzz", domain.Document{}), domain.ErrInvalidIdentifier)
}

func TestMemoryDocumentStoreFind(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()

	for _, status := range []string{"preview", "ready", "preview", "preview"} {
		_, err := store.Insert(ctx, "video", domain.Document{"status": status})
		require.NoError(t, err)
	}

	all, err := store.Find(ctx, "video", nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	limited, err := store.Find(ctx, "video", nil, 3)
	require.NoError(t, err)
	require.Len(t, limited, 3)
	require.Equal(t, all[:3], limited)

	previews, err := store.Find(ctx, "video", domain.Document{"status": "preview"}, 2)
	require.NoError(t, err)
	require.Len(t, previews, 2)
	for _, d := range previews {
		require.Equal(t, "preview", d["status"])
	}

	empty, err := store.Find(ctx, "other", nil, 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestMemoryDocumentStoreConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, "video", domain.Document{"status": "preview"})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	docs, err := store.Find(ctx, "video", nil, 0)
	require.NoError(t, err)
	require.Len(t, docs, 50)

	diag := store.Diagnose(ctx)
	require.True(t, diag.Available)
	require.Equal(t, []string{"video"}, diag.Collections)
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.UnavailableStore{}

	_, err := store.Insert(ctx, "video", domain.Document{})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = store.Find(ctx, "video", nil, 1)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = store.FindOne(ctx, "video", "bad")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.ErrorIs(t, store.UpdateOne(ctx, "video", "bad", nil), domain.ErrStoreUnavailable)

	diag := store.Diagnose(ctx)
	require.False(t, diag.Available)
	require.ErrorIs(t, diag.Err, domain.ErrStoreUnavailable)
}
