package infrastructure_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitovidale/ai-video-backend/domain"
	"github.com/vitovidale/ai-video-backend/infrastructure"
	"go.uber.org/zap"
)

func TestDocumentVideoRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()
	repo := infrastructure.NewDocumentVideoRepository(store, zap.NewNop())

	video := &domain.Video{
		Prompt:          "a cat flying",
		PreviewImageURL: "https://example.com/p.png",
		Status:          domain.VideoStatusPreview,
	}
	require.NoError(t, repo.Save(ctx, video))
	require.NotEmpty(t, video.ID)
	require.False(t, video.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, video.ID)
	require.NoError(t, err)
	require.Equal(t, video.ID, found.ID)
	require.Equal(t, domain.VideoStatusPreview, found.Status)
	require.Empty(t, found.VideoURL)
	require.WithinDuration(t, video.CreatedAt, found.CreatedAt, time.Millisecond)

	require.NoError(t, repo.MarkReady(ctx, video.ID, "https://example.com/v.mp4"))
	ready, err := repo.FindByID(ctx, video.ID)
	require.NoError(t, err)
	require.True(t, ready.IsReady())
	require.Equal(t, "https://example.com/v.mp4", ready.VideoURL)
	require.False(t, ready.UpdatedAt.Before(ready.CreatedAt))
}

func TestDocumentVideoRepositoryRejectsMalformedDocuments(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()
	repo := infrastructure.NewDocumentVideoRepository(store, zap.NewNop())

	badStatus, err := store.Insert(ctx, domain.VideoCollection, domain.Document{"prompt": "x", "status": "rendering"})
	require.NoError(t, err)
	readyNoURL, err := store.Insert(ctx, domain.VideoCollection, domain.Document{"prompt": "y", "status": "ready"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.VideoCollection, domain.Document{
		"prompt":     "z",
		"status":     "preview",
		"created_at": "2024-05-01T10:00:00Z",
	})
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, badStatus)
	require.ErrorContains(t, err, "unknown status")
	_, err = repo.FindByID(ctx, readyNoURL)
	require.ErrorContains(t, err, "without a video_url")

	videos, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	require.Equal(t, "z", videos[0].Prompt)
	require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), videos[0].CreatedAt)

	// The limit applies to stored documents, so skipped ones shorten the page.
	short, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, short)
}

func TestDocumentVideoRepositoryDropsStrayVideoURLOnPreview(t *testing.T) {
	ctx := context.Background()
	store := infrastructure.NewMemoryDocumentStore()
	repo := infrastructure.NewDocumentVideoRepository(store, zap.NewNop())

	id, err := store.Insert(ctx, domain.VideoCollection, domain.Document{
		"prompt":    "x",
		"status":    "preview",
		"video_url": "https://example.com/early.mp4",
	})
	require.NoError(t, err)

	v, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Empty(t, v.VideoURL)
}
