package infrastructure_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vitovidale/ai-video-backend/domain"
	"github.com/vitovidale/ai-video-backend/infrastructure"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nothing listens on port 1, so every server selection times out.
func unreachableMongoStore(t *testing.T) *infrastructure.MongoDocumentStore {
	t.Helper()

	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(300 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return infrastructure.NewMongoDocumentStoreFromClient(client, "ai_video")
}

func TestMongoDocumentStoreDiagnoseUnreachable(t *testing.T) {
	store := unreachableMongoStore(t)

	diag := store.Diagnose(context.Background())
	require.Equal(t, "mongodb", diag.Backend)
	require.Equal(t, "ai_video", diag.Name)
	require.False(t, diag.Available)
	require.ErrorIs(t, diag.Err, domain.ErrStoreUnavailable)
	require.Empty(t, diag.Collections)
}

func TestHealthCheckMongoUnreachable(t *testing.T) {
	router, _, _ := newTestRouter(t, unreachableMongoStore(t))

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	require.Equal(t, "DOWN", body["status"])
	require.True(t, strings.HasPrefix(body["database"], "error: mongodb ping"), body["database"])
}
