// infrastructure/document_store_factory.go
package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

type StoreOptions struct {
	URL          string
	DatabaseName string
	Attempts     int
	RetryDelay   time.Duration
}

// OpenDocumentStore selects a backend from the URL scheme and connects to
// it, retrying with a fixed delay. When no URL is configured or
// every attempt fails it returns an UnavailableStore so the process keeps
// serving and reports the condition per request.
func OpenDocumentStore(ctx context.Context, opts StoreOptions, logger *zap.Logger) domain.DocumentStore {
	if opts.URL == "" {
		logger.Warn("DATABASE_URL not set, database not available")
		return UnavailableStore{Reason: fmt.Errorf("DATABASE_URL not set")}
	}

	backend, connect, err := storeConnector(opts)
	if err != nil {
		logger.Error("unsupported database url", zap.Error(err))
		return UnavailableStore{Reason: err}
	}

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		var store domain.DocumentStore
		store, err = connect(ctx)
		if err == nil {
			logger.Info("database connection established",
				zap.String("backend", backend),
				zap.String("database", opts.DatabaseName),
			)
			return store
		}
		logger.Warn("database connection failed, retrying",
			zap.String("backend", backend),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return UnavailableStore{Backend: backend, Reason: ctx.Err()}
		case <-time.After(opts.RetryDelay):
		}
	}

	logger.Error("could not connect to database, serving without it",
		zap.String("backend", backend),
		zap.Error(err),
	)
	return UnavailableStore{Backend: backend, Reason: err}
}

func storeConnector(opts StoreOptions) (string, func(context.Context) (domain.DocumentStore, error), error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return "", nil, fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return "mongodb", func(ctx context.Context) (domain.DocumentStore, error) {
			return NewMongoDocumentStore(ctx, opts.URL, opts.DatabaseName)
		}, nil
	case "postgres", "postgresql":
		return "postgres", func(ctx context.Context) (domain.DocumentStore, error) {
			return NewPostgresDocumentStore(ctx, opts.URL)
		}, nil
	case "memory":
		return "memory", func(context.Context) (domain.DocumentStore, error) {
			return NewMemoryDocumentStore(), nil
		}, nil
	default:
		return "", nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
