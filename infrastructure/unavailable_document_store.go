// infrastructure/unavailable_document_store.go
package infrastructure

import (
	"context"

	"github.com/vitovidale/ai-video-backend/domain"
)

// UnavailableStore stands in for a store that could not be reached at
// start-up. Every operation fails with domain.ErrStoreUnavailable.
type UnavailableStore struct {
	Backend string
	Reason  error
}

func (s UnavailableStore) Insert(context.Context, string, domain.Document) (string, error) {
	return "", domain.ErrStoreUnavailable
}

func (s UnavailableStore) Find(context.Context, string, domain.Document, int64) ([]domain.Document, error) {
	return nil, domain.ErrStoreUnavailable
}

func (s UnavailableStore) FindOne(context.Context, string, string) (domain.Document, error) {
	return nil, domain.ErrStoreUnavailable
}

func (s UnavailableStore) UpdateOne(context.Context, string, string, domain.Document) error {
	return domain.ErrStoreUnavailable
}

func (s UnavailableStore) Diagnose(context.Context) domain.StoreDiagnostics {
	err := s.Reason
	if err == nil {
		err = domain.ErrStoreUnavailable
	}
	return domain.StoreDiagnostics{Backend: s.Backend, Err: err}
}

func (s UnavailableStore) Close(context.Context) error {
	return nil
}
