// infrastructure/memory_document_store.go
package infrastructure

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDocumentStore keeps documents in process memory, in insertion order.
// Identifiers are ObjectIDs so callers see the same identifier format as the
// MongoDB backend.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order []string
	docs  map[string]domain.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryDocumentStore) Insert(_ context.Context, collection string, doc domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{docs: make(map[string]domain.Document)}
		s.collections[collection] = c
	}

	id := primitive.NewObjectID().Hex()
	stored := copyDocument(doc)
	delete(stored, "_id")
	stored["id"] = id
	c.docs[id] = stored
	c.order = append(c.order, id)
	return id, nil
}

func (s *MemoryDocumentStore) Find(_ context.Context, collection string, filter domain.Document, limit int64) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []domain.Document{}, nil
	}

	out := make([]domain.Document, 0)
	for _, id := range c.order {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		doc := c.docs[id]
		if matches(doc, filter) {
			out = append(out, copyDocument(doc))
		}
	}
	return out, nil
}

func (s *MemoryDocumentStore) FindOne(_ context.Context, collection, id string) (domain.Document, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return copyDocument(doc), nil
}

func (s *MemoryDocumentStore) UpdateOne(_ context.Context, collection, id string, fields domain.Document) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		doc[k] = v
	}
	return nil
}

func (s *MemoryDocumentStore) Diagnose(_ context.Context) domain.StoreDiagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > maxDiagnosticCollections {
		names = names[:maxDiagnosticCollections]
	}
	return domain.StoreDiagnostics{
		Backend:     "memory",
		Name:        "memory",
		Available:   true,
		Collections: names,
	}
}

func (s *MemoryDocumentStore) Close(context.Context) error {
	return nil
}

// canonicalID returns the lowercase hex form of an ObjectID, so ids differing
// only in letter case address the same document.
func canonicalID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", domain.ErrInvalidIdentifier
	}
	return oid.Hex(), nil
}

func matches(doc, filter domain.Document) bool {
	for k, want := range filter {
		if got, ok := doc[k]; !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func copyDocument(doc domain.Document) domain.Document {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
