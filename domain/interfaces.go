// domain/interfaces.go
package domain

import "context"

// Document is a semi-structured record. Documents returned by a
// DocumentStore carry their identifier under the "id" key.
type Document map[string]any

// StoreDiagnostics describes the state of a DocumentStore connection.
type StoreDiagnostics struct {
	Backend     string
	Name        string
	Available   bool
	Collections []string
	Err         error
}

// DocumentStore is generic persistence over named collections.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Find(ctx context.Context, collection string, filter Document, limit int64) ([]Document, error)
	FindOne(ctx context.Context, collection, id string) (Document, error)
	UpdateOne(ctx context.Context, collection, id string, fields Document) error
	Diagnose(ctx context.Context) StoreDiagnostics
	Close(ctx context.Context) error
}

type VideoRepository interface {
	Save(ctx context.Context, video *Video) error
	MarkReady(ctx context.Context, videoID, videoURL string) error
	FindByID(ctx context.Context, videoID string) (*Video, error)
	List(ctx context.Context, limit int64) ([]Video, error)
}

type NotificationService interface {
	Notify(ctx context.Context, event VideoEvent) error
}
