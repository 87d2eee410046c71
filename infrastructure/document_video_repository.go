// infrastructure/document_video_repository.go
package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

// DocumentVideoRepository maps Video records onto a DocumentStore collection
// and rejects documents that do not form a valid Video.
type DocumentVideoRepository struct {
	Store      domain.DocumentStore
	Collection string
	Logger     *zap.Logger
}

func NewDocumentVideoRepository(store domain.DocumentStore, logger *zap.Logger) *DocumentVideoRepository {
	return &DocumentVideoRepository{Store: store, Collection: domain.VideoCollection, Logger: logger}
}

func (r *DocumentVideoRepository) Save(ctx context.Context, video *domain.Video) error {
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	doc := domain.Document{
		"prompt":            video.Prompt,
		"preview_image_url": video.PreviewImageURL,
		"status":            string(video.Status),
		"created_at":        now,
		"updated_at":        now,
	}
	if video.VideoURL != "" {
		doc["video_url"] = video.VideoURL
	}

	id, err := r.Store.Insert(ctx, r.Collection, doc)
	if err != nil {
		return err
	}
	video.ID = id
	return nil
}

func (r *DocumentVideoRepository) MarkReady(ctx context.Context, videoID, videoURL string) error {
	return r.Store.UpdateOne(ctx, r.Collection, videoID, domain.Document{
		"status":     string(domain.VideoStatusReady),
		"video_url":  videoURL,
		"updated_at": time.Now().UTC(),
	})
}

func (r *DocumentVideoRepository) FindByID(ctx context.Context, videoID string) (*domain.Video, error) {
	doc, err := r.Store.FindOne(ctx, r.Collection, videoID)
	if err != nil {
		return nil, err
	}
	return videoFromDocument(doc)
}

// List skips documents that are not valid videos instead of failing the
// whole listing.
func (r *DocumentVideoRepository) List(ctx context.Context, limit int64) ([]domain.Video, error) {
	docs, err := r.Store.Find(ctx, r.Collection, nil, limit)
	if err != nil {
		return nil, err
	}

	videos := make([]domain.Video, 0, len(docs))
	for _, doc := range docs {
		v, err := videoFromDocument(doc)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("skipping malformed video document", zap.Any("id", doc["id"]), zap.Error(err))
			}
			continue
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

func videoFromDocument(doc domain.Document) (*domain.Video, error) {
	v := &domain.Video{
		ID:              stringField(doc, "id"),
		Prompt:          stringField(doc, "prompt"),
		PreviewImageURL: stringField(doc, "preview_image_url"),
		Status:          domain.VideoStatus(stringField(doc, "status")),
		VideoURL:        stringField(doc, "video_url"),
		CreatedAt:       timeField(doc, "created_at"),
		UpdatedAt:       timeField(doc, "updated_at"),
	}

	switch {
	case v.ID == "":
		return nil, fmt.Errorf("video document has no id")
	case !v.Status.Valid():
		return nil, fmt.Errorf("video %s has unknown status %q", v.ID, v.Status)
	case v.IsReady() && v.VideoURL == "":
		return nil, fmt.Errorf("video %s is ready without a video_url", v.ID)
	case !v.IsReady():
		v.VideoURL = ""
	}
	return v, nil
}

func stringField(doc domain.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func timeField(doc domain.Document, key string) time.Time {
	switch t := doc[key].(type) {
	case time.Time:
		return t.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
