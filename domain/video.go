// domain/video.go
package domain

import "time"

// VideoCollection is the document collection holding Video records.
const VideoCollection = "video"

type VideoStatus string

const (
	VideoStatusPreview VideoStatus = "preview"
	VideoStatusReady   VideoStatus = "ready"
)

// Valid reports whether s is one of the known lifecycle states.
func (s VideoStatus) Valid() bool {
	return s == VideoStatusPreview || s == VideoStatusReady
}

// Video is a prompt-backed video record. VideoURL is empty until Status is
// VideoStatusReady.
type Video struct {
	ID              string      `json:"id"`
	Prompt          string      `json:"prompt"`
	PreviewImageURL string      `json:"preview_image_url"`
	Status          VideoStatus `json:"status"`
	VideoURL        string      `json:"video_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsReady reports whether the record has reached its terminal state.
func (v *Video) IsReady() bool {
	return v.Status == VideoStatusReady
}

type VideoEventType string

const (
	VideoEventPreviewCreated VideoEventType = "video.preview_created"
	VideoEventReady          VideoEventType = "video.ready"
)

// VideoEvent is emitted after a lifecycle operation has been persisted.
type VideoEvent struct {
	Type       VideoEventType `json:"type"`
	VideoID    string         `json:"video_id"`
	Status     VideoStatus    `json:"status"`
	VideoURL   string         `json:"video_url,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewVideoEvent builds the event describing v's current state.
func NewVideoEvent(t VideoEventType, v *Video) VideoEvent {
	return VideoEvent{
		Type:       t,
		VideoID:    v.ID,
		Status:     v.Status,
		VideoURL:   v.VideoURL,
		OccurredAt: time.Now().UTC(),
	}
}
