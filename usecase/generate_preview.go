// usecase/generate_preview.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

type GeneratePreviewInput struct {
	Prompt string
}

type GeneratePreviewOutput struct {
	ID              string             `json:"id"`
	PreviewImageURL string             `json:"preview_image_url"`
	Status          domain.VideoStatus `json:"status"`
}

type GeneratePreviewUseCase struct {
	VideoRepo    domain.VideoRepository
	Notification domain.NotificationService
	Logger       *zap.Logger
}

func (uc *GeneratePreviewUseCase) Execute(ctx context.Context, input GeneratePreviewInput) (*GeneratePreviewOutput, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, domain.NewValidationError("Prompt is required")
	}

	video := &domain.Video{
		Prompt:          prompt,
		PreviewImageURL: PreviewImageURL(prompt),
		Status:          domain.VideoStatusPreview,
	}
	if err := uc.VideoRepo.Save(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to record video preview: %w", err)
	}

	notify(ctx, uc.Notification, uc.Logger, domain.NewVideoEvent(domain.VideoEventPreviewCreated, video))

	return &GeneratePreviewOutput{
		ID:              video.ID,
		PreviewImageURL: video.PreviewImageURL,
		Status:          video.Status,
	}, nil
}

// notify hands event to n; delivery failures never fail the operation.
func notify(ctx context.Context, n domain.NotificationService, logger *zap.Logger, event domain.VideoEvent) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event); err != nil && logger != nil {
		logger.Warn("video event notification failed",
			zap.String("event", string(event.Type)),
			zap.String("video_id", event.VideoID),
			zap.Error(err),
		)
	}
}
