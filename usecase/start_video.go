// usecase/start_video.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

type StartVideoInput struct {
	VideoID string
}

// StartVideoUseCase marks a video as ready with the sample video URL. It does
// not check the current status: starting an already ready video re-applies
// the same state.
type StartVideoUseCase struct {
	VideoRepo    domain.VideoRepository
	Notification domain.NotificationService
	Logger       *zap.Logger
}

func (uc *StartVideoUseCase) Execute(ctx context.Context, input StartVideoInput) (*domain.Video, error) {
	if input.VideoID == "" {
		return nil, domain.NewValidationError("video_id is required")
	}

	if _, err := uc.VideoRepo.FindByID(ctx, input.VideoID); err != nil {
		return nil, translateLookupError(err)
	}

	if err := uc.VideoRepo.MarkReady(ctx, input.VideoID, SampleVideoURL); err != nil {
		return nil, fmt.Errorf("failed to update video status: %w", err)
	}

	updated, err := uc.VideoRepo.FindByID(ctx, input.VideoID)
	if err != nil {
		return nil, translateLookupError(err)
	}

	notify(ctx, uc.Notification, uc.Logger, domain.NewVideoEvent(domain.VideoEventReady, updated))
	return updated, nil
}

func translateLookupError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return domain.NewValidationError("Invalid video_id")
	case errors.Is(err, domain.ErrDocumentNotFound):
		return domain.NewNotFoundError("Video not found")
	default:
		return fmt.Errorf("failed to load video: %w", err)
	}
}
