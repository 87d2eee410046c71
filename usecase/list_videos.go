// usecase/list_videos.go
package usecase

import (
	"context"
	"fmt"

	"github.com/vitovidale/ai-video-backend/domain"
)

const defaultListLimit = 50

type ListVideosInput struct {
	// Limit <= 0 selects DefaultLimit.
	Limit int64
}

type ListVideosUseCase struct {
	VideoRepo    domain.VideoRepository
	DefaultLimit int64
}

func (uc *ListVideosUseCase) Execute(ctx context.Context, input ListVideosInput) ([]domain.Video, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = uc.DefaultLimit
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	videos, err := uc.VideoRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}
