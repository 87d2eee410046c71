// infrastructure/notification.go
package infrastructure

import (
	"context"
	"errors"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.uber.org/zap"
)

// LogNotifier records lifecycle events in the service log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, event domain.VideoEvent) error {
	n.Logger.Info("video event",
		zap.String("event", string(event.Type)),
		zap.String("video_id", event.VideoID),
		zap.String("status", string(event.Status)),
		zap.String("video_url", event.VideoURL),
	)
	return nil
}

// MultiNotifier delivers each event to every notifier, collecting failures.
type MultiNotifier []domain.NotificationService

func (m MultiNotifier) Notify(ctx context.Context, event domain.VideoEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
