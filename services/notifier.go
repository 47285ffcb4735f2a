package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier delivers a notification to a user: one persisted row for the
// notification list plus a push on the user's live channel. Injected as an
// interface so tests can substitute a recorder.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type redisNotifier struct {
	repo   repository.NotificationRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisNotifier(repo repository.NotificationRepository, rdb *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{repo: repo, rdb: rdb, logger: logger}
}

// Notify persists the record first; the live push is best-effort on top of it.
func (n *redisNotifier) Notify(ctx context.Context, notification *models.Notification) error {
	if err := n.repo.Save(ctx, notification); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return nil
	}
	channel := fmt.Sprintf("user:%s:notifications", notification.UserID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("Live notification publish failed",
			zap.String("user_id", notification.UserID.String()),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
	}
	return nil
}
