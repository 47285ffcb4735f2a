package services

import (
	"context"
	"errors"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"

	"go.uber.org/zap"
)

const staleOrderBatchSize = 100

// ReconciliationService fails pending orders whose checkout was abandoned and
// for which the gateway never delivered a completion or expiry event. It uses
// the same conditional transition as the webhook path, so a late webhook
// racing the sweep resolves cleanly either way.
type ReconciliationService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewReconciliationService(orders repository.OrderRepository, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{orders: orders, logger: logger}
}

// ExpireStalePending fails pending orders created before now-olderThan and
// returns how many it transitioned.
func (s *ReconciliationService) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	stale, err := s.orders.FindStalePending(ctx, cutoff, staleOrderBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		order := &stale[i]
		now := time.Now()
		_, err := s.orders.Transition(ctx, order.ID, models.OrderStatusPending, models.OrderStatusFailed,
			map[string]interface{}{"failed_at": &now})
		if err != nil {
			if errors.Is(err, repository.ErrStaleTransition) {
				// A webhook got there first.
				continue
			}
			s.logger.Error("Failed to expire stale order",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			continue
		}
		expired++
		s.logger.Info("Expired stale pending order",
			zap.String("order_id", order.ID.String()),
			zap.Time("created_at", order.CreatedAt),
		)
	}
	return expired, nil
}
