package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is the data-access layer for the order ledger. The status
// state machine is enforced here, not by callers: Transition refuses illegal
// moves and uses a conditional update so concurrent webhook deliveries
// serialize on the row's current status.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Order, error)
	HasCompleted(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	SetCheckoutSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
	Transition(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus, updates map[string]interface{}) (*models.Order, error)
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID, status models.OrderStatus) (int64, error)
}

type gormOrderRepo struct {
	db *gorm.DB
}

func NewGormOrderRepo(db *gorm.DB) OrderRepository {
	return &gormOrderRepo{db: db}
}

func (r *gormOrderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepo) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "checkout_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepo) HasCompleted(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormOrderRepo) SetCheckoutSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition moves an order from one status to another. The WHERE clause on
// the current status makes the update conditional: if another request already
// moved the order, zero rows match and ErrStaleTransition is returned along
// with the order's current state.
func (r *gormOrderRepo) Transition(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus, updates map[string]interface{}) (*models.Order, error) {
	if !from.CanTransitionTo(to) {
		return nil, ErrStaleTransition
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		current, err := r.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return current, ErrStaleTransition
	}
	return r.FindByID(ctx, orderID)
}

func (r *gormOrderRepo) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *gormOrderRepo) CountByEvent(ctx context.Context, eventID uuid.UUID, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}
