package repository

import (
	"context"
	"errors"

	"github.com/Gambit142/Community-Connect-sub000/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository reads events and users (owned by the CRUD layer) and owns
// the attendee projection.
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	IsAttendee(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	// AddAttendee inserts the membership row if absent. It returns false when
	// the user was already an attendee, which callers use as the fulfillment
	// idempotency gate.
	AddAttendee(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// UserRepository is the read-only user lookup consumed by the pipeline.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type gormEventRepo struct {
	db *gorm.DB
}

func NewGormEventRepo(db *gorm.DB) EventRepository {
	return &gormEventRepo{db: db}
}

func (r *gormEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *gormEventRepo) IsAttendee(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddAttendee relies on the composite primary key plus ON CONFLICT DO NOTHING,
// so two racing fulfillment attempts cannot both report the insert.
func (r *gormEventRepo) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	attendee := models.EventAttendee{EventID: eventID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&attendee)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormEventRepo) CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

type gormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
