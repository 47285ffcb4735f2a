package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

// Event is a community event. Rows are owned by the CRUD layer; this service
// only reads them and maintains the attendee projection.
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Location    string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	Price       int64     `gorm:"not null;default:0" json:"price"` // per ticket, smallest currency unit; 0 = free
	Status      string    `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Bookable reports whether registrations are currently accepted.
func (e *Event) Bookable() bool {
	return e.Status == EventStatusPublished
}

// FreeEntry reports whether the event charges no fee.
func (e *Event) FreeEntry() bool {
	return e.Price == 0
}

// EventAttendee is one row of an event's attendee set. Membership means the
// user holds a fulfilled registration. The composite primary key makes the
// insert a natural add-if-absent.
type EventAttendee struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User is the slice of the users table this service reads. Rows are owned by
// the auth/CRUD layer.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
