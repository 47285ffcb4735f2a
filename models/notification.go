package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeRegistration = "event_registration"
	NotificationTypeNewAttendee  = "event_new_attendee"
)

// Notification is the persisted record behind a user's notification list.
// The live copy is pushed over the user's pub/sub channel by the notifier.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	ReferenceID string    `gorm:"type:varchar(64)" json:"reference_id,omitempty"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
