package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a registration order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// legalTransitions is the single source of truth for status changes.
// completed, failed and refunded are terminal. refunded has no inbound
// transition here: it is only ever set by out-of-band state marking.
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusCompleted, OrderStatusFailed},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return len(legalTransitions[s]) == 0
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusFailed, OrderStatusRefunded:
		return true
	}
	return false
}

// Order is the durable record of one registration attempt. It is never
// deleted; failed and refunded rows stay around as the audit trail.
type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index:idx_orders_user_event" json:"user_id"`
	EventID           uuid.UUID   `gorm:"type:uuid;not null;index:idx_orders_user_event" json:"event_id"`
	Amount            int64       `gorm:"not null" json:"amount"` // smallest currency unit
	Currency          string      `gorm:"type:varchar(10);not null;default:'usd'" json:"currency"`
	TicketCount       int         `gorm:"not null;default:1" json:"ticket_count"`
	SpecialRequests   string      `gorm:"type:varchar(500)" json:"special_requests,omitempty"`
	CheckoutSessionID *string     `gorm:"uniqueIndex" json:"checkout_session_id,omitempty"`
	PaymentMethod     *string     `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	FailedAt          *time.Time  `json:"failed_at,omitempty"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Reference returns the short human-readable confirmation reference shown to
// registrants, derived from the order id.
func (o *Order) Reference() string {
	return strings.ToUpper(strings.ReplaceAll(o.ID.String(), "-", "")[:8])
}

// Free reports whether the order carried no payment.
func (o *Order) Free() bool {
	return o.Amount == 0
}

// FormatAmount renders an amount in minor units as a major-unit string,
// e.g. 5000 -> "50.00".
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
