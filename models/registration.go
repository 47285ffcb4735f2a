package models

import "time"

// RegisterRequest is the body of POST /events/:id/register.
// Ticket count defaults to 1 when omitted.
type RegisterRequest struct {
	TicketCount     int    `json:"ticket_count" binding:"omitempty,min=1,max=10"`
	SpecialRequests string `json:"special_requests" binding:"omitempty,max=500"`
}

// RegistrationEvent is the message published to SNS after an order reaches a
// terminal state, consumed by the notification-list and analytics services.
type RegistrationEvent struct {
	Type        string    `json:"type"` // "registration_completed" or "registration_failed"
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	TicketCount int       `json:"ticket_count"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}
