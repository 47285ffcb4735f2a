package services

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotBookable  = errors.New("event is not open for registration")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrAlreadyPaid       = errors.New("a completed order already exists for this event")
	ErrValidation        = errors.New("invalid registration request")
	ErrGateway           = errors.New("payment gateway error")
)
