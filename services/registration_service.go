package services

import (
	"context"
	"fmt"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTicketCount     = 10
	maxSpecialRequests = 500
)

// RegistrationResult is what a successful registration call returns. For free
// events Order is already completed and Event reflects the fulfilled state;
// for paid events SessionID/RedirectURL point the caller at hosted checkout.
type RegistrationResult struct {
	Event       *models.Event `json:"event,omitempty"`
	Order       *models.Order `json:"order,omitempty"`
	SessionID   string        `json:"session_id,omitempty"`
	RedirectURL string        `json:"redirect_url,omitempty"`
}

// RegistrationService is the entry point of the registration pipeline. It
// validates the request, runs the duplicate checks and branches between
// immediate free-path fulfillment and deferred paid-path checkout.
type RegistrationService struct {
	orders      repository.OrderRepository
	events      repository.EventRepository
	users       repository.UserRepository
	gateway     CheckoutGateway
	fulfillment *FulfillmentService
	currency    string
	logger      *zap.Logger
}

func NewRegistrationService(
	orders repository.OrderRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	gateway CheckoutGateway,
	fulfillment *FulfillmentService,
	currency string,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		orders:      orders,
		events:      events,
		users:       users,
		gateway:     gateway,
		fulfillment: fulfillment,
		currency:    currency,
		logger:      logger,
	}
}

// Register handles one registration attempt. Exactly one order row is created
// per call; a retried call re-runs the duplicate checks and is rejected
// instead of touching the earlier order.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID uuid.UUID, req *models.RegisterRequest) (*RegistrationResult, error) {
	if req.TicketCount == 0 {
		req.TicketCount = 1
	}
	if req.TicketCount < 1 || req.TicketCount > maxTicketCount {
		return nil, fmt.Errorf("%w: ticket count must be between 1 and %d", ErrValidation, maxTicketCount)
	}
	if len(req.SpecialRequests) > maxSpecialRequests {
		return nil, fmt.Errorf("%w: special requests must be at most %d characters", ErrValidation, maxSpecialRequests)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.Bookable() {
		return nil, ErrEventNotBookable
	}

	attending, err := s.events.IsAttendee(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if attending {
		return nil, ErrAlreadyRegistered
	}

	// The attendee set and the order ledger are updated at slightly different
	// points, so check both.
	paid, err := s.orders.HasCompleted(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrAlreadyPaid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: unknown user", ErrValidation)
		}
		return nil, err
	}

	if event.FreeEntry() {
		return s.registerFree(ctx, event, user, req)
	}
	return s.registerPaid(ctx, event, user, req)
}

func (s *RegistrationService) registerFree(ctx context.Context, event *models.Event, user *models.User, req *models.RegisterRequest) (*RegistrationResult, error) {
	handle := "free_" + uuid.NewString()
	order := &models.Order{
		ID:                uuid.New(),
		UserID:            user.ID,
		EventID:           event.ID,
		Amount:            0,
		Currency:          s.currency,
		TicketCount:       req.TicketCount,
		SpecialRequests:   req.SpecialRequests,
		CheckoutSessionID: &handle,
		Status:            models.OrderStatusCompleted,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.fulfillment.Fulfill(ctx, event, user, order); err != nil {
		// The order is already completed; attendance is reconciled on the
		// next attempt rather than rolled back.
		s.logger.Error("Free registration fulfillment failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &RegistrationResult{Event: event, Order: order}, nil
}

func (s *RegistrationService) registerPaid(ctx context.Context, event *models.Event, user *models.User, req *models.RegisterRequest) (*RegistrationResult, error) {
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		EventID:         event.ID,
		Amount:          event.Price * int64(req.TicketCount),
		Currency:        s.currency,
		TicketCount:     req.TicketCount,
		SpecialRequests: req.SpecialRequests,
		Status:          models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, order, event, user)
	if err != nil {
		// The order stays pending without a handle; the reconciliation sweep
		// fails it once stale.
		s.logger.Error("Checkout session creation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	// The session id is the webhook's only correlation key back to this
	// order, so persist it before returning.
	if err := s.orders.SetCheckoutSession(ctx, order.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("persist checkout session id: %w", err)
	}
	order.CheckoutSessionID = &sess.ID

	s.logger.Info("Checkout session opened",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sess.ID),
		zap.Int64("amount", order.Amount),
	)

	return &RegistrationResult{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}
