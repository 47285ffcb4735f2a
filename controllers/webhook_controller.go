package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// WebhookController ingests asynchronous Stripe events. Once a payload is
// authenticated it is always acknowledged with 2xx: the gateway retries on
// anything else, and "already handled" is a success, not an error.
type WebhookController struct {
	Stripe      *services.StripeService
	Orders      repository.OrderRepository
	Events      repository.EventRepository
	Users       repository.UserRepository
	Fulfillment *services.FulfillmentService
	Logger      *zap.Logger
}

// HandleStripeWebhook handles POST /stripe/webhook.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleSessionCompleted(c.Request.Context(), event)
	case "checkout.session.expired":
		wc.handleSessionExpired(c.Request.Context(), event)
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleSessionCompleted resolves the session back to its order via the
// metadata triple and transitions it to completed exactly once. Any stale or
// missing correlation is logged and swallowed: the gateway may deliver the
// same event an unbounded number of times.
func (wc *WebhookController) handleSessionCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return
	}

	userID, err1 := uuid.Parse(sess.Metadata["user_id"])
	eventID, err2 := uuid.Parse(sess.Metadata["event_id"])
	orderID, err3 := uuid.Parse(sess.Metadata["order_id"])
	if err1 != nil || err2 != nil || err3 != nil {
		wc.Logger.Warn("Missing or malformed metadata in checkout session",
			zap.String("session_id", sess.ID),
			zap.Any("metadata", sess.Metadata),
		)
		return
	}

	communityEvent, err := wc.Events.FindByID(ctx, eventID)
	if err != nil {
		wc.Logger.Warn("Event not found for completed session",
			zap.String("session_id", sess.ID),
			zap.String("event_id", eventID.String()),
		)
		return
	}
	user, err := wc.Users.FindByID(ctx, userID)
	if err != nil {
		wc.Logger.Warn("User not found for completed session",
			zap.String("session_id", sess.ID),
			zap.String("user_id", userID.String()),
		)
		return
	}
	order, err := wc.Orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		// Metadata can outlive an order only through operator surgery; the
		// session id is the fallback correlation key.
		order, err = wc.Orders.FindByCheckoutSessionID(ctx, sess.ID)
	}
	if err != nil {
		wc.Logger.Warn("Order not found for completed session",
			zap.String("session_id", sess.ID),
			zap.String("order_id", orderID.String()),
		)
		return
	}

	if order.Status != models.OrderStatusPending {
		wc.Logger.Info("Skipping duplicate completed-session delivery",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
		return
	}
	attending, err := wc.Events.IsAttendee(ctx, eventID, userID)
	if err != nil {
		wc.Logger.Error("Attendee lookup failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		return
	}
	if attending {
		wc.Logger.Info("User already attending, skipping completed-session delivery",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
		)
		return
	}

	method := "card"
	if len(sess.PaymentMethodTypes) > 0 {
		method = string(sess.PaymentMethodTypes[0])
	}
	now := time.Now()
	order, err = wc.Orders.Transition(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCompleted,
		map[string]interface{}{
			"payment_method": &method,
			"completed_at":   &now,
		})
	if err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			// A concurrent delivery completed the order between our status
			// read and the conditional update.
			wc.Logger.Info("Order already transitioned, skipping",
				zap.String("order_id", order.ID.String()),
			)
			return
		}
		wc.Logger.Error("Failed to complete order",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return
	}

	if err := wc.Fulfillment.Fulfill(ctx, communityEvent, user, order); err != nil {
		wc.Logger.Error("Fulfillment failed after completing order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (wc *WebhookController) handleSessionExpired(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return
	}

	order, err := wc.Orders.FindByCheckoutSessionID(ctx, sess.ID)
	if err != nil {
		wc.Logger.Warn("No order for expired session", zap.String("session_id", sess.ID))
		return
	}
	if order.Status != models.OrderStatusPending {
		wc.Logger.Info("Expired session for non-pending order, skipping",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
		return
	}

	now := time.Now()
	if _, err := wc.Orders.Transition(ctx, order.ID, models.OrderStatusPending, models.OrderStatusFailed,
		map[string]interface{}{"failed_at": &now}); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			return
		}
		wc.Logger.Error("Failed to fail expired order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	wc.Logger.Info("Order failed after session expiry",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sess.ID),
	)
}
