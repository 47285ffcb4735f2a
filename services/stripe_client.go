package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Gambit142/Community-Connect-sub000/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutSession is the result of opening a hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutGateway opens hosted checkout sessions for pending orders. The
// session metadata must carry the (user_id, event_id, order_id) triple so the
// asynchronous webhook can find its way back to the order.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, order *models.Order, event *models.Event, user *models.User) (*CheckoutSession, error)
}

type StripeService struct {
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

func NewStripeService(secretKey, webhookSecret, frontendURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		WebhookSecret: webhookSecret,
		SuccessURL:    frontendURL + "/events/registration/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     frontendURL + "/events/registration/cancelled",
	}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, order *models.Order, event *models.Event, user *models.User) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(order.Currency),
					UnitAmount: stripe.Int64(event.Price),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(event.Title),
					},
				},
				Quantity: stripe.Int64(int64(order.TicketCount)),
			},
		},
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(s.SuccessURL),
		CancelURL:     stripe.String(s.CancelURL),
	}
	params.AddMetadata("user_id", order.UserID.String())
	params.AddMetadata("event_id", order.EventID.String())
	params.AddMetadata("order_id", order.ID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook reads the raw body and verifies the Stripe-Signature header
// against the webhook secret.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
}
