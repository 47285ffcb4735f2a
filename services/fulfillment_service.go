package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awspkg "github.com/Gambit142/Community-Connect-sub000/aws"
	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/sender"

	"go.uber.org/zap"
)

// FulfillmentService is the single place a completed order turns into
// attendance plus notifications, email and downstream events. It is safe to
// invoke twice for the same order: the attendee insert is add-if-absent and
// skipping it skips every side effect with it.
type FulfillmentService struct {
	events   repository.EventRepository
	notifier Notifier
	email    sender.EmailSender
	sns      awspkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewFulfillmentService(
	events repository.EventRepository,
	notifier Notifier,
	email sender.EmailSender,
	sns awspkg.SNSPublisher,
	topicArn string,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		events:   events,
		notifier: notifier,
		email:    email,
		sns:      sns,
		topicArn: topicArn,
		logger:   logger,
	}
}

// Fulfill grants attendance for a completed order and emits the side effects.
// The attendee insert is the only state change; everything after it is
// best-effort and individually failure-isolated.
func (f *FulfillmentService) Fulfill(ctx context.Context, event *models.Event, user *models.User, order *models.Order) error {
	if order.Status != models.OrderStatusCompleted {
		return fmt.Errorf("order %s is %s, not completed", order.ID, order.Status)
	}

	added, err := f.events.AddAttendee(ctx, event.ID, order.UserID)
	if err != nil {
		return fmt.Errorf("add attendee: %w", err)
	}
	if !added {
		f.logger.Info("User already attending, skipping fulfillment side effects",
			zap.String("order_id", order.ID.String()),
			zap.String("event_id", event.ID.String()),
			zap.String("user_id", order.UserID.String()),
		)
		return nil
	}

	f.notifyRegistrant(ctx, event, order)
	f.notifyCreator(ctx, event, user, order)
	f.sendEmail(ctx, event, user, order)
	f.publishRegistrationEvent(ctx, order)

	return nil
}

func (f *FulfillmentService) notifyRegistrant(ctx context.Context, event *models.Event, order *models.Order) {
	n := &models.Notification{
		UserID:      order.UserID,
		Type:        models.NotificationTypeRegistration,
		Message:     fmt.Sprintf("You are registered for %q. Confirmation reference: %s.", event.Title, order.Reference()),
		ReferenceID: order.ID.String(),
	}
	if err := f.notifier.Notify(ctx, n); err != nil {
		f.logger.Error("Failed to notify registrant",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (f *FulfillmentService) notifyCreator(ctx context.Context, event *models.Event, user *models.User, order *models.Order) {
	if event.CreatorID == order.UserID {
		return
	}
	n := &models.Notification{
		UserID:      event.CreatorID,
		Type:        models.NotificationTypeNewAttendee,
		Message:     fmt.Sprintf("%s registered for %q (%d ticket(s)).", user.Name, event.Title, order.TicketCount),
		ReferenceID: order.ID.String(),
	}
	if err := f.notifier.Notify(ctx, n); err != nil {
		f.logger.Error("Failed to notify event creator",
			zap.String("order_id", order.ID.String()),
			zap.String("creator_id", event.CreatorID.String()),
			zap.Error(err),
		)
	}
}

func (f *FulfillmentService) sendEmail(ctx context.Context, event *models.Event, user *models.User, order *models.Order) {
	var subject, body string
	if order.Free() {
		subject = fmt.Sprintf("Registration confirmed: %s", event.Title)
		body = fmt.Sprintf(
			"<h2>You're going to %s!</h2>"+
				"<p>Hi %s, your registration is confirmed.</p>"+
				"<p>Tickets: %d<br>Confirmation reference: <strong>%s</strong></p>",
			event.Title, user.Name, order.TicketCount, order.Reference(),
		)
	} else {
		method := "card"
		if order.PaymentMethod != nil {
			method = *order.PaymentMethod
		}
		subject = fmt.Sprintf("Receipt for %s", event.Title)
		body = fmt.Sprintf(
			"<h2>Thanks for your payment, %s!</h2>"+
				"<p>Your registration for %s is confirmed.</p>"+
				"<p>Amount paid: <strong>%s %s</strong><br>"+
				"Payment method: %s<br>"+
				"Tickets: %d<br>"+
				"Order date: %s<br>"+
				"Confirmation reference: <strong>%s</strong></p>",
			user.Name, event.Title,
			models.FormatAmount(order.Amount), order.Currency,
			method, order.TicketCount,
			order.CreatedAt.Format("January 2, 2006"),
			order.Reference(),
		)
	}

	if _, err := f.email.SendEmail(ctx, user.Email, subject, body); err != nil {
		f.logger.Error("Failed to send registration email",
			zap.String("order_id", order.ID.String()),
			zap.String("recipient", user.Email),
			zap.Error(err),
		)
	}
}

func (f *FulfillmentService) publishRegistrationEvent(ctx context.Context, order *models.Order) {
	if f.sns == nil {
		f.logger.Info("SNS publisher not configured, skipping registration event",
			zap.String("order_id", order.ID.String()),
		)
		return
	}
	event := models.RegistrationEvent{
		Type:        "registration_completed",
		OrderID:     order.ID.String(),
		UserID:      order.UserID.String(),
		EventID:     order.EventID.String(),
		TicketCount: order.TicketCount,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Timestamp:   time.Now().UTC(),
	}
	payload, _ := json.Marshal(event)
	if err := f.sns.Publish(ctx, f.topicArn, payload); err != nil {
		f.logger.Error("Failed to publish registration event to SNS",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	f.logger.Info("Registration event published to SNS",
		zap.String("order_id", order.ID.String()),
		zap.String("type", event.Type),
	)
}
