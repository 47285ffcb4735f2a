package controllers_test

import (
	"context"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/sender"
	"github.com/Gambit142/Community-Connect-sub000/services"

	"github.com/google/uuid"
)

// ---- mock repositories ----

type mockOrderRepo struct {
	byID        map[uuid.UUID]*models.Order
	bySession   map[string]*models.Order
	count       int64
	countErr    error
	transitions int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		byID:      map[uuid.UUID]*models.Order{},
		bySession: map[string]*models.Order{},
	}
}

func (m *mockOrderRepo) add(o *models.Order) {
	m.byID[o.ID] = o
	if o.CheckoutSessionID != nil {
		m.bySession[*o.CheckoutSessionID] = o
	}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	m.add(order)
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := m.byID[id]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByCheckoutSessionID(_ context.Context, sessionID string) (*models.Order, error) {
	if o, ok := m.bySession[sessionID]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) HasCompleted(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockOrderRepo) SetCheckoutSession(_ context.Context, orderID uuid.UUID, sessionID string) error {
	if o, ok := m.byID[orderID]; ok {
		o.CheckoutSessionID = &sessionID
		m.bySession[sessionID] = o
	}
	return nil
}

func (m *mockOrderRepo) Transition(_ context.Context, orderID uuid.UUID, from, to models.OrderStatus, _ map[string]interface{}) (*models.Order, error) {
	m.transitions++
	o, ok := m.byID[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.Status != from || !from.CanTransitionTo(to) {
		return o, repository.ErrStaleTransition
	}
	o.Status = to
	return o, nil
}

func (m *mockOrderRepo) FindStalePending(_ context.Context, _ time.Time, _ int) ([]models.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) CountByEvent(_ context.Context, _ uuid.UUID, _ models.OrderStatus) (int64, error) {
	return m.count, m.countErr
}

type mockEventRepo struct {
	events     map[uuid.UUID]*models.Event
	isAttendee bool
	addCalls   int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: map[uuid.UUID]*models.Event{}}
}

func (m *mockEventRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventRepo) IsAttendee(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return m.isAttendee, nil
}

func (m *mockEventRepo) AddAttendee(_ context.Context, _, _ uuid.UUID) (bool, error) {
	m.addCalls++
	return true, nil
}

func (m *mockEventRepo) CountAttendees(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type mockUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type mockNotificationRepo struct {
	saved []*models.Notification
}

func (m *mockNotificationRepo) Save(_ context.Context, n *models.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range m.saved {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

// ---- mock side-effect collaborators ----

type mockGateway struct {
	session *services.CheckoutSession
	err     error
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, _ *models.Order, _ *models.Event, _ *models.User) (*services.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockNotifier struct {
	notifications []*models.Notification
}

func (m *mockNotifier) Notify(_ context.Context, n *models.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

type mockEmailSender struct {
	sent int
}

func (m *mockEmailSender) SendEmail(_ context.Context, _, _, _ string) (sender.SendResult, error) {
	m.sent++
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

type mockSNSPublisher struct {
	published int
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, _ []byte) error {
	m.published++
	return nil
}
