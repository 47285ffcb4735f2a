package services_test

import (
	"context"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/sender"
	"github.com/Gambit142/Community-Connect-sub000/services"

	"github.com/google/uuid"
)

// ---- mock order repository ----

type mockOrderRepo struct {
	created       []*models.Order
	createErr     error
	byID          map[uuid.UUID]*models.Order
	bySession     map[string]*models.Order
	hasCompleted  bool
	sessions      map[uuid.UUID]string
	stalePending  []models.Order
	transitionErr error
	transitions   []transitionCall
}

type transitionCall struct {
	orderID uuid.UUID
	from    models.OrderStatus
	to      models.OrderStatus
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		byID:      map[uuid.UUID]*models.Order{},
		bySession: map[string]*models.Order{},
		sessions:  map[uuid.UUID]string{},
	}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, order)
	m.byID[order.ID] = order
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
	return m.hasCompleted, nil
}

func (m *mockOrderRepo) SetCheckoutSession(_ context.Context, orderID uuid.UUID, sessionID string) error {
	m.sessions[orderID] = sessionID
	if o, ok := m.byID[orderID]; ok {
		m.bySession[sessionID] = o
	}
	return nil
}

func (m *mockOrderRepo) Transition(_ context.Context, orderID uuid.UUID, from, to models.OrderStatus, updates map[string]interface{}) (*models.Order, error) {
	m.transitions = append(m.transitions, transitionCall{orderID: orderID, from: from, to: to})
	if m.transitionErr != nil {
		return m.byID[orderID], m.transitionErr
	}
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
	return m.stalePending, nil
}

func (m *mockOrderRepo) CountByEvent(_ context.Context, _ uuid.UUID, _ models.OrderStatus) (int64, error) {
	return int64(len(m.created)), nil
}

// ---- mock event repository ----

type mockEventRepo struct {
	event         *models.Event
	findErr       error
	isAttendee    bool
	addAttendeeOK bool
	addErr        error
	addCalls      int
}

func (m *mockEventRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.event, nil
}

func (m *mockEventRepo) IsAttendee(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return m.isAttendee, nil
}

func (m *mockEventRepo) AddAttendee(_ context.Context, _, _ uuid.UUID) (bool, error) {
	m.addCalls++
	if m.addErr != nil {
		return false, m.addErr
	}
	return m.addAttendeeOK, nil
}

func (m *mockEventRepo) CountAttendees(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

// ---- mock user repository ----

type mockUserRepo struct {
	user *models.User
	err  error
}

func (m *mockUserRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

// ---- mock checkout gateway ----

type mockGateway struct {
	session *services.CheckoutSession
	err     error
	calls   int
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, _ *models.Order, _ *models.Event, _ *models.User) (*services.CheckoutSession, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

// ---- mock notifier ----

type mockNotifier struct {
	notifications []*models.Notification
	err           error
}

func (m *mockNotifier) Notify(_ context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, n)
	return nil
}

// ---- mock email sender ----

type mockEmailSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// ---- mock SNS publisher ----

type mockSNSPublisher struct {
	published [][]byte
	topics    []string
	err       error
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn string, message []byte) error {
	if m.err != nil {
		return m.err
	}
	m.topics = append(m.topics, topicArn)
	m.published = append(m.published, message)
	return nil
}
