package eventsub

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockEventSubService is a mock implementation of the EventSubService interface
type MockEventSubService struct {
	mock.Mock
}

func (m *MockEventSubService) Verify(
	messageID, timestamp string,
	body []byte,
	signature string,
	subscriptionID mo.Option[string],
) bool {
	args := m.Called(messageID, timestamp, body, signature, subscriptionID)
	return args.Bool(0)
}

func (m *MockEventSubService) CreateSubscription(
	ctx context.Context,
	episodeID, broadcasterID, eventType string,
) (*models.EventSubSubscription, error) {
	args := m.Called(ctx, episodeID, broadcasterID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventSubSubscription), args.Error(1)
}

func (m *MockEventSubService) ResolveBroadcasterID(ctx context.Context, login string) (string, error) {
	args := m.Called(ctx, login)
	return args.String(0), args.Error(1)
}

func (m *MockEventSubService) ListSubscriptions(ctx context.Context) ([]*models.EventSubSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventSubSubscription), args.Error(1)
}

func (m *MockEventSubService) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockEventSubService) GetSubscriptionByID(subscriptionID string) mo.Option[*models.EventSubSubscription] {
	args := m.Called(subscriptionID)
	return args.Get(0).(mo.Option[*models.EventSubSubscription])
}

func (m *MockEventSubService) DropSubscriptionSecret(subscriptionID string) {
	m.Called(subscriptionID)
}

func (m *MockEventSubService) MapNotification(eventType string, event map[string]any) models.TwitchEvent {
	args := m.Called(eventType, event)
	return args.Get(0).(models.TwitchEvent)
}
