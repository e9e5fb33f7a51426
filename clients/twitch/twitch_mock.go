package twitch

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streambingo/clients"
)

// MockTwitchClient is a mock implementation of clients.TwitchClient
type MockTwitchClient struct {
	mock.Mock
}

func (m *MockTwitchClient) GetAppAccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTwitchClient) CreateEventSubSubscription(
	ctx context.Context,
	broadcasterID, eventType, callbackURL, secret string,
) (string, error) {
	args := m.Called(ctx, broadcasterID, eventType, callbackURL, secret)
	return args.String(0), args.Error(1)
}

func (m *MockTwitchClient) ListEventSubSubscriptions(ctx context.Context) ([]clients.TwitchSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.TwitchSubscription), args.Error(1)
}

func (m *MockTwitchClient) DeleteEventSubSubscription(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockTwitchClient) GetUserInfo(ctx context.Context, login string) (*clients.TwitchUserInfo, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.TwitchUserInfo), args.Error(1)
}
