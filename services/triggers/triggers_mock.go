package triggers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockChatTriggersService is a mock implementation of the ChatTriggersService interface
type MockChatTriggersService struct {
	mock.Mock
}

func (m *MockChatTriggersService) CreateChatTrigger(
	ctx context.Context,
	episodeID, eventID, keyword string,
	matchType models.MatchType,
	caseSensitive bool,
	cooldownSeconds int,
) (*models.ChatKeywordTrigger, error) {
	args := m.Called(ctx, episodeID, eventID, keyword, matchType, caseSensitive, cooldownSeconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatKeywordTrigger), args.Error(1)
}

func (m *MockChatTriggersService) GetActiveChatTriggersByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.ChatKeywordTrigger, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatKeywordTrigger), args.Error(1)
}

func (m *MockChatTriggersService) MatchMessage(
	ctx context.Context,
	episodeID, message string,
	now time.Time,
) ([]*models.ChatKeywordTrigger, error) {
	args := m.Called(ctx, episodeID, message, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatKeywordTrigger), args.Error(1)
}

func (m *MockChatTriggersService) SetChatTriggerActive(ctx context.Context, id string, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *MockChatTriggersService) DeleteChatTrigger(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
