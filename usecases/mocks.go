package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streambingo/models"
	"streambingo/usecases/bingo"
)

// MockBingoUseCase is a mock implementation of BingoUseCaseInterface
type MockBingoUseCase struct {
	mock.Mock
}

func (m *MockBingoUseCase) FireEvent(
	ctx context.Context,
	episodeID, eventID string,
	source models.FiringSource,
	triggerData models.TriggerData,
) (*bingo.FireResult, error) {
	args := m.Called(ctx, episodeID, eventID, source, triggerData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bingo.FireResult), args.Error(1)
}

func (m *MockBingoUseCase) ManualFire(ctx context.Context, episodeID, eventID, operatorID string) (*bingo.FireResult, error) {
	args := m.Called(ctx, episodeID, eventID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bingo.FireResult), args.Error(1)
}

func (m *MockBingoUseCase) ProcessChatMessage(ctx context.Context, episodeID, username, message string) error {
	args := m.Called(ctx, episodeID, username, message)
	return args.Error(0)
}

func (m *MockBingoUseCase) ProcessEventSubNotification(
	ctx context.Context,
	subscriptionID, eventType string,
	event map[string]any,
) error {
	args := m.Called(ctx, subscriptionID, eventType, event)
	return args.Error(0)
}
