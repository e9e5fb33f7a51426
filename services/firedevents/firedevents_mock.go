package firedevents

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockFiredEventsService is a mock implementation of the FiredEventsService interface
type MockFiredEventsService struct {
	mock.Mock
}

func (m *MockFiredEventsService) RecordFiredEvent(
	ctx context.Context,
	episodeID, eventID string,
	source models.FiringSource,
	cardsAffected int,
	triggerData models.TriggerData,
) (*models.FiredEvent, error) {
	args := m.Called(ctx, episodeID, eventID, source, cardsAffected, triggerData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FiredEvent), args.Error(1)
}

func (m *MockFiredEventsService) GetFiredEventsByEpisodeID(
	ctx context.Context,
	episodeID string,
	limit int,
) ([]*models.FiredEvent, error) {
	args := m.Called(ctx, episodeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FiredEvent), args.Error(1)
}
