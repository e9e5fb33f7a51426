package events

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockEventsService is a mock implementation of the EventsService interface
type MockEventsService struct {
	mock.Mock
}

func (m *MockEventsService) CreateEventDefinition(
	ctx context.Context,
	episodeID, name, icon string,
	triggerType models.TriggerType,
	webhookCategory *string,
) (*models.EventDefinition, error) {
	args := m.Called(ctx, episodeID, name, icon, triggerType, webhookCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventDefinition), args.Error(1)
}

func (m *MockEventsService) GetEventDefinitionByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.EventDefinition], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.EventDefinition]), args.Error(1)
}

func (m *MockEventsService) GetEventDefinitionsByEpisodeID(
	ctx context.Context,
	episodeID string,
) ([]*models.EventDefinition, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventDefinition), args.Error(1)
}

func (m *MockEventsService) GetWebhookEventDefinitions(
	ctx context.Context,
	episodeID, webhookCategory string,
) ([]*models.EventDefinition, error) {
	args := m.Called(ctx, episodeID, webhookCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventDefinition), args.Error(1)
}

func (m *MockEventsService) RecordFiring(ctx context.Context, id string) (*models.EventDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventDefinition), args.Error(1)
}
