package episodes

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockEpisodesService is a mock implementation of the EpisodesService interface
type MockEpisodesService struct {
	mock.Mock
}

func (m *MockEpisodesService) CreateEpisode(
	ctx context.Context,
	streamerID, title string,
	gridSize int,
) (*models.Episode, error) {
	args := m.Called(ctx, streamerID, title, gridSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Episode), args.Error(1)
}

func (m *MockEpisodesService) GetEpisodeByID(ctx context.Context, id string) (mo.Option[*models.Episode], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Episode]), args.Error(1)
}

func (m *MockEpisodesService) GetEpisodesByStreamerID(
	ctx context.Context,
	streamerID string,
) ([]*models.Episode, error) {
	args := m.Called(ctx, streamerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Episode), args.Error(1)
}

func (m *MockEpisodesService) GetLiveEpisodeByStreamerID(
	ctx context.Context,
	streamerID string,
) (mo.Option[*models.Episode], error) {
	args := m.Called(ctx, streamerID)
	return args.Get(0).(mo.Option[*models.Episode]), args.Error(1)
}

func (m *MockEpisodesService) UpdateEpisodeStatus(
	ctx context.Context,
	id string,
	status models.EpisodeStatus,
) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
