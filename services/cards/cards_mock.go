package cards

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"streambingo/models"
)

// MockCardsService is a mock implementation of the CardsService interface
type MockCardsService struct {
	mock.Mock
}

func (m *MockCardsService) MintCard(ctx context.Context, episodeID, holderID string) (*models.Card, error) {
	args := m.Called(ctx, episodeID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardsService) GetCardByID(ctx context.Context, id string) (mo.Option[*models.Card], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Card]), args.Error(1)
}

func (m *MockCardsService) GetActiveCardsByEpisodeID(ctx context.Context, episodeID string) ([]*models.Card, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockCardsService) UpdateCardState(
	ctx context.Context,
	id string,
	grid models.Grid,
	markedSquares int,
	patterns models.PatternList,
) error {
	args := m.Called(ctx, id, grid, markedSquares, patterns)
	return args.Error(0)
}

func (m *MockCardsService) UpdateCardStatus(ctx context.Context, id string, status models.CardStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
