package cards

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/samber/mo"

	"streambingo/core"
	"streambingo/db"
	"streambingo/models"
)

type CardsService struct {
	cardsRepo    *db.PostgresCardsRepository
	episodesRepo *db.PostgresEpisodesRepository
	eventsRepo   *db.PostgresEventDefinitionsRepository
}

func NewCardsService(
	cardsRepo *db.PostgresCardsRepository,
	episodesRepo *db.PostgresEpisodesRepository,
	eventsRepo *db.PostgresEventDefinitionsRepository,
) *CardsService {
	return &CardsService{
		cardsRepo:    cardsRepo,
		episodesRepo: episodesRepo,
		eventsRepo:   eventsRepo,
	}
}

// MintCard creates a card for a holder in an episode, binding the episode's
// event definitions to grid cells in shuffled order. One card per holder per
// episode; the grid size is fixed by the episode at mint time.
func (s *CardsService) MintCard(ctx context.Context, episodeID, holderID string) (*models.Card, error) {
	log.Printf("📋 Starting to mint card for holder %s in episode %s", holderID, episodeID)

	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if !core.IsValidULID(holderID) {
		return nil, fmt.Errorf("holder_id must be a valid ULID")
	}

	maybeEpisode, err := s.episodesRepo.GetEpisodeByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	if !maybeEpisode.IsPresent() {
		return nil, fmt.Errorf("episode %s: %w", episodeID, core.ErrNotFound)
	}
	episode := maybeEpisode.MustGet()

	maybeExisting, err := s.cardsRepo.GetCardByEpisodeAndHolder(ctx, episodeID, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing card: %w", err)
	}
	if maybeExisting.IsPresent() {
		return nil, fmt.Errorf("holder %s already has a card in episode %s", holderID, episodeID)
	}

	events, err := s.eventsRepo.GetEventDefinitionsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event definitions: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("episode %s has no event definitions", episodeID)
	}

	grid, err := models.NewGrid(episode.GridSize, shuffledEventIDs(events, episode.GridSize))
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}

	card := &models.Card{
		ID:            core.NewID("card"),
		EpisodeID:     episodeID,
		HolderID:      holderID,
		Grid:          grid,
		MarkedSquares: 0,
		Patterns:      models.PatternList{},
		Status:        models.CardStatusActive,
	}

	if err := s.cardsRepo.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	log.Printf("📋 Completed successfully - minted card with ID: %s", card.ID)
	return card, nil
}

// shuffledEventIDs fills size*size cells from the episode's events, shuffled.
// When there are fewer events than cells the shuffled list repeats, so every
// cell is still bound to a real event.
func shuffledEventIDs(events []*models.EventDefinition, size int) []string {
	shuffled := make([]string, len(events))
	for i, event := range events {
		shuffled[i] = event.ID
	}
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cellCount := size * size
	eventIDs := make([]string, cellCount)
	for i := 0; i < cellCount; i++ {
		eventIDs[i] = shuffled[i%len(shuffled)]
	}
	return eventIDs
}

func (s *CardsService) GetCardByID(ctx context.Context, id string) (mo.Option[*models.Card], error) {
	log.Printf("📋 Starting to get card by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Card](), fmt.Errorf("card ID must be a valid ULID")
	}

	maybeCard, err := s.cardsRepo.GetCardByID(ctx, id)
	if err != nil {
		return mo.None[*models.Card](), fmt.Errorf("failed to get card: %w", err)
	}

	log.Printf("📋 Completed successfully - card found: %v", maybeCard.IsPresent())
	return maybeCard, nil
}

func (s *CardsService) GetActiveCardsByEpisodeID(ctx context.Context, episodeID string) ([]*models.Card, error) {
	log.Printf("📋 Starting to get active cards for episode: %s", episodeID)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}

	cards, err := s.cardsRepo.GetActiveCardsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active cards: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d active cards", len(cards))
	return cards, nil
}

func (s *CardsService) UpdateCardState(
	ctx context.Context,
	id string,
	grid models.Grid,
	markedSquares int,
	patterns models.PatternList,
) error {
	log.Printf("📋 Starting to update card state for card: %s", id)
	if !core.IsValidULID(id) {
		return fmt.Errorf("card ID must be a valid ULID")
	}
	if err := grid.Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if recount := grid.MarkedCount(); recount != markedSquares {
		return fmt.Errorf("marked_squares %d does not match grid recount %d", markedSquares, recount)
	}

	updated, err := s.cardsRepo.UpdateCardState(ctx, id, grid, markedSquares, patterns)
	if err != nil {
		return fmt.Errorf("failed to update card state: %w", err)
	}
	if !updated {
		return fmt.Errorf("card %s not found or not active: %w", id, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - card %s now has %d marked squares", id, markedSquares)
	return nil
}

func (s *CardsService) UpdateCardStatus(ctx context.Context, id string, status models.CardStatus) error {
	log.Printf("📋 Starting to update card %s status to %s", id, status)
	if !core.IsValidULID(id) {
		return fmt.Errorf("card ID must be a valid ULID")
	}

	updated, err := s.cardsRepo.UpdateCardStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}
	if !updated {
		return fmt.Errorf("card %s: %w", id, core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - card %s is now %s", id, status)
	return nil
}
