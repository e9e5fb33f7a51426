package bingo

import (
	"streambingo/clients"
	"streambingo/models"
	"streambingo/services"
)

// BingoUseCase orchestrates event firing: card mutation, audit logging and
// fan-out, fed by the manual, chat and webhook entry points.
type BingoUseCase struct {
	episodesService     services.EpisodesService
	eventsService       services.EventsService
	cardsService        services.CardsService
	chatTriggersService services.ChatTriggersService
	firedEventsService  services.FiredEventsService
	eventSubService     services.EventSubService
	broadcaster         clients.Broadcaster
	txManager           services.TransactionManager
}

// NewBingoUseCase creates a new instance of BingoUseCase
func NewBingoUseCase(
	episodesService services.EpisodesService,
	eventsService services.EventsService,
	cardsService services.CardsService,
	chatTriggersService services.ChatTriggersService,
	firedEventsService services.FiredEventsService,
	eventSubService services.EventSubService,
	broadcaster clients.Broadcaster,
	txManager services.TransactionManager,
) *BingoUseCase {
	return &BingoUseCase{
		episodesService:     episodesService,
		eventsService:       eventsService,
		cardsService:        cardsService,
		chatTriggersService: chatTriggersService,
		firedEventsService:  firedEventsService,
		eventSubService:     eventSubService,
		broadcaster:         broadcaster,
		txManager:           txManager,
	}
}

// CardOutcome records what happened to one card during a firing. Per-card
// failures land here instead of failing the batch.
type CardOutcome struct {
	CardID  string
	Changed bool
	Err     error
}

// FireResult summarizes one firing invocation.
type FireResult struct {
	Event         *models.EventDefinition
	FiredEvent    *models.FiredEvent
	CardsAffected int
	Outcomes      []CardOutcome
}
