package bingo

import (
	"context"
	"fmt"
	"log"
	"time"

	"streambingo/core"
	"streambingo/models"
)

// FireEvent applies one event firing to every active card of an episode.
// Per-card persistence failures are logged and skipped so one bad card never
// starves the rest of the batch. The fired count bump, the audit record and
// the episode-level broadcast each happen exactly once per invocation, even
// when no card changed.
func (u *BingoUseCase) FireEvent(
	ctx context.Context,
	episodeID, eventID string,
	source models.FiringSource,
	triggerData models.TriggerData,
) (*FireResult, error) {
	log.Printf("📋 Starting to fire event %s on episode %s (source: %s)", eventID, episodeID, source)
	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode ID must be a valid ULID")
	}
	if !core.IsValidULID(eventID) {
		return nil, fmt.Errorf("event ID must be a valid ULID")
	}

	maybeEpisode, err := u.episodesService.GetEpisodeByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	if !maybeEpisode.IsPresent() {
		return nil, fmt.Errorf("episode not found: %s", episodeID)
	}
	episode := maybeEpisode.MustGet()
	if episode.Status == models.EpisodeStatusEnded {
		return nil, fmt.Errorf("episode %s has ended, events can no longer fire", episodeID)
	}

	maybeEvent, err := u.eventsService.GetEventDefinitionByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event definition: %w", err)
	}
	if !maybeEvent.IsPresent() {
		return nil, fmt.Errorf("event definition not found: %s", eventID)
	}
	if maybeEvent.MustGet().EpisodeID != episodeID {
		return nil, fmt.Errorf("event %s does not belong to episode %s", eventID, episodeID)
	}

	cards, err := u.cardsService.GetActiveCardsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active cards: %w", err)
	}

	now := time.Now()
	outcomes := make([]CardOutcome, 0, len(cards))
	changedCards := make([]*models.Card, 0, len(cards))
	cardsAffected := 0
	for _, card := range cards {
		newlyMarked := card.Grid.MarkEvent(eventID, now)
		if newlyMarked == 0 {
			outcomes = append(outcomes, CardOutcome{CardID: card.ID})
			continue
		}

		// Recount instead of incrementing so a stale cached count can
		// never drift from the grid.
		card.MarkedSquares = card.Grid.MarkedCount()
		card.Patterns = models.DetectPatterns(card.Grid)
		if err := u.cardsService.UpdateCardState(ctx, card.ID, card.Grid, card.MarkedSquares, card.Patterns); err != nil {
			log.Printf("❌ Failed to persist card %s, skipping: %v", card.ID, err)
			outcomes = append(outcomes, CardOutcome{CardID: card.ID, Err: err})
			continue
		}

		if card.Patterns.HasBlackout() {
			if err := u.cardsService.UpdateCardStatus(ctx, card.ID, models.CardStatusFruited); err != nil {
				log.Printf("❌ Failed to mark card %s as fruited: %v", card.ID, err)
			} else {
				log.Printf("🎉 Card %s reached blackout and is now fruited", card.ID)
			}
		}

		outcomes = append(outcomes, CardOutcome{CardID: card.ID, Changed: true})
		changedCards = append(changedCards, card)
		cardsAffected++
	}

	// The count bump and the audit row land together or not at all, so the
	// audit log can never disagree with fired counts.
	var updatedEvent *models.EventDefinition
	var firedEvent *models.FiredEvent
	err = u.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		updatedEvent, err = u.eventsService.RecordFiring(txCtx, eventID)
		if err != nil {
			return fmt.Errorf("failed to record firing: %w", err)
		}
		firedEvent, err = u.firedEventsService.RecordFiredEvent(txCtx, episodeID, eventID, source, cardsAffected, triggerData)
		if err != nil {
			return fmt.Errorf("failed to record fired event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.broadcaster.BroadcastToEpisode(episodeID, models.BroadcastMessage{
		Type: models.MessageTypeEventFired,
		Payload: models.EventFiredPayload{
			EpisodeID:     episodeID,
			EventID:       eventID,
			EventName:     updatedEvent.Name,
			TriggeredBy:   string(source),
			CardsAffected: cardsAffected,
			SourceInfo:    triggerData,
		},
	})
	for _, card := range changedCards {
		u.broadcaster.SendToUser(card.HolderID, models.BroadcastMessage{
			Type: models.MessageTypeCardUpdated,
			Payload: models.CardUpdatedPayload{
				CardID:        card.ID,
				MarkedSquares: card.MarkedSquares,
				Patterns:      card.Patterns,
				Rarity:        models.RarityScore(card.Patterns, episode.GridSize),
				TriggeredBy:   string(source),
			},
		})
	}

	log.Printf("📋 Completed successfully - fired event %s, %d of %d cards affected", eventID, cardsAffected, len(cards))
	return &FireResult{
		Event:         updatedEvent,
		FiredEvent:    firedEvent,
		CardsAffected: cardsAffected,
		Outcomes:      outcomes,
	}, nil
}

// ManualFire fires an event on behalf of a dashboard operator.
func (u *BingoUseCase) ManualFire(ctx context.Context, episodeID, eventID, operatorID string) (*FireResult, error) {
	log.Printf("📋 Starting manual fire of event %s by operator %s", eventID, operatorID)
	return u.FireEvent(ctx, episodeID, eventID, models.FiringSourceManual, models.TriggerData{
		"operator_id": operatorID,
	})
}
