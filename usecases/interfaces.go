package usecases

import (
	"context"

	"streambingo/models"
	"streambingo/usecases/bingo"
)

// BingoUseCaseInterface defines the interface for bingo firing operations
type BingoUseCaseInterface interface {
	FireEvent(
		ctx context.Context,
		episodeID, eventID string,
		source models.FiringSource,
		triggerData models.TriggerData,
	) (*bingo.FireResult, error)
	ManualFire(ctx context.Context, episodeID, eventID, operatorID string) (*bingo.FireResult, error)
	ProcessChatMessage(ctx context.Context, episodeID, username, message string) error
	ProcessEventSubNotification(
		ctx context.Context,
		subscriptionID, eventType string,
		event map[string]any,
	) error
}
