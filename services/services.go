package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"streambingo/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error)
}

// EpisodesService defines the interface for episode-related operations
type EpisodesService interface {
	CreateEpisode(ctx context.Context, streamerID, title string, gridSize int) (*models.Episode, error)
	GetEpisodeByID(ctx context.Context, id string) (mo.Option[*models.Episode], error)
	GetEpisodesByStreamerID(ctx context.Context, streamerID string) ([]*models.Episode, error)
	GetLiveEpisodeByStreamerID(ctx context.Context, streamerID string) (mo.Option[*models.Episode], error)
	UpdateEpisodeStatus(ctx context.Context, id string, status models.EpisodeStatus) error
}

// EventsService defines the interface for event definition operations
type EventsService interface {
	CreateEventDefinition(
		ctx context.Context,
		episodeID, name, icon string,
		triggerType models.TriggerType,
		webhookCategory *string,
	) (*models.EventDefinition, error)
	GetEventDefinitionByID(ctx context.Context, id string) (mo.Option[*models.EventDefinition], error)
	GetEventDefinitionsByEpisodeID(ctx context.Context, episodeID string) ([]*models.EventDefinition, error)
	GetWebhookEventDefinitions(ctx context.Context, episodeID, webhookCategory string) ([]*models.EventDefinition, error)
	RecordFiring(ctx context.Context, id string) (*models.EventDefinition, error)
}

// CardsService defines the interface for card-related operations
type CardsService interface {
	MintCard(ctx context.Context, episodeID, holderID string) (*models.Card, error)
	GetCardByID(ctx context.Context, id string) (mo.Option[*models.Card], error)
	GetActiveCardsByEpisodeID(ctx context.Context, episodeID string) ([]*models.Card, error)
	UpdateCardState(
		ctx context.Context,
		id string,
		grid models.Grid,
		markedSquares int,
		patterns models.PatternList,
	) error
	UpdateCardStatus(ctx context.Context, id string, status models.CardStatus) error
}

// ChatTriggersService defines the interface for chat keyword trigger
// operations, including the matching pipeline.
type ChatTriggersService interface {
	CreateChatTrigger(
		ctx context.Context,
		episodeID, eventID, keyword string,
		matchType models.MatchType,
		caseSensitive bool,
		cooldownSeconds int,
	) (*models.ChatKeywordTrigger, error)
	GetActiveChatTriggersByEpisodeID(ctx context.Context, episodeID string) ([]*models.ChatKeywordTrigger, error)
	// MatchMessage returns the triggers activated by a chat message, stamping
	// each matched trigger's last_triggered_at. Cooled-down and non-matching
	// triggers are skipped silently.
	MatchMessage(ctx context.Context, episodeID, message string, now time.Time) ([]*models.ChatKeywordTrigger, error)
	SetChatTriggerActive(ctx context.Context, id string, isActive bool) error
	DeleteChatTrigger(ctx context.Context, id string) error
}

// FiredEventsService defines the interface for the append-only audit log
type FiredEventsService interface {
	RecordFiredEvent(
		ctx context.Context,
		episodeID, eventID string,
		source models.FiringSource,
		cardsAffected int,
		triggerData models.TriggerData,
	) (*models.FiredEvent, error)
	GetFiredEventsByEpisodeID(ctx context.Context, episodeID string, limit int) ([]*models.FiredEvent, error)
}

// EventSubService defines the interface for Twitch EventSub webhook
// verification and subscription lifecycle management.
type EventSubService interface {
	// Verify authenticates an inbound webhook. Pure validation: no side
	// effects, fails closed when no secrets are stored.
	Verify(messageID, timestamp string, body []byte, signature string, subscriptionID mo.Option[string]) bool
	CreateSubscription(ctx context.Context, episodeID, broadcasterID, eventType string) (*models.EventSubSubscription, error)
	ResolveBroadcasterID(ctx context.Context, login string) (string, error)
	ListSubscriptions(ctx context.Context) ([]*models.EventSubSubscription, error)
	DeleteSubscription(ctx context.Context, subscriptionID string) error
	GetSubscriptionByID(subscriptionID string) mo.Option[*models.EventSubSubscription]
	// DropSubscriptionSecret forgets a subscription locally without calling
	// Twitch. Used when Twitch itself revokes the subscription.
	DropSubscriptionSecret(subscriptionID string)
	// MapNotification reduces a raw EventSub notification to the category and
	// amount the trigger pipeline consumes. Unmapped types resolve to the
	// unknown category; they are never dropped here.
	MapNotification(eventType string, event map[string]any) models.TwitchEvent
}

// TransactionManager defines the interface for managing database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	BeginTransaction(ctx context.Context) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
}
