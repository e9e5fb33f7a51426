package clients

import (
	"context"
)

// Broadcaster defines the fan-out surface the engine pushes deltas through.
// Delivery is fire-and-forget: a slow or disconnected subscriber never blocks
// or fails the triggering request.
type Broadcaster interface {
	BroadcastToEpisode(episodeID string, msg any)
	SendToUser(userID string, msg any)
}

// TwitchSubscription is Twitch's view of one EventSub subscription.
type TwitchSubscription struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// TwitchUserInfo is the subset of a Helix user record consumed here.
type TwitchUserInfo struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// TwitchClient defines the platform-integration collaborator: subscription
// lifecycle calls and the app-token fetch backing them.
type TwitchClient interface {
	GetAppAccessToken(ctx context.Context) (string, error)
	CreateEventSubSubscription(ctx context.Context, broadcasterID, eventType, callbackURL, secret string) (string, error)
	ListEventSubSubscriptions(ctx context.Context) ([]TwitchSubscription, error)
	DeleteEventSubSubscription(ctx context.Context, subscriptionID string) error
	GetUserInfo(ctx context.Context, login string) (*TwitchUserInfo, error)
}
