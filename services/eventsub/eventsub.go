package eventsub

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"streambingo/clients"
	"streambingo/core"
	"streambingo/models"
)

// replayWindow bounds how far an inbound message's timestamp may drift from
// the local clock before the message is rejected as a possible replay.
const replayWindow = 10 * time.Minute

type EventSubService struct {
	store        SubscriptionStore
	twitchClient clients.TwitchClient
	callbackURL  string
}

func NewEventSubService(
	store SubscriptionStore,
	twitchClient clients.TwitchClient,
	callbackURL string,
) *EventSubService {
	return &EventSubService{
		store:        store,
		twitchClient: twitchClient,
		callbackURL:  callbackURL,
	}
}

// Verify authenticates an inbound EventSub message. The signature is
// HMAC-SHA256 over messageID + timestamp + rawBody, hex-encoded with a
// "sha256=" prefix. Comparison is constant-time; a length mismatch is just a
// failed verification, never an error. With zero stored secrets every message
// fails closed. Pure validation: no side effects.
func (s *EventSubService) Verify(
	messageID, timestamp string,
	body []byte,
	signature string,
	subscriptionID mo.Option[string],
) bool {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		log.Printf("❌ Webhook verification failed: unparseable timestamp %q", timestamp)
		return false
	}

	drift := time.Since(ts)
	if drift < 0 {
		drift = -drift
	}
	if drift > replayWindow {
		log.Printf("❌ Webhook verification failed: timestamp outside replay window (%s)", drift)
		return false
	}

	var secrets []string
	if subID, ok := subscriptionID.Get(); ok {
		subscription, found := s.store.Get(subID)
		if !found {
			log.Printf("❌ Webhook verification failed: unknown subscription %s", subID)
			return false
		}
		secrets = []string{subscription.Secret}
	} else {
		for _, subscription := range s.store.All() {
			secrets = append(secrets, subscription.Secret)
		}
	}

	if len(secrets) == 0 {
		log.Printf("❌ Webhook verification failed: no subscription secrets stored")
		return false
	}

	payload := messageID + timestamp + string(body)
	for _, secret := range secrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(payload))
		expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return true
		}
	}

	return false
}

func (s *EventSubService) CreateSubscription(
	ctx context.Context,
	episodeID, broadcasterID, eventType string,
) (*models.EventSubSubscription, error) {
	log.Printf("📋 Starting to create EventSub subscription for episode %s, type %s", episodeID, eventType)

	if !core.IsValidULID(episodeID) {
		return nil, fmt.Errorf("episode_id must be a valid ULID")
	}
	if broadcasterID == "" {
		return nil, fmt.Errorf("broadcaster_id cannot be empty")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event_type cannot be empty")
	}

	secret, err := core.NewSecretKey("whsec")
	if err != nil {
		return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
	}

	subscriptionID, err := s.twitchClient.CreateEventSubSubscription(ctx, broadcasterID, eventType, s.callbackURL, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create EventSub subscription: %w", err)
	}

	subscription := &models.EventSubSubscription{
		ID:            subscriptionID,
		EpisodeID:     episodeID,
		BroadcasterID: broadcasterID,
		EventType:     eventType,
		Secret:        secret,
		CreatedAt:     time.Now(),
	}
	s.store.Put(subscription)

	log.Printf("📋 Completed successfully - created EventSub subscription %s", subscriptionID)
	return subscription, nil
}

// ResolveBroadcasterID turns a channel login name into the numeric Helix user
// ID that EventSub conditions require.
func (s *EventSubService) ResolveBroadcasterID(ctx context.Context, login string) (string, error) {
	log.Printf("📋 Starting to resolve broadcaster login: %s", login)
	if login == "" {
		return "", fmt.Errorf("broadcaster login cannot be empty")
	}

	userInfo, err := s.twitchClient.GetUserInfo(ctx, login)
	if err != nil {
		return "", fmt.Errorf("failed to resolve broadcaster login: %w", err)
	}

	log.Printf("📋 Completed successfully - resolved %s to broadcaster ID %s", login, userInfo.ID)
	return userInfo.ID, nil
}

func (s *EventSubService) ListSubscriptions(ctx context.Context) ([]*models.EventSubSubscription, error) {
	log.Printf("📋 Starting to list EventSub subscriptions")
	subscriptions := s.store.All()
	log.Printf("📋 Completed successfully - %d subscriptions stored", len(subscriptions))
	return subscriptions, nil
}

func (s *EventSubService) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	log.Printf("📋 Starting to delete EventSub subscription: %s", subscriptionID)
	if subscriptionID == "" {
		return fmt.Errorf("subscription_id cannot be empty")
	}

	if err := s.twitchClient.DeleteEventSubSubscription(ctx, subscriptionID); err != nil {
		return fmt.Errorf("failed to delete EventSub subscription: %w", err)
	}
	s.store.Delete(subscriptionID)

	log.Printf("📋 Completed successfully - deleted EventSub subscription %s", subscriptionID)
	return nil
}

func (s *EventSubService) GetSubscriptionByID(subscriptionID string) mo.Option[*models.EventSubSubscription] {
	subscription, ok := s.store.Get(subscriptionID)
	if !ok {
		return mo.None[*models.EventSubSubscription]()
	}
	return mo.Some(subscription)
}

// DropSubscriptionSecret removes a revoked subscription from the store
// without calling Twitch; used when Twitch itself revokes the subscription.
func (s *EventSubService) DropSubscriptionSecret(subscriptionID string) {
	log.Printf("🔒 Dropping secret for revoked subscription %s", subscriptionID)
	s.store.Delete(subscriptionID)
}

// ReconcileSubscriptions drops stored secrets whose subscription no longer
// exists on Twitch's side, so webhooks for dead subscriptions stop verifying.
// Twitch silently disables subscriptions whose callback keeps failing, which
// would otherwise leave a stale secret in the store forever.
func (s *EventSubService) ReconcileSubscriptions(ctx context.Context) error {
	remote, err := s.twitchClient.ListEventSubSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remote subscriptions: %w", err)
	}

	alive := make(map[string]bool, len(remote))
	for _, subscription := range remote {
		if subscription.Status == "enabled" || subscription.Status == "webhook_callback_verification_pending" {
			alive[subscription.ID] = true
		}
	}

	for _, subscription := range s.store.All() {
		if !alive[subscription.ID] {
			log.Printf("🔒 Subscription %s no longer active on Twitch, dropping secret", subscription.ID)
			s.store.Delete(subscription.ID)
		}
	}
	return nil
}
