package eventsub

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"streambingo/clients"
	"streambingo/clients/twitch"
	"streambingo/core"
	"streambingo/models"
)

func signMessage(secret, messageID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(messageID + timestamp + string(body)))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func setupVerifyFixture(t *testing.T) (*EventSubService, *models.EventSubSubscription) {
	t.Helper()
	store := NewMemorySubscriptionStore()
	service := NewEventSubService(store, &twitch.MockTwitchClient{}, "https://bingo.example.com/webhooks/twitch")

	subscription := &models.EventSubSubscription{
		ID:            "sub-123",
		EpisodeID:     core.NewID("ep"),
		BroadcasterID: "44322889",
		EventType:     "channel.follow",
		Secret:        "whsec_testsecretvalue",
		CreatedAt:     time.Now(),
	}
	store.Put(subscription)
	return service, subscription
}

func TestVerify(t *testing.T) {
	body := []byte(`{"subscription":{"id":"sub-123"},"event":{}}`)

	t.Run("AcceptsValidSignature", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Format(time.RFC3339)
		signature := signMessage(sub.Secret, "msg-1", timestamp, body)

		assert.True(t, service.Verify("msg-1", timestamp, body, signature, mo.Some(sub.ID)))
	})

	t.Run("AcceptsValidSignatureWithoutSubscriptionID", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Format(time.RFC3339)
		signature := signMessage(sub.Secret, "msg-1", timestamp, body)

		assert.True(t, service.Verify("msg-1", timestamp, body, signature, mo.None[string]()))
	})

	t.Run("RejectsTimestampOutsideReplayWindow", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Add(-11 * time.Minute).Format(time.RFC3339)
		signature := signMessage(sub.Secret, "msg-1", timestamp, body)

		assert.False(t, service.Verify("msg-1", timestamp, body, signature, mo.Some(sub.ID)))
	})

	t.Run("RejectsUnparseableTimestamp", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		signature := signMessage(sub.Secret, "msg-1", "not-a-timestamp", body)

		assert.False(t, service.Verify("msg-1", "not-a-timestamp", body, signature, mo.Some(sub.ID)))
	})

	t.Run("RejectsLengthMismatchWithoutPanicking", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Format(time.RFC3339)

		assert.False(t, service.Verify("msg-1", timestamp, body, "sha256=tooshort", mo.Some(sub.ID)))
		assert.False(t, service.Verify("msg-1", timestamp, body, "", mo.Some(sub.ID)))
	})

	t.Run("RejectsTamperedBody", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Format(time.RFC3339)
		signature := signMessage(sub.Secret, "msg-1", timestamp, body)

		tampered := []byte(`{"subscription":{"id":"sub-123"},"event":{"evil":true}}`)
		assert.False(t, service.Verify("msg-1", timestamp, tampered, signature, mo.Some(sub.ID)))
	})

	t.Run("FailsClosedWithNoStoredSecrets", func(t *testing.T) {
		store := NewMemorySubscriptionStore()
		service := NewEventSubService(store, &twitch.MockTwitchClient{}, "https://bingo.example.com/webhooks/twitch")
		timestamp := time.Now().UTC().Format(time.RFC3339)
		signature := signMessage("whsec_testsecretvalue", "msg-1", timestamp, body)

		assert.False(t, service.Verify("msg-1", timestamp, body, signature, mo.None[string]()))
	})

	t.Run("RejectsUnknownSubscriptionID", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		timestamp := time.Now().UTC().Format(time.RFC3339)
		signature := signMessage(sub.Secret, "msg-1", timestamp, body)

		assert.False(t, service.Verify("msg-1", timestamp, body, signature, mo.Some("sub-other")))
	})
}

func TestSubscriptionLifecycle(t *testing.T) {
	t.Run("CreateStoresSecretUnderTwitchID", func(t *testing.T) {
		store := NewMemorySubscriptionStore()
		mockTwitch := &twitch.MockTwitchClient{}
		service := NewEventSubService(store, mockTwitch, "https://bingo.example.com/webhooks/twitch")

		episodeID := core.NewID("ep")
		mockTwitch.On(
			"CreateEventSubSubscription",
			mock.Anything, "44322889", "channel.cheer", "https://bingo.example.com/webhooks/twitch", mock.AnythingOfType("string"),
		).Return("sub-remote-1", nil)

		subscription, err := service.CreateSubscription(context.Background(), episodeID, "44322889", "channel.cheer")
		require.NoError(t, err)
		assert.Equal(t, "sub-remote-1", subscription.ID)
		assert.NotEmpty(t, subscription.Secret)

		stored := service.GetSubscriptionByID("sub-remote-1")
		require.True(t, stored.IsPresent())
		assert.Equal(t, episodeID, stored.MustGet().EpisodeID)
		mockTwitch.AssertExpectations(t)
	})

	t.Run("CreateFailsWhenTwitchRejects", func(t *testing.T) {
		store := NewMemorySubscriptionStore()
		mockTwitch := &twitch.MockTwitchClient{}
		service := NewEventSubService(store, mockTwitch, "https://bingo.example.com/webhooks/twitch")

		mockTwitch.On("CreateEventSubSubscription", mock.Anything, "44322889", "channel.cheer", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("Twitch API error: status 400"))

		_, err := service.CreateSubscription(context.Background(), core.NewID("ep"), "44322889", "channel.cheer")
		require.Error(t, err)
		assert.Empty(t, store.All())
	})

	t.Run("DeleteRemovesSecret", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		mockTwitch := service.twitchClient.(*twitch.MockTwitchClient)
		mockTwitch.On("DeleteEventSubSubscription", mock.Anything, sub.ID).Return(nil)

		require.NoError(t, service.DeleteSubscription(context.Background(), sub.ID))
		assert.False(t, service.GetSubscriptionByID(sub.ID).IsPresent())
		mockTwitch.AssertExpectations(t)
	})

	t.Run("ResolveBroadcasterIDLooksUpLogin", func(t *testing.T) {
		service, _ := setupVerifyFixture(t)
		mockTwitch := service.twitchClient.(*twitch.MockTwitchClient)
		mockTwitch.On("GetUserInfo", mock.Anything, "somestreamer").
			Return(&clients.TwitchUserInfo{ID: "44322889", Login: "somestreamer"}, nil)

		broadcasterID, err := service.ResolveBroadcasterID(context.Background(), "somestreamer")
		require.NoError(t, err)
		assert.Equal(t, "44322889", broadcasterID)
	})

	t.Run("ResolveBroadcasterIDRejectsEmptyLogin", func(t *testing.T) {
		service, _ := setupVerifyFixture(t)
		_, err := service.ResolveBroadcasterID(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("DropSubscriptionSecretSkipsTwitch", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		service.DropSubscriptionSecret(sub.ID)
		assert.False(t, service.GetSubscriptionByID(sub.ID).IsPresent())
	})

	t.Run("ReconcileDropsDeadSubscriptions", func(t *testing.T) {
		service, sub := setupVerifyFixture(t)
		mockTwitch := service.twitchClient.(*twitch.MockTwitchClient)
		mockTwitch.On("ListEventSubSubscriptions", mock.Anything).Return([]clients.TwitchSubscription{
			{ID: "sub-other", Status: "enabled"},
		}, nil)

		require.NoError(t, service.ReconcileSubscriptions(context.Background()))
		assert.False(t, service.GetSubscriptionByID(sub.ID).IsPresent())
	})
}

func TestMapNotification(t *testing.T) {
	service, _ := setupVerifyFixture(t)

	t.Run("MapsKnownTypes", func(t *testing.T) {
		event := service.MapNotification("channel.follow", map[string]any{
			"user_name":           "viewer1",
			"broadcaster_user_id": "44322889",
		})
		assert.Equal(t, models.WebhookCategoryFollow, event.Category)
		assert.Equal(t, 1, event.Amount)
		assert.Equal(t, "viewer1", event.Username)
		assert.Equal(t, "44322889", event.BroadcasterID)
	})

	t.Run("ExtractsBitsForCheer", func(t *testing.T) {
		event := service.MapNotification("channel.cheer", map[string]any{"bits": float64(500)})
		assert.Equal(t, models.WebhookCategoryCheer, event.Category)
		assert.Equal(t, 500, event.Amount)
	})

	t.Run("ExtractsViewersForRaid", func(t *testing.T) {
		event := service.MapNotification("channel.raid", map[string]any{
			"viewers":                    float64(42),
			"from_broadcaster_user_name": "raider",
			"to_broadcaster_user_id":     "44322889",
		})
		assert.Equal(t, models.WebhookCategoryRaid, event.Category)
		assert.Equal(t, 42, event.Amount)
		assert.Equal(t, "raider", event.Username)
		assert.Equal(t, "44322889", event.BroadcasterID)
	})

	t.Run("MissingAmountDefaultsToOne", func(t *testing.T) {
		event := service.MapNotification("channel.cheer", map[string]any{})
		assert.Equal(t, 1, event.Amount)
	})

	t.Run("UnmappedTypeResolvesToUnknown", func(t *testing.T) {
		event := service.MapNotification("channel.ban", map[string]any{})
		assert.Equal(t, models.WebhookCategoryUnknown, event.Category)
		assert.Equal(t, 1, event.Amount)
	})
}
