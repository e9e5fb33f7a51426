package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/samber/mo"

	"streambingo/services"
	"streambingo/usecases"
)

// Twitch EventSub webhook headers.
const (
	headerMessageID        = "Twitch-Eventsub-Message-Id"
	headerMessageTimestamp = "Twitch-Eventsub-Message-Timestamp"
	headerMessageSignature = "Twitch-Eventsub-Message-Signature"
	headerMessageType      = "Twitch-Eventsub-Message-Type"
)

const (
	messageTypeVerification = "webhook_callback_verification"
	messageTypeNotification = "notification"
	messageTypeRevocation   = "revocation"
)

type TwitchEventsHandler struct {
	eventSubService services.EventSubService
	bingoUseCase    usecases.BingoUseCaseInterface
}

func NewTwitchEventsHandler(
	eventSubService services.EventSubService,
	bingoUseCase usecases.BingoUseCaseInterface,
) *TwitchEventsHandler {
	return &TwitchEventsHandler{
		eventSubService: eventSubService,
		bingoUseCase:    bingoUseCase,
	}
}

type eventSubEnvelope struct {
	Subscription struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"subscription"`
	Challenge string         `json:"challenge"`
	Event     map[string]any `json:"event"`
}

// HandleTwitchEvent processes EventSub callbacks. Every request is
// authenticated against the stored subscription secret before any parsing of
// intent; an unverifiable request gets a 401 and nothing else.
func (h *TwitchEventsHandler) HandleTwitchEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Twitch EventSub callback received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var envelope eventSubEnvelope
	subscriptionID := mo.None[string]()
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Subscription.ID != "" {
		subscriptionID = mo.Some(envelope.Subscription.ID)
	}

	messageID := r.Header.Get(headerMessageID)
	timestamp := r.Header.Get(headerMessageTimestamp)
	signature := r.Header.Get(headerMessageSignature)
	if !h.eventSubService.Verify(messageID, timestamp, bodyBytes, signature, subscriptionID) {
		log.Printf("❌ EventSub signature verification failed for message %s", messageID)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	log.Printf("✅ EventSub signature verified for message %s", messageID)

	switch r.Header.Get(headerMessageType) {
	case messageTypeVerification:
		log.Printf("🔐 EventSub callback verification challenge received")
		if envelope.Challenge == "" {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(envelope.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}

	case messageTypeNotification:
		// Once the signature checks out the message is acknowledged no matter
		// what: repeated non-2xx responses make Twitch disable the
		// subscription, so processing failures are logged and swallowed.
		if err := h.bingoUseCase.ProcessEventSubNotification(
			r.Context(),
			envelope.Subscription.ID,
			envelope.Subscription.Type,
			envelope.Event,
		); err != nil {
			log.Printf("❌ Failed to process EventSub notification: %v", err)
		}
		w.WriteHeader(http.StatusOK)

	case messageTypeRevocation:
		log.Printf("🗑️ EventSub subscription %s revoked by Twitch", envelope.Subscription.ID)
		h.eventSubService.DropSubscriptionSecret(envelope.Subscription.ID)
		w.WriteHeader(http.StatusOK)

	default:
		log.Printf("⚠️ Unknown EventSub message type: %s", r.Header.Get(headerMessageType))
		w.WriteHeader(http.StatusOK)
	}
}
