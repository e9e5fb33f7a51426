package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"streambingo/appctx"
	"streambingo/core"
	"streambingo/middleware"
	"streambingo/models"
	"streambingo/services"
	"streambingo/usecases"
)

// DashboardHandler serves the streamer dashboard API. Every endpoint sits
// behind Clerk authentication; episode ownership is enforced per request.
type DashboardHandler struct {
	episodesService     services.EpisodesService
	eventsService       services.EventsService
	cardsService        services.CardsService
	chatTriggersService services.ChatTriggersService
	firedEventsService  services.FiredEventsService
	eventSubService     services.EventSubService
	bingoUseCase        usecases.BingoUseCaseInterface
}

func NewDashboardHandler(
	episodesService services.EpisodesService,
	eventsService services.EventsService,
	cardsService services.CardsService,
	chatTriggersService services.ChatTriggersService,
	firedEventsService services.FiredEventsService,
	eventSubService services.EventSubService,
	bingoUseCase usecases.BingoUseCaseInterface,
) *DashboardHandler {
	return &DashboardHandler{
		episodesService:     episodesService,
		eventsService:       eventsService,
		cardsService:        cardsService,
		chatTriggersService: chatTriggersService,
		firedEventsService:  firedEventsService,
		eventSubService:     eventSubService,
		bingoUseCase:        bingoUseCase,
	}
}

type CreateEpisodeRequest struct {
	Title    string `json:"title"`
	GridSize int    `json:"grid_size"`
}

type UpdateEpisodeStatusRequest struct {
	Status string `json:"status"`
}

type CreateEventDefinitionRequest struct {
	Name            string  `json:"name"`
	Icon            string  `json:"icon"`
	TriggerType     string  `json:"trigger_type"`
	WebhookCategory *string `json:"webhook_category,omitempty"`
}

type CreateChatTriggerRequest struct {
	EventID         string `json:"event_id"`
	Keyword         string `json:"keyword"`
	MatchType       string `json:"match_type"`
	CaseSensitive   bool   `json:"case_sensitive"`
	CooldownSeconds int    `json:"cooldown_seconds"`
}

type SetTriggerActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type MintCardRequest struct {
	HolderID string `json:"holder_id"`
}

// CreateSubscriptionRequest identifies the channel either by numeric
// broadcaster ID or by login name; the login is resolved through Helix.
type CreateSubscriptionRequest struct {
	BroadcasterID    string `json:"broadcaster_id,omitempty"`
	BroadcasterLogin string `json:"broadcaster_login,omitempty"`
	EventType        string `json:"event_type"`
}

type FireEventResponse struct {
	FiredCount    int `json:"fired_count"`
	CardsAffected int `json:"cards_affected"`
}

func (h *DashboardHandler) HandleUserAuthenticate(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 User authentication request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, user)
}

func (h *DashboardHandler) HandleCreateEpisode(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Create episode request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	episode, err := h.episodesService.CreateEpisode(r.Context(), user.ID, req.Title, req.GridSize)
	if err != nil {
		log.Printf("❌ Failed to create episode: %v", err)
		http.Error(w, "failed to create episode", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, episode)
}

func (h *DashboardHandler) HandleListEpisodes(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	episodes, err := h.episodesService.GetEpisodesByStreamerID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to list episodes: %v", err)
		http.Error(w, "failed to list episodes", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, episodes)
}

func (h *DashboardHandler) HandleGetLiveEpisode(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	maybeEpisode, err := h.episodesService.GetLiveEpisodeByStreamerID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get live episode: %v", err)
		http.Error(w, "failed to get live episode", http.StatusInternalServerError)
		return
	}
	if !maybeEpisode.IsPresent() {
		http.Error(w, "no live episode", http.StatusNotFound)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, maybeEpisode.MustGet())
}

func (h *DashboardHandler) HandleGetEpisode(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, episode)
}

func (h *DashboardHandler) HandleUpdateEpisodeStatus(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	var req UpdateEpisodeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if err := h.episodesService.UpdateEpisodeStatus(r.Context(), episode.ID, models.EpisodeStatus(req.Status)); err != nil {
		log.Printf("❌ Failed to update episode status: %v", err)
		http.Error(w, "failed to update episode status", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *DashboardHandler) HandleCreateEventDefinition(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	var req CreateEventDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	event, err := h.eventsService.CreateEventDefinition(
		r.Context(),
		episode.ID,
		req.Name,
		req.Icon,
		models.TriggerType(req.TriggerType),
		req.WebhookCategory,
	)
	if err != nil {
		log.Printf("❌ Failed to create event definition: %v", err)
		http.Error(w, "failed to create event definition", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, event)
}

func (h *DashboardHandler) HandleListEventDefinitions(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	events, err := h.eventsService.GetEventDefinitionsByEpisodeID(r.Context(), episode.ID)
	if err != nil {
		log.Printf("❌ Failed to list event definitions: %v", err)
		http.Error(w, "failed to list event definitions", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, events)
}

// HandleFireEvent fires an event manually from the dashboard.
func (h *DashboardHandler) HandleFireEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	eventID := mux.Vars(r)["id"]
	maybeEvent, err := h.eventsService.GetEventDefinitionByID(r.Context(), eventID)
	if err != nil {
		log.Printf("❌ Failed to get event definition: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !maybeEvent.IsPresent() {
		http.Error(w, "event definition not found", http.StatusNotFound)
		return
	}
	event := maybeEvent.MustGet()

	if !h.userOwnsEpisode(w, r, user.ID, event.EpisodeID) {
		return
	}

	result, err := h.bingoUseCase.ManualFire(r.Context(), event.EpisodeID, event.ID, user.ID)
	if err != nil {
		log.Printf("❌ Failed to fire event %s: %v", event.ID, err)
		http.Error(w, "failed to fire event", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, FireEventResponse{
		FiredCount:    result.Event.FiredCount,
		CardsAffected: result.CardsAffected,
	})
}

func (h *DashboardHandler) HandleCreateChatTrigger(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	var req CreateChatTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	trigger, err := h.chatTriggersService.CreateChatTrigger(
		r.Context(),
		episode.ID,
		req.EventID,
		req.Keyword,
		models.MatchType(req.MatchType),
		req.CaseSensitive,
		req.CooldownSeconds,
	)
	if err != nil {
		log.Printf("❌ Failed to create chat trigger: %v", err)
		http.Error(w, "failed to create chat trigger", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, trigger)
}

func (h *DashboardHandler) HandleListChatTriggers(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	triggers, err := h.chatTriggersService.GetActiveChatTriggersByEpisodeID(r.Context(), episode.ID)
	if err != nil {
		log.Printf("❌ Failed to list chat triggers: %v", err)
		http.Error(w, "failed to list chat triggers", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, triggers)
}

func (h *DashboardHandler) HandleSetChatTriggerActive(w http.ResponseWriter, r *http.Request) {
	var req SetTriggerActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	triggerID := mux.Vars(r)["id"]
	if err := h.chatTriggersService.SetChatTriggerActive(r.Context(), triggerID, req.IsActive); err != nil {
		log.Printf("❌ Failed to update chat trigger %s: %v", triggerID, err)
		if core.IsNotFoundError(err) {
			http.Error(w, "chat trigger not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update chat trigger", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *DashboardHandler) HandleDeleteChatTrigger(w http.ResponseWriter, r *http.Request) {
	triggerID := mux.Vars(r)["id"]
	if err := h.chatTriggersService.DeleteChatTrigger(r.Context(), triggerID); err != nil {
		log.Printf("❌ Failed to delete chat trigger %s: %v", triggerID, err)
		if core.IsNotFoundError(err) {
			http.Error(w, "chat trigger not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete chat trigger", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *DashboardHandler) HandleMintCard(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	episodeID := mux.Vars(r)["id"]

	var req MintCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}
	holderID := req.HolderID
	if holderID == "" {
		holderID = user.ID
	}

	card, err := h.cardsService.MintCard(r.Context(), episodeID, holderID)
	if err != nil {
		log.Printf("❌ Failed to mint card: %v", err)
		http.Error(w, "failed to mint card", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, card)
}

func (h *DashboardHandler) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	maybeCard, err := h.cardsService.GetCardByID(r.Context(), cardID)
	if err != nil {
		log.Printf("❌ Failed to get card %s: %v", cardID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !maybeCard.IsPresent() {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, maybeCard.MustGet())
}

func (h *DashboardHandler) HandleListFiredEvents(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	limit := 50
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	firedEvents, err := h.firedEventsService.GetFiredEventsByEpisodeID(r.Context(), episode.ID, limit)
	if err != nil {
		log.Printf("❌ Failed to list fired events: %v", err)
		http.Error(w, "failed to list fired events", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, firedEvents)
}

func (h *DashboardHandler) HandleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.ownedEpisode(w, r)
	if !ok {
		return
	}

	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	broadcasterID := req.BroadcasterID
	if broadcasterID == "" && req.BroadcasterLogin != "" {
		resolved, err := h.eventSubService.ResolveBroadcasterID(r.Context(), req.BroadcasterLogin)
		if err != nil {
			log.Printf("❌ Failed to resolve broadcaster login %s: %v", req.BroadcasterLogin, err)
			http.Error(w, "failed to resolve broadcaster login", http.StatusBadRequest)
			return
		}
		broadcasterID = resolved
	}

	subscription, err := h.eventSubService.CreateSubscription(r.Context(), episode.ID, broadcasterID, req.EventType)
	if err != nil {
		log.Printf("❌ Failed to create EventSub subscription: %v", err)
		http.Error(w, "failed to create subscription", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, subscription)
}

func (h *DashboardHandler) HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.eventSubService.ListSubscriptions(r.Context())
	if err != nil {
		log.Printf("❌ Failed to list EventSub subscriptions: %v", err)
		http.Error(w, "failed to list subscriptions", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, subscriptions)
}

func (h *DashboardHandler) HandleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID := mux.Vars(r)["id"]
	if err := h.eventSubService.DeleteSubscription(r.Context(), subscriptionID); err != nil {
		log.Printf("❌ Failed to delete EventSub subscription %s: %v", subscriptionID, err)
		http.Error(w, "failed to delete subscription", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *DashboardHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering dashboard API endpoints")

	router.HandleFunc("/users/authenticate", authMiddleware.WithAuth(h.HandleUserAuthenticate)).Methods("POST")

	router.HandleFunc("/episodes", authMiddleware.WithAuth(h.HandleCreateEpisode)).Methods("POST")
	router.HandleFunc("/episodes", authMiddleware.WithAuth(h.HandleListEpisodes)).Methods("GET")
	router.HandleFunc("/episodes/live", authMiddleware.WithAuth(h.HandleGetLiveEpisode)).Methods("GET")
	router.HandleFunc("/episodes/{id}", authMiddleware.WithAuth(h.HandleGetEpisode)).Methods("GET")
	router.HandleFunc("/episodes/{id}/status", authMiddleware.WithAuth(h.HandleUpdateEpisodeStatus)).Methods("PUT")

	router.HandleFunc("/episodes/{id}/events", authMiddleware.WithAuth(h.HandleCreateEventDefinition)).Methods("POST")
	router.HandleFunc("/episodes/{id}/events", authMiddleware.WithAuth(h.HandleListEventDefinitions)).Methods("GET")
	router.HandleFunc("/events/{id}/fire", authMiddleware.WithAuth(h.HandleFireEvent)).Methods("POST")

	router.HandleFunc("/episodes/{id}/triggers", authMiddleware.WithAuth(h.HandleCreateChatTrigger)).Methods("POST")
	router.HandleFunc("/episodes/{id}/triggers", authMiddleware.WithAuth(h.HandleListChatTriggers)).Methods("GET")
	router.HandleFunc("/triggers/{id}/active", authMiddleware.WithAuth(h.HandleSetChatTriggerActive)).Methods("PUT")
	router.HandleFunc("/triggers/{id}", authMiddleware.WithAuth(h.HandleDeleteChatTrigger)).Methods("DELETE")

	router.HandleFunc("/episodes/{id}/cards", authMiddleware.WithAuth(h.HandleMintCard)).Methods("POST")
	router.HandleFunc("/cards/{id}", authMiddleware.WithAuth(h.HandleGetCard)).Methods("GET")

	router.HandleFunc("/episodes/{id}/fired-events", authMiddleware.WithAuth(h.HandleListFiredEvents)).Methods("GET")

	router.HandleFunc("/episodes/{id}/subscriptions", authMiddleware.WithAuth(h.HandleCreateSubscription)).Methods("POST")
	router.HandleFunc("/subscriptions", authMiddleware.WithAuth(h.HandleListSubscriptions)).Methods("GET")
	router.HandleFunc("/subscriptions/{id}", authMiddleware.WithAuth(h.HandleDeleteSubscription)).Methods("DELETE")

	log.Printf("✅ All dashboard API endpoints registered successfully")
}

// ownedEpisode loads the episode from the {id} path var and verifies the
// authenticated user owns it. Error responses are written here.
func (h *DashboardHandler) ownedEpisode(w http.ResponseWriter, r *http.Request) (*models.Episode, bool) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}

	episodeID := mux.Vars(r)["id"]
	maybeEpisode, err := h.episodesService.GetEpisodeByID(r.Context(), episodeID)
	if err != nil {
		log.Printf("❌ Failed to get episode %s: %v", episodeID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if !maybeEpisode.IsPresent() {
		http.Error(w, "episode not found", http.StatusNotFound)
		return nil, false
	}
	episode := maybeEpisode.MustGet()
	if episode.StreamerID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}

	return episode, true
}

func (h *DashboardHandler) userOwnsEpisode(w http.ResponseWriter, r *http.Request, userID, episodeID string) bool {
	maybeEpisode, err := h.episodesService.GetEpisodeByID(r.Context(), episodeID)
	if err != nil {
		log.Printf("❌ Failed to get episode %s: %v", episodeID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return false
	}
	if !maybeEpisode.IsPresent() {
		http.Error(w, "episode not found", http.StatusNotFound)
		return false
	}
	if maybeEpisode.MustGet().StreamerID != userID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (h *DashboardHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
