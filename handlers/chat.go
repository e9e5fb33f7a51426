package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"streambingo/services"
	"streambingo/usecases"
)

const headerChatSecret = "X-Bingo-Chat-Secret"

// ChatHandler ingests chat lines relayed by the chat-bridge process. The
// bridge authenticates with the episode's chat secret; the secret never
// rotates for the life of the episode.
type ChatHandler struct {
	episodesService services.EpisodesService
	bingoUseCase    usecases.BingoUseCaseInterface
}

func NewChatHandler(
	episodesService services.EpisodesService,
	bingoUseCase usecases.BingoUseCaseInterface,
) *ChatHandler {
	return &ChatHandler{
		episodesService: episodesService,
		bingoUseCase:    bingoUseCase,
	}
}

type chatMessageRequest struct {
	EpisodeID string `json:"episode_id"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Secret    string `json:"secret"`
}

func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Chat message received from %s", r.RemoteAddr)

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse chat message body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}
	if req.EpisodeID == "" || req.Message == "" {
		http.Error(w, "episode_id and message are required", http.StatusBadRequest)
		return
	}

	maybeEpisode, err := h.episodesService.GetEpisodeByID(r.Context(), req.EpisodeID)
	if err != nil {
		log.Printf("❌ Failed to get episode %s: %v", req.EpisodeID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !maybeEpisode.IsPresent() {
		// Same response as a bad secret so episode IDs cannot be probed.
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	episode := maybeEpisode.MustGet()

	secret := req.Secret
	if secret == "" {
		secret = r.Header.Get(headerChatSecret)
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(episode.ChatSecret)) != 1 {
		log.Printf("❌ Chat secret mismatch for episode %s", req.EpisodeID)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Past authentication the ingest is best effort: a processing failure is
	// logged and the line acknowledged, so the bridge never retries it.
	if err := h.bingoUseCase.ProcessChatMessage(r.Context(), req.EpisodeID, req.Username, req.Message); err != nil {
		log.Printf("❌ Failed to process chat message: %v", err)
	}

	w.WriteHeader(http.StatusOK)
}
