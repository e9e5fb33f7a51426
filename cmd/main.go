package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"streambingo/clients/socketio"
	twitchclient "streambingo/clients/twitch"
	"streambingo/config"
	"streambingo/db"
	"streambingo/handlers"
	"streambingo/middleware"
	"streambingo/services/cards"
	"streambingo/services/episodes"
	"streambingo/services/events"
	"streambingo/services/eventsub"
	"streambingo/services/firedevents"
	"streambingo/services/triggers"
	"streambingo/services/txmanager"
	"streambingo/services/users"
	"streambingo/usecases/bingo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "streambingo",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	episodesRepo := db.NewPostgresEpisodesRepository(dbConn, cfg.DatabaseSchema)
	eventsRepo := db.NewPostgresEventDefinitionsRepository(dbConn, cfg.DatabaseSchema)
	cardsRepo := db.NewPostgresCardsRepository(dbConn, cfg.DatabaseSchema)
	triggersRepo := db.NewPostgresChatTriggersRepository(dbConn, cfg.DatabaseSchema)
	firedEventsRepo := db.NewPostgresFiredEventsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	usersService := users.NewUsersService(usersRepo)
	episodesService := episodes.NewEpisodesService(episodesRepo)
	eventsService := events.NewEventsService(eventsRepo)
	cardsService := cards.NewCardsService(cardsRepo, episodesRepo, eventsRepo)
	chatTriggersService := triggers.NewChatTriggersService(triggersRepo)
	firedEventsService := firedevents.NewFiredEventsService(firedEventsRepo)

	twitch := twitchclient.NewTwitchClient(cfg.TwitchConfig.ClientID, cfg.TwitchConfig.ClientSecret)
	subscriptionStore := eventsub.NewMemorySubscriptionStore()
	eventSubService := eventsub.NewEventSubService(subscriptionStore, twitch, cfg.TwitchConfig.EventSubCallbackURL)

	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)

	// Viewer sockets authenticate with a Clerk session token
	tokenValidator := func(token string) (string, error) {
		user, err := authMiddleware.ValidateToken(context.Background(), token)
		if err != nil {
			return "", err
		}
		return user.ID, nil
	}
	broadcaster := socketio.NewSocketIOBroadcaster(tokenValidator)

	bingoUseCase := bingo.NewBingoUseCase(
		episodesService,
		eventsService,
		cardsService,
		chatTriggersService,
		firedEventsService,
		eventSubService,
		broadcaster,
		txManager,
	)

	twitchHandler := handlers.NewTwitchEventsHandler(eventSubService, bingoUseCase)
	chatHandler := handlers.NewChatHandler(episodesService, bingoUseCase)
	dashboardHandler := handlers.NewDashboardHandler(
		episodesService,
		eventsService,
		cardsService,
		chatTriggersService,
		firedEventsService,
		eventSubService,
		bingoUseCase,
	)

	// Create a new router
	router := mux.NewRouter()

	broadcaster.RegisterWithRouter(router)
	router.HandleFunc("/webhooks/twitch", twitchHandler.HandleTwitchEvent).Methods("POST")
	router.HandleFunc("/chat/message", chatHandler.HandleChatMessage).Methods("POST")

	apiRouter := router.PathPrefix("/api").Subrouter()
	dashboardHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Periodically drop secrets for subscriptions Twitch has disabled
	reconcileTicker := time.NewTicker(5 * time.Minute)
	go func() {
		for range reconcileTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("ReconcileSubscriptions", func() error {
				return eventSubService.ReconcileSubscriptions(context.Background())
			})()
		}
	}()
	defer reconcileTicker.Stop()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
