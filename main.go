package main

import (
	"log"
	"os"

	api "mailmate-backend/cmd/api"
	assistantRepo "mailmate-backend/internal/assistant/repository"
	assistantUsecase "mailmate-backend/internal/assistant/usecase"
	authdomain "mailmate-backend/internal/auth/domain"
	authRepo "mailmate-backend/internal/auth/repository"
	authUsecase "mailmate-backend/internal/auth/usecase"
	emailUsecase "mailmate-backend/internal/email/usecase"
	"mailmate-backend/pkg/ai"
	"mailmate-backend/pkg/config"
	"mailmate-backend/pkg/database"
	"mailmate-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)

	// Initialize Gmail provider
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize AI reply service
	aiService, err := ai.NewReplyService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		MistralAPIKey: cfg.MistralAPIKey,
		MistralModel:  cfg.MistralModel,
		MistralAPIURL: cfg.MistralAPIURL,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("[WARN] Failed to initialize AI service (reply drafts will use fallback): %v", err)
	} else {
		log.Printf("AI service initialized with provider: %s", cfg.AIProvider)
	}

	// Assistant state lives in memory per process
	conversationStore := assistantRepo.NewConversationStore()
	emailCache := assistantRepo.NewEmailCache()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(userRepo, gmailService, aiService, conversationStore)
	assistantUsecaseInstance := assistantUsecase.NewCommandProcessor(conversationStore, emailCache, emailUsecaseInstance)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, assistantUsecaseInstance, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
