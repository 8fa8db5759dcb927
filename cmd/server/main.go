package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"lifeai-server/internal/config"
	"lifeai-server/internal/database"
	httpdelivery "lifeai-server/internal/delivery/http"
	"lifeai-server/internal/game"
	"lifeai-server/internal/logger"
	"lifeai-server/internal/repository"
	"lifeai-server/internal/service"
	"lifeai-server/pkg/ai"
	"lifeai-server/pkg/airtable"
	"lifeai-server/pkg/tts"
)

func main() {
	// Best effort: the environment wins over .env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(pool, zapLogger); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	userRepo := repository.NewPgUserRepository(pool, zapLogger)
	chatRepo := repository.NewPgChatRepository(pool, zapLogger)
	messageRepo := repository.NewPgMessageRepository(pool, zapLogger)
	documentRepo := repository.NewPgDocumentRepository(pool, zapLogger)
	tokenRepo := repository.NewRedisTokenRepository(redisClient, zapLogger)

	openAIClient := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:         cfg.AI.OpenAIAPIKey,
		BaseURL:        cfg.AI.OpenAIBaseURL,
		ChatModel:      cfg.AI.ChatModel,
		EmbeddingModel: cfg.AI.EmbeddingModel,
	}, zapLogger)

	ollamaClient, err := ai.NewOllamaClient(ai.OllamaConfig{
		URL:         cfg.AI.OllamaURL,
		Model:       cfg.AI.GameModel,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	}, zapLogger)
	if err != nil {
		return err
	}

	mediaStore, err := service.NewLocalMediaStore(cfg.HTTP.MediaDir, cfg.HTTP.MediaBaseURL)
	if err != nil {
		return err
	}

	airtableClient := airtable.New(airtable.Config{
		APIKey:  cfg.Airtable.APIKey,
		BaseID:  cfg.Airtable.BaseID,
		Table:   cfg.Airtable.Table,
		BaseURL: cfg.Airtable.BaseURL,
	}, zapLogger)

	ttsClient := tts.New(tts.Config{
		APIKey:  cfg.TTS.APIKey,
		VoiceID: cfg.TTS.VoiceID,
		BaseURL: cfg.TTS.BaseURL,
	}, zapLogger)

	authService := service.NewAuthService(userRepo, tokenRepo, service.AuthServiceConfig{
		JWTSecret:       cfg.Auth.JWTSecret,
		PasswordPepper:  cfg.Auth.PasswordPepper,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, zapLogger)

	gameService := service.NewGameService(ollamaClient, game.Rules{
		AgingStep:   cfg.Game.AgingStep,
		MemoryLimit: cfg.Game.MemoryLimit,
	}, zapLogger)

	chatService := service.NewChatService(chatRepo, messageRepo, zapLogger)
	searchService := service.NewSearchService(openAIClient, documentRepo, zapLogger)
	feedbackService := service.NewFeedbackService(airtableClient, zapLogger)
	tutorService := service.NewTutorService(
		openAIClient, searchService, ttsClient, mediaStore, chatService,
		cfg.AI.ContextTokenBudget, zapLogger,
	)

	handler := httpdelivery.NewHandler(
		authService, gameService, chatService, tutorService,
		searchService, feedbackService, zapLogger,
	)

	router := handler.NewRouter(httpdelivery.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MediaDir:       mediaStore.Dir(),
	})
	ginprometheus.NewPrometheus("http").Use(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	zapLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
