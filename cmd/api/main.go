package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/config"
	"github.com/snappy-loop/bedtime-stories/internal/handlers"
	"github.com/snappy-loop/bedtime-stories/internal/llm"
	"github.com/snappy-loop/bedtime-stories/internal/logging"
	"github.com/snappy-loop/bedtime-stories/internal/services"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	log.Info().Msg("Starting Bedtime Stories relay")

	// genai also falls back to GOOGLE_API_KEY when GEMINI_API_KEY is empty
	llmClient, err := llm.NewClient(context.Background(), llm.Options{
		APIKey:   cfg.GeminiAPIKey,
		Endpoint: cfg.GeminiAPIEndpoint,
		Model:    cfg.GeminiModel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM client")
	}

	storyService := services.NewStoryService(llmClient)
	h := handlers.NewHandler(storyService, cfg.MaxRequestBodyBytes)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handlers.NewRouter(h, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("Relay listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down relay...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Relay exited")
}
