package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batech.ht/mythos-ai/internal/api"
	"batech.ht/mythos-ai/internal/config"
	"batech.ht/mythos-ai/internal/core"
	"batech.ht/mythos-ai/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize the text generator. Without a credential the orchestrator
	// answers every request with the deterministic demo story instead.
	var textGenerator core.TextGenerator
	var llmService *core.LLMService
	if config.AppConfig.GeminiAPIKey != "" {
		llmService = core.NewLLMService()
		defer llmService.Close()
		textGenerator = llmService
	}

	// Initialize the generation pipeline
	orchestrator := core.NewOrchestrator(
		textGenerator,
		core.NewDemoService(),
		core.NewImageService(),
		core.NewAudioService(),
		core.NewVideoService(),
	)

	// Initialize history and lesson services
	historyService := core.NewHistoryService(dbStore)
	lessonService := core.NewLessonService(dbStore, orchestrator, historyService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(lessonService, historyService, dbStore)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // One request may wait on text, image, video and audio in sequence
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
