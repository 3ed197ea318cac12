package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Gon161/RAG-multi-documento/internal/api"
	"github.com/Gon161/RAG-multi-documento/internal/chunker"
	"github.com/Gon161/RAG-multi-documento/internal/config"
	"github.com/Gon161/RAG-multi-documento/internal/llm"
	"github.com/Gon161/RAG-multi-documento/internal/memory"
	"github.com/Gon161/RAG-multi-documento/internal/repository"
	"github.com/Gon161/RAG-multi-documento/internal/service"
	"github.com/Gon161/RAG-multi-documento/internal/store"
	"github.com/Gon161/RAG-multi-documento/internal/vectorindex"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Pick up a local .env if there is one.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Load the document metadata store
	docs := store.New(cfg.Storage.MetadataFile)
	if err := docs.Load(); err != nil {
		logger.Fatal("Failed to load document metadata", zap.Error(err))
	}

	// Initialize the transcript database. The service runs without it
	// if the database cannot be opened.
	var transcripts *repository.TranscriptRepository
	db, err := repository.NewDB(cfg.Storage.TranscriptDB)
	if err != nil {
		logger.Warn("Failed to open transcript database, running without transcripts", zap.Error(err))
	} else {
		defer db.Close()
		transcripts = repository.NewTranscriptRepository(db)
	}

	// LLM provider and vector index
	llmClient := llm.NewClient(llm.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
	})
	index := vectorindex.New(vectorindex.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
	}, llmClient)

	// Initialize services
	memories := memory.NewRegistry()
	splitter := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	ingestService := service.NewIngestService(
		docs,
		index,
		splitter,
		cfg.Storage.PDFDir,
		cfg.Storage.TextDir,
		logger,
	)
	qaService := service.NewQAService(
		index,
		llmClient,
		memories,
		transcripts,
		cfg.RAG.TopK,
		logger,
	)

	// Setup router
	handler := api.NewHandler(docs, ingestService, qaService, memories, transcripts, api.HandlerConfig{
		ChatModel: llmClient.ChatModel(),
		HasAPIKey: llmClient.HasAPIKey(),
	}, logger)
	router := api.SetupRouter(handler, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting document Q&A server",
			zap.String("address", cfg.Address()),
			zap.Int("documents", docs.Count()),
			zap.String("chat_model", llmClient.ChatModel()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
