package main

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"noteboard/api"
	"noteboard/chat"
	"noteboard/config"
	"noteboard/embedding"
	"noteboard/notes"
	"noteboard/pkg/chunking"
	"noteboard/pkg/notestore"
	"noteboard/pkg/qdrantdb"
	"noteboard/profile"
	"noteboard/recommend"
	"noteboard/vectormath"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	prompts, err := config.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// OpenAI client
	// =========
	llm := openai.NewClient(cfg.OpenAIAPIKey)
	embedClient := embedding.NewOpenAIClient(llm, cfg.EmbeddingModel, cfg.EmbeddingDimensions)

	// =========
	// Qdrant vector indexes
	// =========
	qdb, err := qdrantdb.NewClient(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		log.Fatalf("Failed to initialize qdrant: %v", err)
	}
	if err := qdb.EnsureCollections(context.Background(), embedClient.Dimension()); err != nil {
		log.Fatalf("Failed to create collections: %v", err)
	}
	noteVectors := qdrantdb.NewNoteVectors(qdb)
	profileVectors := qdrantdb.NewProfileVectors(qdb)

	// =========
	// Note store
	// =========
	store, err := notestore.Open(cfg.NoteStorePath)
	if err != nil {
		log.Fatalf("Failed to open note store: %v", err)
	}
	defer store.Close()

	// =========
	// Services
	// =========
	chunker := chunking.NewRecursiveCharacterChunking(embedClient)
	aggregator := profile.NewAggregator(store, profileVectors, vectormath.Policy(cfg.AggregationPolicy), logger)
	noteService := notes.NewService(store, noteVectors, chunker, aggregator, logger)

	chatOpts := chat.DefaultOptions(cfg.ChatModel)
	chatOpts.StreamDeadline = cfg.ChatStreamDeadline
	chatService := chat.NewService(embedClient, noteVectors, profileVectors, llm, prompts.Chat, chatOpts, logger)

	themeExtractor := recommend.NewThemeExtractor(llm, cfg.KeywordModel, prompts.Keywords.System)
	catalog := recommend.NewCatalogClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey)
	bridge := recommend.NewBridge(noteVectors, themeExtractor, recommend.NewStemmedKeywordExtractor(), catalog, logger)

	// =========
	// HTTP server
	// =========
	auth := api.NewTokenAuthenticator(cfg.AuthTokens)
	server := api.NewServer(noteService, chatService, bridge, profileVectors, auth, logger, cfg.AppPort)

	if err := server.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
