package main

import (
	"context"
	"fmt"
	"time"

	"etudia/config"
	"etudia/handler"
	"etudia/logger"
	"etudia/rag"
	"etudia/repository"
	"etudia/services"
	"etudia/usecase"
	"etudia/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

const healthPingTimeout = 2 * time.Second

// app holds the process-wide connections and the services built on them.
type app struct {
	client *mongo.Client
	cache  *services.AnswerCache
	svc    *deps
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := utils.ConnectMongo(ctx, cfg.Database.ClientOptions())
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("database", cfg.Database.DatabaseName).
		Uint64("max_pool_size", cfg.Database.MaxPoolSize).
		Msg("connected to MongoDB")
	return client, nil
}

func newGateway(cfg *config.Config, client *mongo.Client) *rag.Gateway {
	openaiClient := rag.NewOpenAIClient(cfg.RAG.APIKey, cfg.RAG.BaseURL)
	return &rag.Gateway{
		Loader:   rag.NewMongoLoader(client, cfg.Documents.DatabaseName, cfg.Documents.Collection),
		Chunker:  rag.NewSentenceChunker(cfg.RAG.ChunkSentences, cfg.RAG.ChunkOverlap),
		Embedder: rag.NewOpenAIEmbedder(openaiClient, cfg.RAG.EmbeddingModel),
		LLM:      rag.NewOpenAIChat(openaiClient),
		Defaults: rag.ModelConfig{Model: cfg.RAG.ChatModel, Temperature: cfg.RAG.Temperature},
		TopK:     cfg.RAG.TopK,
	}
}

// newAnswerCache returns nil when no redis is configured or reachable.
func newAnswerCache(cfg *config.Config) *services.AnswerCache {
	if cfg.Redis.URL == "" {
		return nil
	}
	cache, err := services.NewAnswerCache(cfg.Redis.URL, cfg.Redis.CacheTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("answer cache disabled")
		return nil
	}
	logger.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("answer cache enabled")
	return cache
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if cfg.RAG.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set, /ask will fail")
	}

	client, err := connectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notesRepo := repository.GetNotesRepo(client, cfg.Database.DatabaseName, cfg.Database.NotesCollection)
	usersRepo := repository.GetUserRepo(client, cfg.Database.DatabaseName, cfg.Database.UsersCollection)

	a := &app{client: client, cache: newAnswerCache(cfg)}

	var answerCache usecase.AnswerCache
	var cachePinger handler.Pinger
	if a.cache != nil {
		answerCache = a.cache
		cachePinger = a.cache
	}

	a.svc = &deps{
		notes: usecase.NewNotesService(notesRepo, usersRepo),
		users: usecase.NewUserService(usersRepo),
		ask:   usecase.NewAskService(newGateway(cfg, client), answerCache, cfg.RAG.Timeout),
		health: handler.NewHealthHandler(handler.PingFunc(func(ctx context.Context) error {
			return utils.PingMongo(ctx, client, healthPingTimeout)
		}), cachePinger),
	}
	return a, nil
}

func (a *app) Close(ctx context.Context) error {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close answer cache")
		}
	}
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
