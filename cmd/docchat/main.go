package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding"
	"docchat/internal/extract"
	"docchat/internal/generator"
	"docchat/internal/service"
	"docchat/internal/session"
	"docchat/internal/summarizer"
	"docchat/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, store, err := assemble(cfg, logger)
	if err != nil {
		log.Fatalf("failed to assemble service: %v", err)
	}

	token := os.Getenv(cfg.Telegram.TokenEnv)
	if token == "" {
		log.Fatalf("missing bot token in env %s", cfg.Telegram.TokenEnv)
	}
	bot, err := telegram.New(token, svc, cfg.Telegram.MaxFileSizeMB, logger)
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx)

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped", zap.Error(err))
	}
	logger.Info("shutting down")
}

func assemble(cfg *config.AppConfig, logger *zap.Logger) (*service.ChatService, *session.Store, error) {
	var emb domain.Embedder
	var err error
	switch cfg.Embedder.Type {
	case "openai", "":
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
		})
		if err != nil {
			return nil, nil, err
		}
	case "hashing":
		emb = embedding.NewHashingEmbedder(cfg.Embedder.Dimension)
	default:
		return nil, nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	gen, err := generator.NewOpenAIGenerator(generator.OpenAIConfig{
		BaseURL:   cfg.Generator.OpenAI.BaseURL,
		APIKeyEnv: cfg.Generator.OpenAI.APIKeyEnv,
		Model:     cfg.Generator.OpenAI.Model,
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := chunker.NewRecursiveChunker(cfg.Chunker.TargetSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	if cfg.Session.TTLHours < 0 {
		ttl = 0
	}
	store := session.NewStore(ttl)

	svc := service.NewChatService(
		ch,
		[]domain.Extractor{extract.NewPDF(), extract.NewPlainText()},
		emb,
		gen,
		store,
		summarizer.NewFrequency(3),
		service.Config{
			TopK:             cfg.Retrieval.TopK,
			HistoryWindow:    cfg.Retrieval.HistoryWindow,
			EmbedConcurrency: cfg.Embedder.Concurrency,
			GenerateTimeout:  time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		},
		logger,
	)
	return svc, store, nil
}
