package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
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
	"docchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: docchat-tui [--config=config.yaml] document.pdf")
		os.Exit(1)
	}
	path := args[0]

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

	// The terminal belongs to the TUI; keep logging silent.
	svc, err := assemble(cfg, zap.NewNop())
	if err != nil {
		log.Fatalf("failed to assemble service: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read document: %v", err)
	}
	result, err := svc.Ingest(context.Background(), "local", filepath.Base(path), data, mediaTypeFor(path))
	if err != nil {
		log.Fatalf("failed to ingest document: %v", err)
	}

	header := fmt.Sprintf("docchat — %s (%d passages indexed)", filepath.Base(path), result.ChunkCount)
	if _, err := tea.NewProgram(tui.New(svc, header)).Run(); err != nil {
		log.Fatal(err)
	}
}

func mediaTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "application/pdf"
	}
	return "text/plain"
}

func assemble(cfg *config.AppConfig, logger *zap.Logger) (*service.ChatService, error) {
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
			return nil, err
		}
	case "hashing":
		emb = embedding.NewHashingEmbedder(cfg.Embedder.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	gen, err := generator.NewOpenAIGenerator(generator.OpenAIConfig{
		BaseURL:   cfg.Generator.OpenAI.BaseURL,
		APIKeyEnv: cfg.Generator.OpenAI.APIKeyEnv,
		Model:     cfg.Generator.OpenAI.Model,
	})
	if err != nil {
		return nil, err
	}

	ch, err := chunker.NewRecursiveChunker(cfg.Chunker.TargetSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, err
	}

	// A single local session never needs eviction.
	store := session.NewStore(0)

	return service.NewChatService(
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
	), nil
}
