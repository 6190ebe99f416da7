package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docchat/internal/domain"
	"docchat/internal/extract"
	"docchat/internal/index"
	"docchat/internal/prompt"
	"docchat/internal/session"
	"docchat/internal/summarizer"
)

// Config bounds the retrieval and generation pipeline. All values are fixed
// at process start.
type Config struct {
	TopK             int
	HistoryWindow    int
	EmbedConcurrency int
	GenerateTimeout  time.Duration
}

func (c *Config) applyDefaults() {
	if c.TopK <= 0 {
		c.TopK = 4
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = 3
	}
	if c.EmbedConcurrency <= 0 {
		c.EmbedConcurrency = 8
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 60 * time.Second
	}
}

// IngestResult acknowledges a successful ingestion.
type IngestResult struct {
	DocumentID string
	ChunkCount int
	Summary    string
}

// ChatService runs the two pipelines of the system: document ingestion into
// a per-user session, and retrieval-augmented question answering against the
// active session. Every collaborator failure is classified at the call
// boundary into a tagged domain error.
type ChatService struct {
	chunker    domain.Chunker
	extractors []domain.Extractor
	embedder   domain.Embedder
	generator  domain.Generator
	store      *session.Store
	summarizer *summarizer.Frequency
	cfg        Config
	logger     *zap.Logger
}

func NewChatService(
	chunker domain.Chunker,
	extractors []domain.Extractor,
	embedder domain.Embedder,
	generator domain.Generator,
	store *session.Store,
	sum *summarizer.Frequency,
	cfg Config,
	logger *zap.Logger,
) *ChatService {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		chunker:    chunker,
		extractors: extractors,
		embedder:   embedder,
		generator:  generator,
		store:      store,
		summarizer: sum,
		cfg:        cfg,
		logger:     logger,
	}
}

// Ingest extracts, chunks and embeds one document and commits the resulting
// session for the user, replacing any prior one. The commit is all-or-nothing:
// any failure before it leaves the user's previous session untouched.
func (s *ChatService) Ingest(ctx context.Context, userID, name string, data []byte, mediaType string) (*IngestResult, error) {
	extractor, err := extract.ForMediaType(s.extractors, mediaType)
	if err != nil {
		return nil, domain.IngestionError("unsupported document format "+mediaType, err)
	}
	segments, err := extractor.Extract(data)
	if err != nil {
		return nil, domain.IngestionError("could not read document", err)
	}

	doc := domain.Document{ID: uuid.NewString(), Name: name, Segments: segments}
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, domain.IngestionError("could not split document", err)
	}
	if len(chunks) == 0 {
		return nil, domain.IngestionError("no extractable content", nil)
	}
	s.logger.Debug("document chunked",
		zap.String("user_id", userID),
		zap.String("document_id", doc.ID),
		zap.Int("chunks", len(chunks)))

	entries, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, domain.EmbeddingError("embedding document chunks failed", err)
	}
	ix, err := index.Build(entries)
	if err != nil {
		return nil, domain.EmbeddingError("building vector index failed", err)
	}

	s.store.Put(session.New(userID, doc, ix))
	s.logger.Info("session ready",
		zap.String("user_id", userID),
		zap.String("document_id", doc.ID),
		zap.String("document", name),
		zap.Int("chunks", ix.Len()))

	result := &IngestResult{DocumentID: doc.ID, ChunkCount: ix.Len()}
	if s.summarizer != nil {
		result.Summary = s.summarizer.Summarize(joinChunkSources(segments))
	}
	return result, nil
}

// embedChunks embeds every chunk on a bounded worker pool. One failed call
// fails the whole batch, so a partial index can never be committed.
func (s *ChatService) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]index.Entry, error) {
	entries := make([]index.Entry, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.EmbedConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunk.Text)
			if err != nil {
				return err
			}
			entries[i] = index.Entry{Chunk: chunk, Vector: vec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ask answers one question against the user's active session. History is
// appended only after a successful generation, so a failed turn leaves no
// stale pair behind.
func (s *ChatService) Ask(ctx context.Context, userID, question string) (string, error) {
	sess, ok := s.store.Get(userID)
	if !ok {
		return "", domain.NoSessionError(userID)
	}

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", domain.EmbeddingError("embedding question failed", err)
	}
	results := sess.Index.Search(queryVec, s.cfg.TopK)
	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	history := sess.History.Trailing(s.cfg.HistoryWindow)
	s.logger.Debug("context retrieved",
		zap.String("user_id", userID),
		zap.String("document_id", sess.DocumentID),
		zap.Int("chunks", len(chunks)),
		zap.Int("history", len(history)))

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()
	answer, err := s.generator.Generate(gctx, prompt.Build(history, chunks, question))
	if err != nil {
		return "", domain.GenerationError("generating answer failed", err)
	}

	if err := s.store.AppendHistory(userID, domain.QAPair{Question: question, Answer: answer}); err != nil {
		// The session was evicted mid-turn; the answer is still valid.
		s.logger.Warn("history append skipped", zap.String("user_id", userID), zap.Error(err))
	}
	return answer, nil
}

func joinChunkSources(segments []domain.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
