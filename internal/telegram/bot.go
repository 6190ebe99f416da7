package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"docchat/internal/domain"
	"docchat/internal/service"
)

const (
	startReply = "Hi! I am your document assistant.\n" +
		"Send me a PDF or plain text document (max %dMB) and then ask me questions about it."
	helpReply      = "Send a PDF or text document first, then ask questions about its contents."
	noSessionReply = "Please upload a document first."
	ingestBadReply = "I could not read that document. Try a simpler file without protection."
	turnFailReply  = "I could not answer that right now. Please try rephrasing or ask again."
	tooLargeReply  = "That file is too large (over %dMB), which the Telegram bot API does not allow me to download."
)

// Bot is the long-polling Telegram transport. It pre-filters oversized and
// unsupported uploads and maps every pipeline failure to a user-visible
// reply; no raw error text reaches the chat.
type Bot struct {
	api         *tgbotapi.BotAPI
	svc         *service.ChatService
	maxFileSize int
	logger      *zap.Logger
}

func New(token string, svc *service.ChatService, maxFileSizeMB int, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{api: api, svc: svc, maxFileSize: maxFileSizeMB << 20, logger: logger}, nil
}

// Run processes updates until ctx is cancelled. Each update is handled on
// its own goroutine; per-user ordering of session mutations is enforced by
// the session store, not here.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case msg.Document != nil:
		b.handleDocument(ctx, msg)
	case msg.Text != "":
		b.handleQuestion(ctx, msg)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, fmt.Sprintf(startReply, b.maxFileSize>>20))
	case "help":
		b.reply(msg, helpReply)
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	if doc.FileSize > b.maxFileSize {
		b.reply(msg, fmt.Sprintf(tooLargeReply, b.maxFileSize>>20))
		return
	}
	b.reply(msg, "Downloading and processing the document, this can take a few seconds...")

	data, err := b.download(ctx, doc.FileID)
	if err != nil {
		b.logger.Warn("document download failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.reply(msg, ingestBadReply)
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	result, err := b.svc.Ingest(ctx, userID, doc.FileName, data, doc.MimeType)
	if err != nil {
		b.logger.Warn("ingestion failed", zap.String("user_id", userID), zap.Error(err))
		b.reply(msg, ingestBadReply)
		return
	}

	ack := fmt.Sprintf("Document processed!\n%d passages indexed. Ask away!", result.ChunkCount)
	if result.Summary != "" {
		ack += "\n\nIn short: " + result.Summary
	}
	b.reply(msg, ack)
}

func (b *Bot) handleQuestion(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("chat action failed", zap.Error(err))
	}

	answer, err := b.svc.Ask(ctx, userID, msg.Text)
	if err != nil {
		b.logger.Warn("question failed", zap.String("user_id", userID), zap.Error(err))
		if domain.IsKind(err, domain.KindNoSession) {
			b.reply(msg, noSessionReply)
		} else {
			b.reply(msg, turnFailReply)
		}
		return
	}
	b.reply(msg, answer)
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download failed: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, int64(b.maxFileSize)+1))
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("send failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}
