package bot

import (
	"context"
	"fmt"
	"strings"

	"purchase-bot/internal/config"
	"purchase-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Storage is the slice of the persistence layer the bot depends on.
type Storage interface {
	EnsureUser(ctx context.Context, userID int64) error
	UserRole(ctx context.Context, userID int64) (storage.Role, error)
	SetUserRole(ctx context.Context, userID int64, role storage.Role) error
	ArticlesByRole(ctx context.Context, role storage.Role) ([]storage.Article, error)
	ArticleByID(ctx context.Context, articleID int64) (*storage.Article, error)
	CountArticles(ctx context.Context, role storage.Role) (int, error)
	NextArticleID(ctx context.Context, articleID int64, role storage.Role) (int64, error)
	PrevArticleID(ctx context.Context, articleID int64, role storage.Role) (int64, error)
	CatalogStats(ctx context.Context) (*storage.CatalogStatistics, error)
	ExportCatalogToExcel(ctx context.Context, filename string) (string, error)
}

// ContentLoader resolves article content refs into text.
type ContentLoader interface {
	Load(ctx context.Context, ref string) (string, error)
}

type Bot struct {
	bot     *tgbotapi.BotAPI
	logger  *zap.Logger
	storage Storage
	content ContentLoader
	cfg     *config.Config

	textHandlers     map[string]func(context.Context, int64)
	callbackHandlers map[string]func(context.Context, int64, []string)
}

func New(
	cfg *config.Config,
	st Storage,
	loader ContentLoader,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := &Bot{
		bot:     botAPI,
		logger:  logger,
		storage: st,
		content: loader,
		cfg:     cfg,
	}

	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.textHandlers = map[string]func(context.Context, int64){
		cmdStart:         b.handleStart,
		cmdHelp:          b.handleHelp,
		phraseHelp:       b.handleHelp,
		phraseChangeRole: b.handleChangeRole,
		phraseSite:       b.handleSite,
		phraseRoleRegular: func(ctx context.Context, chatID int64) {
			b.handleSetRole(ctx, chatID, storage.RoleRegular)
		},
		phraseRoleEntrepreneur: func(ctx context.Context, chatID int64) {
			b.handleSetRole(ctx, chatID, storage.RoleEntrepreneur)
		},
		cmdStats:  b.handleStats,
		cmdExport: b.handleExport,
	}

	b.callbackHandlers = map[string]func(context.Context, int64, []string){
		cmdToArticle: b.handleToArticle,
		cmdToHelp: func(ctx context.Context, chatID int64, _ []string) {
			b.handleHelp(ctx, chatID)
		},
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Начать"},
		tgbotapi.BotCommand{Command: "help", Description: "Справка"},
	)
	if _, err := b.bot.Request(commands); err != nil {
		b.logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			return nil

		case update := <-updates:
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.processCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID

	b.logger.Info("Received message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	handler, ok := b.textHandlers[resolveMessageKey(msg.Text)]
	if !ok {
		b.logger.Debug("Ignoring unmatched message",
			zap.Int64("chat_id", chatID),
			zap.String("text", msg.Text))
		return
	}

	handler(ctx, chatID)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Data == "" {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Info("Received callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	key, operands, err := decodePayload(callback.Data)
	switch {
	case err != nil:
		b.logger.Warn("Failed to decode callback payload",
			zap.Int64("chat_id", chatID),
			zap.String("data", callback.Data),
			zap.Error(err))
		b.sendError(chatID, "Не получилось обработать нажатие, попробуй еще раз")
	default:
		handler, ok := b.callbackHandlers[key]
		if !ok {
			b.logger.Debug("Ignoring unknown callback key",
				zap.Int64("chat_id", chatID),
				zap.String("key", key))
			break
		}
		handler(ctx, chatID, operands)
	}

	// The tapped menu message is stale once handled; failure to delete it
	// (already gone, missing rights) is never surfaced to the user.
	delMsg := tgbotapi.NewDeleteMessage(chatID, callback.Message.MessageID)
	if _, err := b.bot.Request(delMsg); err != nil {
		b.logger.Warn("Failed to delete message",
			zap.Int("message_id", callback.Message.MessageID),
			zap.Error(err))
	}
}

// resolveMessageKey maps inbound text to a handler key. Slash commands match
// by their first whitespace token (ignoring a @botname suffix), keyboard
// phrases by the whole text; both are lower-cased first.
func resolveMessageKey(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(normalized, "/") {
		return normalized
	}

	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return normalized
	}

	key, _, _ := strings.Cut(fields[0], "@")
	return key
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.sendMessage(msg)
}

// sendAnimation sends a GIF by URL. Failures are logged and the calling flow
// continues without the animation.
func (b *Bot) sendAnimation(chatID int64, url, caption string, markup any) {
	anim := tgbotapi.NewAnimation(chatID, tgbotapi.FileURL(url))
	anim.Caption = caption
	anim.ReplyMarkup = markup

	if _, err := b.bot.Send(anim); err != nil {
		b.logger.Error("Failed to send animation",
			zap.Int64("chat_id", chatID),
			zap.String("url", url),
			zap.Error(err))
	}
}
