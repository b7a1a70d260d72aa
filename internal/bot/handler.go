package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"purchase-bot/internal/storage"
	"purchase-bot/pkg/content"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.sendAnimation(chatID, b.cfg.WelcomeAnimationURL, "Привет!", nil)

	if err := b.storage.EnsureUser(ctx, chatID); err != nil {
		b.logger.Error("Failed to ensure user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	role, err := b.storage.UserRole(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user role",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		role = storage.RoleUnset
	}

	if role == storage.RoleUnset {
		b.sendAnimation(chatID, b.cfg.WelcomeAnimationURL,
			"Привет, давай определим кто ты:", roleChoiceKeyboard())
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Ну-с, добро пожаловать")
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)
}

// handleHelp renders the article menu for the user's role. Without a role the
// detail view must stay unreachable, so the user is sent back to role choice.
func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	role, err := b.storage.UserRole(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user role",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	if role == storage.RoleUnset {
		msg := tgbotapi.NewMessage(chatID, "Сначала давай определим кто ты:")
		msg.ReplyMarkup = roleChoiceKeyboard()
		b.sendMessage(msg)
		return
	}

	articles, err := b.storage.ArticlesByRole(ctx, role)
	if err != nil {
		b.logger.Error("Failed to get articles",
			zap.Int64("chat_id", chatID),
			zap.String("role", string(role)),
			zap.Error(err))
		b.sendError(chatID, "Не удалось загрузить материалы, попробуй еще раз")
		return
	}

	var sb strings.Builder
	sb.WriteString("Инфа: \n\n")
	for i, article := range articles {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, article.Title)
	}
	if len(articles) == 0 {
		sb.WriteString("Пока материалов нет, загляни позже.")
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = menuKeyboard(articles, role)
	b.sendMessage(msg)
}

func (b *Bot) handleToArticle(ctx context.Context, chatID int64, operands []string) {
	ref, err := parseArticleRef(operands)
	if err != nil {
		b.logger.Warn("Failed to parse article ref",
			zap.Int64("chat_id", chatID),
			zap.Strings("operands", operands),
			zap.Error(err))
		b.sendError(chatID, "Не получилось открыть материал, попробуй еще раз")
		return
	}

	article, err := b.storage.ArticleByID(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			b.sendError(chatID, "Этот материал больше недоступен")
			return
		}
		b.logger.Error("Failed to get article",
			zap.Int64("article_id", ref.ID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	text, err := b.content.Load(ctx, article.ContentPath)
	if err != nil {
		if errors.Is(err, content.ErrContentMissing) {
			b.sendError(chatID, "Этот материал временно недоступен")
		} else {
			b.logger.Error("Failed to load article content",
				zap.Int64("article_id", ref.ID),
				zap.String("ref", article.ContentPath),
				zap.Error(err))
			b.sendError(chatID, "Не удалось загрузить материал, попробуй еще раз")
		}
		return
	}

	count, err := b.storage.CountArticles(ctx, ref.Role)
	if err != nil {
		b.logger.Error("Failed to count articles",
			zap.String("role", string(ref.Role)),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	prevID, err := b.storage.PrevArticleID(ctx, ref.ID, ref.Role)
	if err != nil {
		b.logger.Error("Failed to get previous article id",
			zap.Int64("article_id", ref.ID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	nextID, err := b.storage.NextArticleID(ctx, ref.ID, ref.Role)
	if err != nil {
		b.logger.Error("Failed to get next article id",
			zap.Int64("article_id", ref.ID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = articleNavKeyboard(ref, count, prevID, nextID)
	b.sendMessage(msg)
}

// handleSetRole stores the chosen role. EnsureUser runs first so the update
// always has a row to hit; role choice is repeatable via "Изменить роль".
func (b *Bot) handleSetRole(ctx context.Context, chatID int64, role storage.Role) {
	if err := b.storage.EnsureUser(ctx, chatID); err != nil {
		b.logger.Error("Failed to ensure user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	if err := b.storage.SetUserRole(ctx, chatID, role); err != nil {
		b.logger.Error("Failed to set user role",
			zap.Int64("chat_id", chatID),
			zap.String("role", string(role)),
			zap.Error(err))
		b.sendError(chatID, "Извини, видимо, что-то пошло не так, попробуй еще раз")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, "Отлично, запомнил!"))
	b.handleStart(ctx, chatID)
}

func (b *Bot) handleChangeRole(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Давай определим кто ты:")
	msg.ReplyMarkup = roleChoiceKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleSite(ctx context.Context, chatID int64) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "Наш сайт: "+b.cfg.SiteURL))
}
