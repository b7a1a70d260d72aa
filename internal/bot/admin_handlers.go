package bot

import (
	"context"
	"fmt"
	"time"

	"purchase-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) isAdmin(chatID int64) bool {
	for _, adminID := range b.cfg.AdminIDs {
		if adminID == chatID {
			return true
		}
	}
	return false
}

// handleStats shows audience and catalog statistics to admins.
func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		return
	}

	stats, err := b.storage.CatalogStats(ctx)
	if err != nil {
		b.logger.Error("Failed to get catalog statistics", zap.Error(err))
		b.sendError(chatID, "Ошибка при получении статистики")
		return
	}

	msgText := fmt.Sprintf(
		"📊 *Статистика*\n\n"+
			"👥 Пользователи: %d\n"+
			"— частные лица: %d\n"+
			"— предприниматели: %d\n"+
			"— без роли: %d\n\n"+
			"📚 Материалы: %d\n"+
			"— для частных лиц: %d\n"+
			"— для предпринимателей: %d",
		stats.TotalUsers,
		stats.RegularUsers,
		stats.EntrepreneurUsers,
		stats.UnsetUsers,
		stats.TotalArticles,
		stats.ArticlesByRole[string(storage.RoleRegular)],
		stats.ArticlesByRole[string(storage.RoleEntrepreneur)],
	)

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	b.sendMessage(msg)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		return
	}

	filename := fmt.Sprintf("catalog_report_%s", time.Now().Format("20060102"))
	filepath, err := b.storage.ExportCatalogToExcel(ctx, filename)
	if err != nil {
		b.logger.Error("Failed to export catalog", zap.Error(err))
		b.sendError(chatID, "Не удалось выгрузить каталог")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	doc.Caption = "📊 Выгрузка каталога"

	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Не удалось отправить файл выгрузки")
	}
}
