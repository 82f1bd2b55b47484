package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/storage"
)

// NotifyNewOrder posts the order to the admin channel and to every admin
// chat, with status buttons and the order spreadsheet.
// Delivery details follow separately once the customer picks them.
func (b *Bot) NotifyNewOrder(ctx context.Context, o order.Order) {
	recipients := b.adminRecipients()
	if len(recipients) == 0 {
		b.logger.Warn("No admin recipients configured, order notification skipped",
			zap.String("order_id", o.ID))
		return
	}

	text := FormatOrderNotification(o)
	path, err := storage.ExportOrderToExcel(o, b.cfg.ReportsDir)
	if err != nil {
		b.logger.Error("Failed to export order for notification",
			zap.String("order_id", o.ID),
			zap.Error(err))
	}

	for _, chatID := range recipients {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = statusKeyboard(o.ID)
		if _, err := b.sender.Send(msg); err != nil {
			b.logger.Error("Failed to send order notification",
				zap.Int64("chat_id", chatID),
				zap.String("order_id", o.ID),
				zap.Error(err))
			continue
		}

		if path == "" {
			continue
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
		doc.Caption = "📦 Order " + o.ID
		if _, err := b.sender.Send(doc); err != nil {
			b.logger.Error("Failed to send order spreadsheet",
				zap.Int64("chat_id", chatID),
				zap.String("order_id", o.ID),
				zap.Error(err))
		}
	}

	b.logger.Info("Order notification sent",
		zap.String("order_id", o.ID),
		zap.Int("recipients", len(recipients)))
}

// NotifyDelivery tells the same recipients how a placed order is delivered.
func (b *Bot) NotifyDelivery(ctx context.Context, o order.Order) {
	if o.Delivery == nil {
		return
	}

	text := fmt.Sprintf("🚚 Delivery for order %s: %s", o.ID, o.Delivery.Method)
	if o.Delivery.Address != "" {
		text += "\n🏠 " + o.Delivery.Address
	}
	for _, chatID := range b.adminRecipients() {
		if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			b.logger.Error("Failed to send delivery notification",
				zap.Int64("chat_id", chatID),
				zap.String("order_id", o.ID),
				zap.Error(err))
		}
	}
}

func (b *Bot) adminRecipients() []int64 {
	recipients := b.users.AdminChatIDs()
	if b.cfg.Admin.ChannelID != 0 {
		recipients = append([]int64{b.cfg.Admin.ChannelID}, recipients...)
	}
	return recipients
}

// NotifyStatusChange tells the customer about the new status of their order.
func (b *Bot) NotifyStatusChange(ctx context.Context, o order.Order) {
	if o.Customer.ChatID == 0 {
		return
	}

	text := fmt.Sprintf("📦 Your order %s is now %s", o.ID, o.Status.Label())
	if _, err := b.sender.Send(tgbotapi.NewMessage(o.Customer.ChatID, text)); err != nil {
		b.logger.Warn("Failed to notify customer about status change",
			zap.Int64("chat_id", o.Customer.ChatID),
			zap.String("order_id", o.ID),
			zap.Error(err))
	}
}
