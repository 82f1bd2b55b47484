package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

const (
	btnNewItem    = "🖨 New print order"
	btnCart       = "🛒 Cart"
	btnMyOrders   = "📦 My orders"
	btnCancel     = "❌ Cancel"
	btnSkip       = "Skip"
	btnAddToCart  = "➕ Add to cart"
	btnStartOver  = "🔁 Start over"
	btnCheckout   = "✅ Checkout"
	btnAddAnother = "➕ Add another item"
	btnClearCart  = "🗑 Clear cart"
	btnBackToMenu = "🏠 Main menu"
	btnPickup     = "🏪 Pickup"
	btnCourier    = "🛵 Courier"
	btnPost       = "📮 Post"
)

var deliveryButtons = map[string]order.DeliveryMethod{
	btnPickup:  order.DeliveryPickup,
	btnCourier: order.DeliveryCourier,
	btnPost:    order.DeliveryPost,
}

func row(labels ...string) []tgbotapi.KeyboardButton {
	buttons := make([]tgbotapi.KeyboardButton, len(labels))
	for i, l := range labels {
		buttons[i] = tgbotapi.NewKeyboardButton(l)
	}
	return tgbotapi.NewKeyboardButtonRow(buttons...)
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share phone number"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(row(btnSkip))
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		row(btnNewItem),
		row(btnCart, btnMyOrders),
	)
}

func paperSizeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	labels := make([]string, len(pricing.PaperSizes))
	for i, s := range pricing.PaperSizes {
		labels[i] = string(s)
	}
	return tgbotapi.NewReplyKeyboard(row(labels...), row(btnCancel))
}

func qualityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(pricing.PrintQualities)+1)
	for _, q := range pricing.PrintQualities {
		rows = append(rows, row(q.Label()))
	}
	rows = append(rows, row(btnCancel))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func sidesKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		row(sidesLabel(pricing.SingleSided), sidesLabel(pricing.DoubleSided)),
		row(btnCancel),
	)
}

func serviceKeyboard(t *pricing.Table) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{row(pricing.ServiceNone.Label())}
	for _, s := range pricing.BillableServices {
		price, _ := t.ServicePrice(s)
		rows = append(rows, row(serviceButton(s, price)))
	}
	rows = append(rows, row(btnCancel))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func serviceButton(s pricing.Service, price pricing.Money) string {
	return fmt.Sprintf("%s (+%s per series)", s.Label(), price)
}

func reviewKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		row(btnAddToCart),
		row(btnStartOver, btnCancel),
	)
}

func cartKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		row(btnCheckout),
		row(btnAddAnother, btnClearCart),
		row(btnBackToMenu),
	)
}

func deliveryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(row(btnPickup, btnCourier, btnPost))
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(row(btnCancel))
}

func statusKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Processing", statusCallback(orderID, order.StatusProcessing)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Completed", statusCallback(orderID, order.StatusCompleted)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", statusCallback(orderID, order.StatusCancelled)),
		),
	)
}
