package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/storage"
)

// ordersPerMessage caps the list sent for /orders; /export has everything.
const ordersPerMessage = 20

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd, args string) {
	b.logger.Info("Admin command",
		zap.Int64("chat_id", chatID),
		zap.String("command", cmd))

	switch cmd {
	case "prices":
		b.sendText(chatID, FormatPricingTable(b.pricing.Snapshot()), nil)
	case "setprice":
		b.handleSetPrice(chatID, args)
	case "setservice":
		b.handleSetService(chatID, args)
	case "saveprices":
		b.handleSavePrices(ctx, chatID)
	case "orders":
		b.handleAllOrders(ctx, chatID)
	case "status":
		fields := strings.Fields(args)
		if len(fields) != 2 {
			b.sendError(chatID, "Usage: /status <order id> <new|processing|completed|cancelled>")
			return
		}
		status, err := order.ParseStatus(fields[1])
		if err != nil {
			b.sendError(chatID, "Allowed statuses: new, processing, completed, cancelled")
			return
		}
		b.handleStatusUpdate(ctx, chatID, fields[0], status)
	case "stats":
		b.handleOrderStats(ctx, chatID)
	case "export":
		if id := strings.TrimSpace(args); id != "" {
			b.handleExportSingleOrder(ctx, chatID, id)
		} else {
			b.handleExportAllOrders(ctx, chatID)
		}
	case "users":
		b.handleListUsers(ctx, chatID)
	default:
		b.sendError(chatID, "Unknown admin command")
	}
}

func (b *Bot) handleSetPrice(chatID int64, args string) {
	p, err := parseSetPrice(args)
	if err != nil {
		b.sendError(chatID, "Usage: /setprice <A3|A4|A5> <bw|color-b|color-c> <tier> <single|double> <price>\n"+err.Error())
		return
	}

	if err := b.pricing.UpdateTierPrice(p.Size, p.Quality, p.TierIndex, p.Sides, p.Price); err != nil {
		b.sendError(chatID, "Failed to update price: "+err.Error())
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ %s %s tier %d %s is now %s Toman per sheet.\nSend /saveprices to keep it after a restart.",
		p.Size, p.Quality, p.TierIndex+1, p.Sides, p.Price), nil)
}

func (b *Bot) handleSetService(chatID int64, args string) {
	service, price, err := parseSetService(args)
	if err != nil {
		b.sendError(chatID, "Usage: /setservice <simple|spring> <price>\n"+err.Error())
		return
	}

	if err := b.pricing.UpdateServicePrice(service, price); err != nil {
		b.sendError(chatID, "Failed to update price: "+err.Error())
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ %s binding is now %s Toman per series.\nSend /saveprices to keep it after a restart.",
		service.Label(), price), nil)
}

func (b *Bot) handleSavePrices(ctx context.Context, chatID int64) {
	if err := b.pricing.Save(ctx); err != nil {
		b.sendError(chatID, "Failed to save prices, the new prices stay active until restart")
		return
	}
	b.sendText(chatID, "💾 Prices saved", nil)
}

func (b *Bot) handleAllOrders(ctx context.Context, chatID int64) {
	orders, err := b.orders.AllOrders(ctx)
	if err != nil {
		b.logger.Error("Failed to list orders", zap.Error(err))
		b.sendError(chatID, "Failed to load orders")
		return
	}
	if len(orders) == 0 {
		b.sendText(chatID, "No orders yet.", nil)
		return
	}

	shown := orders
	if len(shown) > ordersPerMessage {
		shown = shown[:ordersPerMessage]
	}
	for _, o := range shown {
		b.sendText(chatID, FormatOrderNotification(o), statusKeyboard(o.ID))
	}
	if len(orders) > len(shown) {
		b.sendText(chatID, fmt.Sprintf("Showing %d of %d orders. Use /export for all.", len(shown), len(orders)), nil)
	}
}

// handleStatusUpdate changes an order's status and tells the customer.
func (b *Bot) handleStatusUpdate(ctx context.Context, chatID int64, orderID string, status order.Status) {
	if !b.users.IsAdmin(ctx, chatID) {
		b.sendError(chatID, "Only administrators can change order status")
		return
	}

	o, err := b.orders.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, order.ErrNotFound) {
		b.sendError(chatID, fmt.Sprintf("Order %s not found", orderID))
		return
	}
	if err != nil {
		b.logger.Error("Failed to update order status",
			zap.String("order_id", orderID),
			zap.Error(err))
		b.sendError(chatID, "Failed to update order status")
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Order %s is now %s", o.ID, o.Status.Label()), nil)
	b.NotifyStatusChange(ctx, *o)
}

func (b *Bot) handleOrderStats(ctx context.Context, chatID int64) {
	stats, err := b.orders.Statistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get order statistics", zap.Error(err))
		b.sendError(chatID, "Failed to load statistics")
		return
	}
	b.sendText(chatID, FormatStats(*stats), nil)
}

func (b *Bot) handleExportSingleOrder(ctx context.Context, chatID int64, orderID string) {
	o, err := b.orders.OrderByID(ctx, orderID)
	if errors.Is(err, order.ErrNotFound) {
		b.sendError(chatID, fmt.Sprintf("Order %s not found", orderID))
		return
	}
	if err != nil {
		b.logger.Error("Failed to get order for export",
			zap.String("order_id", orderID),
			zap.Error(err))
		b.sendError(chatID, "Failed to load the order")
		return
	}

	path, err := storage.ExportOrderToExcel(*o, b.cfg.ReportsDir)
	if err != nil {
		b.logger.Error("Failed to export order",
			zap.String("order_id", orderID),
			zap.Error(err))
		b.sendError(chatID, "Failed to export the order")
		return
	}
	b.sendDocument(chatID, path, "📦 Order "+o.ID)
}

func (b *Bot) handleExportAllOrders(ctx context.Context, chatID int64) {
	orders, err := b.orders.AllOrders(ctx)
	if err != nil {
		b.logger.Error("Failed to list orders for export", zap.Error(err))
		b.sendError(chatID, "Failed to load orders")
		return
	}
	if len(orders) == 0 {
		b.sendText(chatID, "No orders to export.", nil)
		return
	}

	path, err := storage.ExportOrdersToExcel(orders, b.cfg.ReportsDir, "orders_"+time.Now().Format("20060102_1504"))
	if err != nil {
		b.logger.Error("Failed to export orders", zap.Error(err))
		b.sendError(chatID, "Failed to export orders")
		return
	}
	b.sendDocument(chatID, path, fmt.Sprintf("📊 %d orders", len(orders)))
}

func (b *Bot) handleListUsers(ctx context.Context, chatID int64) {
	list, err := b.users.List(ctx)
	if err != nil {
		b.logger.Error("Failed to list users", zap.Error(err))
		b.sendError(chatID, "Failed to load users")
		return
	}
	b.sendText(chatID, FormatUsers(list), nil)
}
