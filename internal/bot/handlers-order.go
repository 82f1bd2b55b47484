package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

const (
	checkoutLimit  = 5
	checkoutWindow = time.Hour
)

func (b *Bot) startItem(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Phone == "" {
		b.handleStart(ctx, chatID)
		return
	}

	state.Item = pricing.NewItemConfig()
	state.Step = StepPaperSize
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.sendText(chatID, "📄 Choose the paper size:", paperSizeKeyboard())
}

func (b *Bot) handlePaperSize(ctx context.Context, chatID int64, text string) {
	size, err := pricing.ParsePaperSize(text)
	if err != nil {
		b.sendText(chatID, "Please choose a paper size from the keyboard.", paperSizeKeyboard())
		return
	}

	b.advance(ctx, chatID, StepQuality, func(cfg *pricing.ItemConfig) {
		cfg.PaperSize = size
	}, "🎨 Choose the print quality:", qualityKeyboard())
}

func (b *Bot) handleQuality(ctx context.Context, chatID int64, text string) {
	quality, ok := parseQualityButton(text)
	if !ok {
		b.sendText(chatID, "Please choose a print quality from the keyboard.", qualityKeyboard())
		return
	}

	b.advance(ctx, chatID, StepSides, func(cfg *pricing.ItemConfig) {
		cfg.PrintQuality = quality
	}, "📑 Single or double-sided?", sidesKeyboard())
}

func (b *Bot) handleSides(ctx context.Context, chatID int64, text string) {
	sides, ok := parseSidesButton(text)
	if !ok {
		b.sendText(chatID, "Please choose single or double-sided.", sidesKeyboard())
		return
	}

	b.advance(ctx, chatID, StepPages, func(cfg *pricing.ItemConfig) {
		cfg.Sides = sides
	}, "🔢 How many pages does the document have?", cancelKeyboard())
}

func (b *Bot) handlePages(ctx context.Context, chatID int64, text string) {
	pages, err := parseCount(text, pricing.MaxPages)
	if err != nil {
		b.sendError(chatID, "Page count "+err.Error())
		return
	}

	b.advance(ctx, chatID, StepSeries, func(cfg *pricing.ItemConfig) {
		cfg.ManualPages = pages
	}, "📚 How many copies (series) do you need?", cancelKeyboard())
}

func (b *Bot) handleSeries(ctx context.Context, chatID int64, text string) {
	series, err := parseCount(text, pricing.MaxSeries)
	if err != nil {
		b.sendError(chatID, "Series count "+err.Error())
		return
	}

	b.advance(ctx, chatID, StepService, func(cfg *pricing.ItemConfig) {
		cfg.SeriesCount = series
	}, "📎 Choose a binding:", serviceKeyboard(b.pricing.Snapshot()))
}

func (b *Bot) handleService(ctx context.Context, chatID int64, text string) {
	table := b.pricing.Snapshot()
	service, ok := parseServiceButton(text, table)
	if !ok {
		b.sendText(chatID, "Please choose a binding from the keyboard.", serviceKeyboard(table))
		return
	}

	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	state.Item.Service = service
	state.Step = StepReview
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.sendQuote(chatID, state.Item, table)
}

// advance applies one choice to the item being configured, moves to the next
// step and shows the running quote.
func (b *Bot) advance(ctx context.Context, chatID int64, next string, apply func(*pricing.ItemConfig), prompt string, markup any) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	apply(&state.Item)
	state.Step = next
	if !b.saveState(ctx, chatID, state) {
		return
	}

	quote := FormatBreakdown(state.Item, pricing.ComputeCost(state.Item, b.pricing.Snapshot()))
	b.sendText(chatID, quote+"\n\n"+prompt, markup)
}

func (b *Bot) sendQuote(chatID int64, cfg pricing.ItemConfig, table *pricing.Table) {
	b.sendText(chatID, FormatBreakdown(cfg, pricing.ComputeCost(cfg, table)), reviewKeyboard())
}

func (b *Bot) handleReview(ctx context.Context, chatID int64, text string) {
	switch text {
	case btnAddToCart:
		b.addToCart(ctx, chatID)
	case btnStartOver:
		b.startItem(ctx, chatID)
	default:
		b.sendText(chatID, "Add the item to your cart or start over.", reviewKeyboard())
	}
}

func (b *Bot) addToCart(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}

	item, err := state.Cart.Add(state.Item, b.pricing.Snapshot())
	if errors.Is(err, order.ErrNotReady) {
		b.sendError(chatID, "This item is missing some options, please start over")
		return
	}
	if err != nil {
		b.logger.Error("Failed to add item to cart",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to add the item to your cart")
		return
	}

	state.Item = pricing.ItemConfig{}
	state.Step = StepCart
	if !b.saveState(ctx, chatID, state) {
		return
	}

	b.logger.Info("Item added to cart",
		zap.Int64("chat_id", chatID),
		zap.String("item_id", item.ID),
		zap.Int64("total", int64(item.Costs.TotalCost)))
	b.sendText(chatID, "✅ Added to cart\n\n"+FormatCart(state.Cart), cartKeyboard())
}

func (b *Bot) showCart(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Phone == "" {
		b.handleStart(ctx, chatID)
		return
	}
	if state.Cart.Len() == 0 {
		b.sendText(chatID, FormatCart(state.Cart), mainMenuKeyboard())
		return
	}

	state.Step = StepCart
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.sendText(chatID, FormatCart(state.Cart), cartKeyboard())
}

// handleRemoveItem takes the 1-based position shown in the cart.
func (b *Bot) handleRemoveItem(ctx context.Context, chatID int64, args string) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Cart.Len() == 0 {
		b.sendText(chatID, FormatCart(state.Cart), nil)
		return
	}

	n, err := parseCount(args, state.Cart.Len())
	if err != nil {
		b.sendError(chatID, "Usage: /remove <number>, number "+err.Error())
		return
	}
	state.Cart.Remove(state.Cart.Items[n-1].ID)

	if state.Cart.Len() == 0 {
		b.showMainMenu(ctx, chatID, state)
		return
	}
	state.Step = StepCart
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.sendText(chatID, "🗑 Item removed\n\n"+FormatCart(state.Cart), cartKeyboard())
}

func (b *Bot) handleCart(ctx context.Context, chatID int64, text string) {
	switch text {
	case btnCheckout:
		b.checkout(ctx, chatID)
	case btnAddAnother:
		b.startItem(ctx, chatID)
	case btnClearCart:
		state, ok := b.loadState(ctx, chatID)
		if !ok {
			return
		}
		state.Cart.Clear()
		b.sendText(chatID, "🗑 Cart cleared", nil)
		b.showMainMenu(ctx, chatID, state)
	case btnBackToMenu:
		state, ok := b.loadState(ctx, chatID)
		if !ok {
			return
		}
		b.showMainMenu(ctx, chatID, state)
	default:
		b.sendText(chatID, "Please choose one of the options below.", cartKeyboard())
	}
}

func (b *Bot) checkout(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Cart.Len() == 0 {
		b.sendText(chatID, FormatCart(state.Cart), mainMenuKeyboard())
		return
	}

	if b.limiter != nil {
		allowed, err := b.limiter.CheckRateLimit(ctx, chatID, "checkout", checkoutLimit, checkoutWindow)
		if err != nil {
			b.logger.Warn("Rate limit check failed",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		} else if !allowed {
			b.sendError(chatID, "Too many orders in a short time, please try again later")
			return
		}
	}

	customer := order.Customer{
		Phone:    state.Phone,
		FullName: state.FullName,
		ChatID:   chatID,
	}
	o, err := b.orders.CreateOrder(ctx, customer, state.Cart.Items)
	if err != nil {
		b.logger.Error("Failed to create order",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to place the order, please try again")
		return
	}
	b.NotifyNewOrder(ctx, *o)

	state.Cart.Clear()
	state.PendingOrderID = o.ID
	state.Step = StepDelivery
	if !b.saveState(ctx, chatID, state) {
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Order %s placed!\n💰 Total: %s Toman\n\n🚚 How should we deliver it?",
		o.ID, o.TotalAmount), deliveryKeyboard())
}

func (b *Bot) handleDelivery(ctx context.Context, chatID int64, text string) {
	method, ok := deliveryButtons[text]
	if !ok {
		b.sendText(chatID, "Please choose a delivery method.", deliveryKeyboard())
		return
	}

	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}

	if method.NeedsAddress() {
		state.Delivery = method
		state.Step = StepAddress
		if !b.saveState(ctx, chatID, state) {
			return
		}
		b.sendText(chatID, "🏠 Send the delivery address:", nil)
		return
	}

	b.completeDelivery(ctx, chatID, state, order.DeliveryInfo{Method: method})
}

func (b *Bot) handleAddress(ctx context.Context, chatID int64, text string) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if strings.TrimSpace(text) == "" {
		b.sendError(chatID, "The address cannot be empty")
		return
	}

	b.completeDelivery(ctx, chatID, state, order.DeliveryInfo{
		Method:  state.Delivery,
		Address: text,
	})
}

func (b *Bot) completeDelivery(ctx context.Context, chatID int64, state UserState, info order.DeliveryInfo) {
	o, err := b.orders.UpdateDelivery(ctx, state.PendingOrderID, info)
	switch {
	case errors.Is(err, order.ErrAddressRequired):
		b.sendError(chatID, "Please send the delivery address")
		return
	case errors.Is(err, order.ErrNotFound):
		b.sendError(chatID, "The order could not be found")
		state.PendingOrderID = ""
		state.Delivery = ""
		b.showMainMenu(ctx, chatID, state)
		return
	case err != nil:
		b.logger.Error("Failed to update delivery",
			zap.Int64("chat_id", chatID),
			zap.String("order_id", state.PendingOrderID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save delivery details, please try again")
		return
	}

	state.PendingOrderID = ""
	state.Delivery = ""
	b.sendText(chatID, "🎉 Thank you! We will contact you soon.\n\n"+FormatOrder(*o), nil)
	b.NotifyDelivery(ctx, *o)
	b.showMainMenu(ctx, chatID, state)
}
