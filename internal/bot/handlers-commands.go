package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"printshop-bot/internal/pricing"
	"printshop-bot/internal/users"
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, cmd, args string) {
	switch cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "cart":
		b.showCart(ctx, chatID)
	case "orders":
		if b.users.IsAdmin(ctx, chatID) {
			b.handleAdminCommand(ctx, chatID, cmd, args)
			return
		}
		b.handleMyOrders(ctx, chatID)
	case "remove":
		b.handleRemoveItem(ctx, chatID, args)
	case "help":
		b.handleHelp(ctx, chatID)
	default:
		if b.users.IsAdmin(ctx, chatID) {
			b.handleAdminCommand(ctx, chatID, cmd, args)
			return
		}
		b.sendError(chatID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	text := "🖨 Print shop bot\n\n" +
		"/start - main menu\n" +
		"/cart - show your cart\n" +
		"/remove <number> - drop an item from the cart\n" +
		"/orders - your orders\n" +
		"/cancel - abort the current step"
	if b.users.IsAdmin(ctx, chatID) {
		text += "\n\n👑 Admin\n" +
			"/prices - show the price table\n" +
			"/setprice <size> <quality> <tier> <single|double> <price>\n" +
			"/setservice <simple|spring> <price>\n" +
			"/saveprices - persist the price table\n" +
			"/orders - all orders\n" +
			"/status <order id> <new|processing|completed|cancelled>\n" +
			"/stats - order statistics\n" +
			"/export [order id] - Excel export\n" +
			"/users - registered users"
	}
	b.sendText(chatID, text, nil)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	user, err := b.users.ByChatID(ctx, chatID)
	if err == nil {
		state, ok := b.loadState(ctx, chatID)
		if !ok {
			return
		}
		state.Phone = user.Phone
		state.FullName = user.FullName
		b.showMainMenu(ctx, chatID, state)
		return
	}
	if !errors.Is(err, users.ErrNotFound) {
		b.logger.Error("Failed to look up user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	if !b.saveState(ctx, chatID, UserState{Step: StepPhoneNumber}) {
		return
	}
	b.sendText(chatID, "Hi! 👋\n\nShare your phone number to start ordering prints.", contactKeyboard())
}

func (b *Bot) handleContact(ctx context.Context, chatID int64, contact *tgbotapi.Contact) {
	if contact.UserID != 0 && contact.UserID != chatID {
		b.sendError(chatID, "Please share your own phone number")
		return
	}
	b.registerPhone(ctx, chatID, contact.PhoneNumber, strings.TrimSpace(contact.FirstName+" "+contact.LastName))
}

func (b *Bot) handlePhoneNumber(ctx context.Context, chatID int64, text string) {
	b.registerPhone(ctx, chatID, text, "")
}

func (b *Bot) registerPhone(ctx context.Context, chatID int64, phone, fullName string) {
	user, err := b.users.Register(ctx, chatID, phone, fullName)
	if errors.Is(err, users.ErrInvalidPhone) {
		b.sendError(chatID, "Please send a valid mobile number, for example 09121234567")
		return
	}
	if err != nil {
		b.logger.Error("Failed to register user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save your contact, please try again")
		return
	}

	state := UserState{Phone: user.Phone, FullName: user.FullName}
	if user.FullName != "" {
		b.showMainMenu(ctx, chatID, state)
		return
	}

	state.Step = StepFullName
	if !b.saveState(ctx, chatID, state) {
		return
	}
	b.sendText(chatID, "✅ Thanks! What is your full name?", skipKeyboard())
}

func (b *Bot) handleFullName(ctx context.Context, chatID int64, text string) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}

	name := strings.TrimSpace(text)
	if name != "" && name != btnSkip {
		if len([]rune(name)) < 3 {
			b.sendError(chatID, "Please enter at least 3 characters or press Skip")
			return
		}
		user, err := b.users.Register(ctx, chatID, state.Phone, name)
		if err != nil {
			b.logger.Error("Failed to save full name",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		} else {
			state.FullName = user.FullName
		}
	}
	b.showMainMenu(ctx, chatID, state)
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, state UserState) {
	state.Step = StepMenu
	if !b.saveState(ctx, chatID, state) {
		return
	}

	text := fmt.Sprintf("🏠 Main menu\n\nPhone: %s", users.FormatPhone(state.Phone))
	if state.Cart.Len() > 0 {
		text += fmt.Sprintf("\nCart: %d item(s), %s Toman", state.Cart.Len(), state.Cart.Total())
	}
	b.sendText(chatID, text, mainMenuKeyboard())
}

func (b *Bot) handleMenu(ctx context.Context, chatID int64, text string) {
	switch text {
	case btnNewItem:
		b.startItem(ctx, chatID)
	case btnCart:
		b.showCart(ctx, chatID)
	case btnMyOrders:
		b.handleMyOrders(ctx, chatID)
	default:
		b.sendText(chatID, "Please choose one of the options below.", mainMenuKeyboard())
	}
}

// handleCancel drops the item being configured and returns to the menu.
// The cart is kept.
func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Phone == "" {
		b.handleStart(ctx, chatID)
		return
	}
	state.Item = pricing.ItemConfig{}
	b.showMainMenu(ctx, chatID, state)
}

func (b *Bot) handleMyOrders(ctx context.Context, chatID int64) {
	state, ok := b.loadState(ctx, chatID)
	if !ok {
		return
	}
	if state.Phone == "" {
		b.handleStart(ctx, chatID)
		return
	}

	orders, err := b.orders.OrdersForCustomer(ctx, state.Phone)
	if err != nil {
		b.logger.Error("Failed to list customer orders",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to load your orders")
		return
	}
	if len(orders) == 0 {
		b.sendText(chatID, "You have no orders yet.", nil)
		return
	}

	var sb strings.Builder
	for i, o := range orders {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatOrder(o))
	}
	b.sendText(chatID, sb.String(), nil)
}
