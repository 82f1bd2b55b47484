package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"printshop-bot/internal/config"
	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
	"printshop-bot/internal/users"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error)
}

// Deps are the services the bot talks to.
type Deps struct {
	Pricing *pricing.Administrator
	Orders  *order.Service
	Users   *users.Registry
	State   StateStore
	Limiter RateLimiter
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	logger   *zap.Logger
	cfg      *config.Config
	pricing  *pricing.Administrator
	orders   *order.Service
	users    *users.Registry
	state    StateStore
	limiter  RateLimiter
	mu       sync.Mutex
	handlers map[string]func(context.Context, int64, string)
}

func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = cfg.Telegram.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := newBot(botAPI, cfg, deps, logger)
	b.api = botAPI
	return b, nil
}

func newBot(s sender, cfg *config.Config, deps Deps, logger *zap.Logger) *Bot {
	b := &Bot{
		sender:  s,
		logger:  logger,
		cfg:     cfg,
		pricing: deps.Pricing,
		orders:  deps.Orders,
		users:   deps.Users,
		state:   deps.State,
		limiter: deps.Limiter,
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, int64, string){
		StepPhoneNumber: b.handlePhoneNumber,
		StepFullName:    b.handleFullName,
		StepMenu:        b.handleMenu,
		StepPaperSize:   b.handlePaperSize,
		StepQuality:     b.handleQuality,
		StepSides:       b.handleSides,
		StepPages:       b.handlePages,
		StepSeries:      b.handleSeries,
		StepService:     b.handleService,
		StepReview:      b.handleReview,
		StepCart:        b.handleCart,
		StepDelivery:    b.handleDelivery,
		StepAddress:     b.handleAddress,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if update.Message != nil {
		b.processMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
		return
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again")
		return
	}

	if msg.Contact != nil && state.Step == StepPhoneNumber {
		b.handleContact(ctx, chatID, msg.Contact)
		return
	}

	if msg.Text == btnCancel && state.Step != StepMenu && state.Step != "" {
		b.handleCancel(ctx, chatID)
		return
	}

	if handler, exists := b.handlers[state.Step]; exists {
		handler(ctx, chatID, msg.Text)
	} else {
		b.handleStart(ctx, chatID)
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	if orderID, status, ok := parseStatusCallback(callback.Data); ok {
		b.handleStatusUpdate(ctx, chatID, orderID, status)
	}

	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) loadState(ctx context.Context, chatID int64) (UserState, bool) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again")
		return UserState{}, false
	}
	return state, true
}

func (b *Bot) saveState(ctx context.Context, chatID int64, state UserState) bool {
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save user state",
			zap.Int64("chat_id", chatID),
			zap.String("step", state.Step),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again")
		return false
	}
	return true
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	b.sendMessage(msg)
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

func (b *Bot) sendDocument(chatID int64, path, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("path", path),
			zap.Error(err))
		b.sendError(chatID, "Failed to send the exported file")
	}
}
