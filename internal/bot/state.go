package bot

import (
	"context"
	"errors"
	"fmt"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
	"printshop-bot/pkg/redis"
)

const (
	StepPhoneNumber = "phone_number"
	StepFullName    = "full_name"
	StepMenu        = "menu"
	StepPaperSize   = "paper_size"
	StepQuality     = "print_quality"
	StepSides       = "sides"
	StepPages       = "pages"
	StepSeries      = "series"
	StepService     = "service"
	StepReview      = "review"
	StepCart        = "cart"
	StepDelivery    = "delivery"
	StepAddress     = "address"
)

// UserState is the dialog state of one chat. The item being configured and
// the cart live here until checkout.
type UserState struct {
	Step           string               `json:"step"`
	Phone          string               `json:"phone_number,omitempty"`
	FullName       string               `json:"full_name,omitempty"`
	Item           pricing.ItemConfig   `json:"item"`
	Cart           order.Cart           `json:"cart"`
	PendingOrderID string               `json:"pending_order_id,omitempty"`
	Delivery       order.DeliveryMethod `json:"delivery_method,omitempty"`
}

type StateStore interface {
	Get(ctx context.Context, chatID int64) (UserState, error)
	Save(ctx context.Context, chatID int64, state UserState) error
	Clear(ctx context.Context, chatID int64) error
}

// StateStorage keeps dialog state in Redis.
type StateStorage struct {
	redis *redis.Client
}

func NewStateStorage(redis *redis.Client) *StateStorage {
	return &StateStorage{redis: redis}
}

// Get returns the chat's state; a chat without state gets the zero state.
func (s *StateStorage) Get(ctx context.Context, chatID int64) (UserState, error) {
	var state UserState
	err := s.redis.GetState(ctx, chatID, &state)
	if errors.Is(err, redis.ErrMiss) {
		return UserState{}, nil
	}
	if err != nil {
		return UserState{}, fmt.Errorf("failed to get state: %w", err)
	}
	return state, nil
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state UserState) error {
	if err := s.redis.SaveState(ctx, chatID, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.ClearState(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
