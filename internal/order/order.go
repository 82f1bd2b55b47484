package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"printshop-bot/internal/pricing"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidDelivery = errors.New("invalid delivery method")
	ErrAddressRequired = errors.New("delivery address is required")
)

type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusNew, StatusProcessing, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "🆕 New"
	case StatusProcessing:
		return "🔄 Processing"
	case StatusCompleted:
		return "✅ Completed"
	case StatusCancelled:
		return "❌ Cancelled"
	default:
		return string(s)
	}
}

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPost    DeliveryMethod = "post"
)

func ParseDeliveryMethod(raw string) (DeliveryMethod, error) {
	m := DeliveryMethod(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case DeliveryPickup, DeliveryCourier, DeliveryPost:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDelivery, raw)
}

// NeedsAddress reports whether the method ships to the customer.
func (m DeliveryMethod) NeedsAddress() bool {
	return m == DeliveryCourier || m == DeliveryPost
}

type DeliveryInfo struct {
	Method  DeliveryMethod `json:"method"`
	Address string         `json:"address,omitempty"`
}

// Validate checks the method and that shipped orders carry an address.
// Pickup orders drop any address.
func (d *DeliveryInfo) Validate() error {
	if _, err := ParseDeliveryMethod(string(d.Method)); err != nil {
		return err
	}
	d.Address = strings.TrimSpace(d.Address)
	if !d.Method.NeedsAddress() {
		d.Address = ""
		return nil
	}
	if d.Address == "" {
		return ErrAddressRequired
	}
	return nil
}

type Customer struct {
	Phone    string `json:"phone_number"`
	FullName string `json:"full_name,omitempty"`
	ChatID   int64  `json:"chat_id,omitempty"`
}

type Order struct {
	ID          string        `json:"id"`
	Customer    Customer      `json:"customer"`
	CreatedAt   time.Time     `json:"date"`
	TotalAmount pricing.Money `json:"total_amount"`
	Status      Status        `json:"status"`
	Items       []CartItem    `json:"items"`
	Delivery    *DeliveryInfo `json:"delivery,omitempty"`
}

// NewID returns the order id for the given creation time.
func NewID(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixMilli())
}

// Statistics summarizes orders for the admin dashboard. Revenue counts
// completed orders only.
type Statistics struct {
	TotalOrders  int            `json:"total_orders"`
	Revenue      pricing.Money  `json:"revenue"`
	TodayOrders  int            `json:"today_orders"`
	WeekOrders   int            `json:"week_orders"`
	MonthOrders  int            `json:"month_orders"`
	StatusCounts map[Status]int `json:"status_counts"`
}

// Summarize computes Statistics over orders relative to now.
func Summarize(orders []Order, now time.Time) Statistics {
	stats := Statistics{StatusCounts: make(map[Status]int, len(Statuses))}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	week := today.AddDate(0, 0, -7)
	month := today.AddDate(0, 0, -30)

	for _, o := range orders {
		stats.TotalOrders++
		stats.StatusCounts[o.Status]++
		if o.Status == StatusCompleted {
			stats.Revenue += o.TotalAmount
		}
		if !o.CreatedAt.Before(today) {
			stats.TodayOrders++
		}
		if !o.CreatedAt.Before(week) {
			stats.WeekOrders++
		}
		if !o.CreatedAt.Before(month) {
			stats.MonthOrders++
		}
	}
	return stats
}
