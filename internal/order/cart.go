package order

import (
	"errors"

	"github.com/google/uuid"

	"printshop-bot/internal/pricing"
)

// ErrNotReady is returned when an item cannot be priced yet.
var ErrNotReady = errors.New("item is not ready to be ordered")

// Costs is the price of an item frozen at the moment it entered the cart.
// ServiceCost is the aggregate over all series.
type Costs struct {
	PrintCost   pricing.Money `json:"print_cost"`
	ServiceCost pricing.Money `json:"service_cost"`
	TotalCost   pricing.Money `json:"total_cost"`
}

// CartItem is a configured item with its frozen costs. It is never repriced,
// even when the pricing table changes later.
type CartItem struct {
	ID            string             `json:"id"`
	Config        pricing.ItemConfig `json:"config"`
	TotalPages    int                `json:"total_pages"`
	SheetsPerCopy int                `json:"sheets_per_copy"`
	UnitPrice     pricing.Money      `json:"unit_price"`
	Costs         Costs              `json:"costs"`
}

// NewCartItem prices cfg against table and freezes the result.
func NewCartItem(cfg pricing.ItemConfig, table *pricing.Table) (CartItem, error) {
	b := pricing.ComputeCost(cfg, table)
	if !b.Ready() {
		return CartItem{}, ErrNotReady
	}

	return CartItem{
		ID:            uuid.NewString(),
		Config:        cfg.Clone(),
		TotalPages:    pricing.ActualPageCount(cfg.Files, cfg.ManualPages),
		SheetsPerCopy: b.SheetsPerCopy,
		UnitPrice:     b.UnitPricePerSheet,
		Costs: Costs{
			PrintCost:   b.PrintCost,
			ServiceCost: b.ServiceCost,
			TotalCost:   b.TotalCost,
		},
	}, nil
}

// Cart collects items before checkout. The zero value is an empty cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add prices cfg and appends it to the cart.
func (c *Cart) Add(cfg pricing.ItemConfig, table *pricing.Table) (CartItem, error) {
	item, err := NewCartItem(cfg, table)
	if err != nil {
		return CartItem{}, err
	}
	c.Items = append(c.Items, item)
	return item, nil
}

// Remove drops the item with the given id and reports whether it was found.
func (c *Cart) Remove(id string) bool {
	for i, item := range c.Items {
		if item.ID == id {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums the frozen totals.
func (c *Cart) Total() pricing.Money {
	var total pricing.Money
	for _, item := range c.Items {
		total += item.Costs.TotalCost
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.Items)
}

func (c *Cart) Clear() {
	c.Items = nil
}
