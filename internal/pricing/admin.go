package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrPriceTooHigh  = fmt.Errorf("price must not exceed %d", MaxPrice)
	ErrUnknownPrice  = errors.New("no such price in the table")
	// ErrNoSnapshot is returned by a Store holding no persisted table.
	ErrNoSnapshot = errors.New("no persisted pricing table")
)

// Store persists the whole pricing table as a single document.
type Store interface {
	LoadTable(ctx context.Context) (*Table, error)
	SaveTable(ctx context.Context, t *Table) error
}

// Administrator owns the live pricing table. Readers get immutable snapshots;
// every edit swaps in an edited copy.
type Administrator struct {
	store   Store
	logger  *zap.Logger
	current atomic.Pointer[Table]
	mu      sync.Mutex
}

// NewAdministrator starts with the default table until Load is called.
func NewAdministrator(store Store, logger *zap.Logger) *Administrator {
	a := &Administrator{
		store:  store,
		logger: logger,
	}
	a.current.Store(DefaultTable())
	return a
}

// Snapshot returns the current table. Callers must not modify it.
func (a *Administrator) Snapshot() *Table {
	return a.current.Load()
}

// Load installs the persisted table, or the defaults when nothing usable is
// stored. It never fails.
func (a *Administrator) Load(ctx context.Context) *Table {
	const operation = "pricing.Administrator.Load"

	table, err := a.store.LoadTable(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		a.logger.Info("No persisted pricing table, using defaults",
			zap.String("operation", operation))
		table = DefaultTable()
	case err != nil:
		a.logger.Warn("Failed to load pricing table, using defaults",
			zap.String("operation", operation),
			zap.Error(err))
		table = DefaultTable()
	default:
		if verr := table.Validate(); verr != nil {
			a.logger.Warn("Persisted pricing table is malformed, using defaults",
				zap.String("operation", operation),
				zap.Error(verr))
			table = DefaultTable()
		}
	}

	a.mu.Lock()
	a.current.Store(table)
	a.mu.Unlock()
	return table
}

// UpdateTierPrice sets one unit price. Tier boundaries cannot be changed.
func (a *Administrator) UpdateTierPrice(size PaperSize, quality PrintQuality, tierIndex int, sides Sidedness, price Money) error {
	if err := checkPrice(price); err != nil {
		return err
	}

	return a.update(func(t *Table) error {
		tiers, ok := t.Tiers(size, quality)
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrUnknownPrice, size, quality)
		}
		if tierIndex < 0 || tierIndex >= len(tiers) {
			return fmt.Errorf("%w: tier %d of %s/%s", ErrUnknownPrice, tierIndex, size, quality)
		}
		switch sides {
		case SingleSided:
			tiers[tierIndex].Prices.Single = price
		case DoubleSided:
			tiers[tierIndex].Prices.Double = price
		default:
			return fmt.Errorf("%w: sidedness %q", ErrUnknownPrice, sides)
		}
		return nil
	})
}

// UpdateServicePrice sets the flat per-series price of a finishing service.
func (a *Administrator) UpdateServicePrice(service Service, price Money) error {
	if err := checkPrice(price); err != nil {
		return err
	}

	return a.update(func(t *Table) error {
		if _, ok := t.Services[service]; !ok || service == ServiceNone {
			return fmt.Errorf("%w: service %q", ErrUnknownPrice, service)
		}
		t.Services[service] = price
		return nil
	})
}

func checkPrice(price Money) error {
	switch {
	case price < 0:
		return ErrNegativePrice
	case price > MaxPrice:
		return ErrPriceTooHigh
	}
	return nil
}

func (a *Administrator) update(edit func(t *Table) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.current.Load().Clone()
	if err := edit(next); err != nil {
		return err
	}
	a.current.Store(next)
	return nil
}

// Save persists the current snapshot. On failure the in-memory table stays
// in effect and the error is returned for the admin to see.
func (a *Administrator) Save(ctx context.Context) error {
	const operation = "pricing.Administrator.Save"

	snapshot := a.Snapshot()
	if err := a.store.SaveTable(ctx, snapshot); err != nil {
		a.logger.Error("Failed to save pricing table",
			zap.String("operation", operation),
			zap.Error(err))
		return fmt.Errorf("%s: %w", operation, err)
	}

	a.logger.Info("Pricing table saved", zap.String("operation", operation))
	return nil
}

// ParsePrice reads an admin-entered price, allowing thousands separators.
// ok is false for anything that is not an integer between 0 and MaxPrice;
// callers then keep the previous price.
func ParsePrice(raw string) (Money, bool) {
	cleaned := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(raw))
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || checkPrice(Money(v)) != nil {
		return 0, false
	}
	return Money(v), true
}
