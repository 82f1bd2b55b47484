package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// docStore keeps the table as a JSON document, like the real stores do.
type docStore struct {
	mu      sync.Mutex
	doc     []byte
	loadErr error
	saveErr error
	saves   int
}

func (s *docStore) LoadTable(ctx context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.doc == nil {
		return nil, ErrNoSnapshot
	}
	var t Table
	if err := json.Unmarshal(s.doc, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *docStore) SaveTable(ctx context.Context, t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s.doc = doc
	s.saves++
	return nil
}

func TestAdministrator_TierPriceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &docStore{}
	admin := NewAdministrator(store, zap.NewNop())
	admin.Load(ctx)

	require.NoError(t, admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 0, SingleSided, 999))
	require.NoError(t, admin.Save(ctx))

	reloaded := NewAdministrator(store, zap.NewNop()).Load(ctx)

	want := DefaultTable()
	want.Tiered[PaperA4][QualityBlackWhite][0].Prices.Single = 999
	assert.Equal(t, want, reloaded)
}

func TestAdministrator_RejectsNegativePrices(t *testing.T) {
	admin := NewAdministrator(&docStore{}, zap.NewNop())
	before := admin.Snapshot()

	err := admin.UpdateServicePrice(ServiceSimple, -500)
	assert.ErrorIs(t, err, ErrNegativePrice)

	err = admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 0, DoubleSided, -1)
	assert.ErrorIs(t, err, ErrNegativePrice)

	assert.Same(t, before, admin.Snapshot())
	assert.Equal(t, Money(15000), admin.Snapshot().Services[ServiceSimple])
}

func TestAdministrator_RejectsUnknownEntries(t *testing.T) {
	admin := NewAdministrator(&docStore{}, zap.NewNop())

	tests := []struct {
		name string
		err  error
	}{
		{"unknown size", admin.UpdateTierPrice("B5", QualityBlackWhite, 0, SingleSided, 1)},
		{"tier out of range", admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 4, SingleSided, 1)},
		{"negative tier index", admin.UpdateTierPrice(PaperA4, QualityBlackWhite, -1, SingleSided, 1)},
		{"unset sides", admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 0, "", 1)},
		{"none service", admin.UpdateServicePrice(ServiceNone, 1)},
		{"unknown service", admin.UpdateServicePrice("gold-leaf", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, ErrUnknownPrice)
		})
	}
	assert.Equal(t, DefaultTable(), admin.Snapshot())
}

func TestAdministrator_EditsAreCopyOnWrite(t *testing.T) {
	admin := NewAdministrator(&docStore{}, zap.NewNop())
	old := admin.Snapshot()

	require.NoError(t, admin.UpdateServicePrice(ServiceSpring, 40000))
	require.NoError(t, admin.UpdateTierPrice(PaperA5, QualityColorC, 2, DoubleSided, 4000))

	assert.Equal(t, Money(35000), old.Services[ServiceSpring])
	assert.Equal(t, Money(4800), old.Tiered[PaperA5][QualityColorC][2].Prices.Double)

	current := admin.Snapshot()
	assert.NotSame(t, old, current)
	assert.Equal(t, Money(40000), current.Services[ServiceSpring])
	assert.Equal(t, Money(4000), current.Tiered[PaperA5][QualityColorC][2].Prices.Double)
}

func TestAdministrator_LoadFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()

	broken := DefaultTable()
	delete(broken.Tiered, PaperA3)
	brokenDoc, err := json.Marshal(broken)
	require.NoError(t, err)

	tests := []struct {
		name  string
		store *docStore
	}{
		{"nothing stored", &docStore{}},
		{"load error", &docStore{loadErr: errors.New("connection refused")}},
		{"garbage document", &docStore{doc: []byte("{not json")}},
		{"incomplete document", &docStore{doc: brokenDoc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := NewAdministrator(tt.store, zap.NewNop())
			require.NoError(t, admin.UpdateServicePrice(ServiceSimple, 1))

			assert.Equal(t, DefaultTable(), admin.Load(ctx))
			assert.Equal(t, DefaultTable(), admin.Snapshot())
		})
	}
}

func TestAdministrator_SaveFailureKeepsInMemoryTable(t *testing.T) {
	store := &docStore{saveErr: errors.New("disk full")}
	admin := NewAdministrator(store, zap.NewNop())
	require.NoError(t, admin.UpdateServicePrice(ServiceSimple, 20000))

	err := admin.Save(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, Money(20000), admin.Snapshot().Services[ServiceSimple])
}

func TestAdministrator_LastSaveWins(t *testing.T) {
	ctx := context.Background()
	store := &docStore{}
	admin := NewAdministrator(store, zap.NewNop())

	require.NoError(t, admin.UpdateServicePrice(ServiceSimple, 16000))
	require.NoError(t, admin.Save(ctx))
	require.NoError(t, admin.UpdateServicePrice(ServiceSimple, 17000))
	require.NoError(t, admin.Save(ctx))

	reloaded := NewAdministrator(store, zap.NewNop()).Load(ctx)
	assert.Equal(t, Money(17000), reloaded.Services[ServiceSimple])
	assert.Equal(t, 2, store.saves)
}

func TestAdministrator_ConcurrentReadersSeeCompleteTables(t *testing.T) {
	admin := NewAdministrator(&docStore{}, zap.NewNop())
	cfg := ItemConfig{
		PaperSize:    PaperA4,
		PrintQuality: QualityBlackWhite,
		Sides:        SingleSided,
		ManualPages:  600,
		SeriesCount:  1,
		Service:      ServiceNone,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for price := Money(1); price <= 200; price++ {
			_ = admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 2, SingleSided, price)
		}
	}()

	for i := 0; i < 200; i++ {
		got := ComputeCost(cfg, admin.Snapshot())
		require.True(t, got.Ready())
		require.Equal(t, got.UnitPricePerSheet*600, got.PrintCost)
	}
	wg.Wait()
}

func TestAdministrator_RejectsPricesAboveLimit(t *testing.T) {
	admin := NewAdministrator(&docStore{}, zap.NewNop())
	before := admin.Snapshot()

	err := admin.UpdateTierPrice(PaperA4, QualityBlackWhite, 0, SingleSided, 1<<62)
	assert.ErrorIs(t, err, ErrPriceTooHigh)

	err = admin.UpdateServicePrice(ServiceSpring, MaxPrice+1)
	assert.ErrorIs(t, err, ErrPriceTooHigh)

	assert.Same(t, before, admin.Snapshot())
	require.NoError(t, admin.UpdateServicePrice(ServiceSpring, MaxPrice))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   Money
		wantOK bool
	}{
		{"999", 999, true},
		{" 15,000 ", 15000, true},
		{"0", 0, true},
		{"100_000_000", MaxPrice, true},
		{"100000001", 0, false},
		{"4611686018427387904", 0, false},
		{"-500", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"12.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
