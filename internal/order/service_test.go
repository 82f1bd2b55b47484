package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printshop-bot/internal/pricing"
)

type memRepo struct {
	mu     sync.Mutex
	orders   map[string]Order
	err      error
	statsErr error
	listErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[string]Order)}
}

func (r *memRepo) CreateOrder(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.orders[o.ID] = *o
	return nil
}

func (r *memRepo) UpdateDelivery(_ context.Context, id string, info DeliveryInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Delivery = &info
	r.orders[id] = o
	return nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memRepo) OrderByID(_ context.Context, id string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *memRepo) OrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	all, _ := r.AllOrders(ctx)
	var out []Order
	for _, o := range all {
		if o.Customer.Phone == phone {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memRepo) AllOrders(context.Context) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) OrderStatistics(_ context.Context, now time.Time) (*Statistics, error) {
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	return &Statistics{TotalOrders: 42}, nil
}

func newTestService(repo Repository, now time.Time) *Service {
	s := NewService(repo, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func cartOf(t *testing.T, cfgs ...pricing.ItemConfig) []CartItem {
	t.Helper()
	var cart Cart
	for _, cfg := range cfgs {
		_, err := cart.Add(cfg, pricing.DefaultTable())
		require.NoError(t, err)
	}
	return cart.Items
}

func TestService_CreateOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	svc := newTestService(repo, now)

	customer := Customer{Phone: "09121112233", FullName: "Sara Ahmadi"}
	o, err := svc.CreateOrder(context.Background(), customer, cartOf(t, a4Item(600, 1), a4Item(10, 1)))
	require.NoError(t, err)

	assert.Equal(t, NewID(now), o.ID)
	assert.Equal(t, "ORD-1772359200000", o.ID)
	assert.Equal(t, StatusNew, o.Status)
	assert.Equal(t, pricing.Money(660000+15000), o.TotalAmount)
	assert.Nil(t, o.Delivery)
	assert.Len(t, o.Items, 2)

	stored, err := svc.OrderByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, stored.Customer)
}

func TestService_CreateOrderEmptyCart(t *testing.T) {
	svc := newTestService(newMemRepo(), time.Now())

	_, err := svc.CreateOrder(context.Background(), Customer{Phone: "09121112233"}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestService_CreateOrderRepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection reset")
	svc := newTestService(repo, time.Now())

	_, err := svc.CreateOrder(context.Background(), Customer{Phone: "09121112233"}, cartOf(t, a4Item(1, 1)))
	assert.ErrorContains(t, err, "connection reset")
}

func TestService_UpdateDelivery(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo(), time.Now())
	o, err := svc.CreateOrder(ctx, Customer{Phone: "09121112233"}, cartOf(t, a4Item(1, 1)))
	require.NoError(t, err)

	_, err = svc.UpdateDelivery(ctx, o.ID, DeliveryInfo{Method: DeliveryCourier, Address: "  "})
	assert.ErrorIs(t, err, ErrAddressRequired)

	_, err = svc.UpdateDelivery(ctx, o.ID, DeliveryInfo{Method: "drone"})
	assert.ErrorIs(t, err, ErrInvalidDelivery)

	updated, err := svc.UpdateDelivery(ctx, o.ID, DeliveryInfo{Method: DeliveryPost, Address: " Tehran, Valiasr St. 12 "})
	require.NoError(t, err)
	require.NotNil(t, updated.Delivery)
	assert.Equal(t, "Tehran, Valiasr St. 12", updated.Delivery.Address)

	updated, err = svc.UpdateDelivery(ctx, o.ID, DeliveryInfo{Method: DeliveryPickup, Address: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, updated.Delivery.Address)

	_, err = svc.UpdateDelivery(ctx, "ORD-0", DeliveryInfo{Method: DeliveryPickup})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemRepo(), time.Now())
	o, err := svc.CreateOrder(ctx, Customer{Phone: "09121112233"}, cartOf(t, a4Item(1, 1)))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, o.ID, StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, updated.Status)

	_, err = svc.UpdateStatus(ctx, o.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "ORD-0", StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_OrdersForCustomer(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, phone := range []string{"09121112233", "09350000000", "09121112233"} {
		svc := newTestService(repo, base.Add(time.Duration(i)*time.Minute))
		_, err := svc.CreateOrder(ctx, Customer{Phone: phone}, cartOf(t, a4Item(1, 1)))
		require.NoError(t, err)
	}

	svc := newTestService(repo, base)
	mine, err := svc.OrdersForCustomer(ctx, "09121112233")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt))

	all, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_StatisticsPrefersRepositoryAggregates(t *testing.T) {
	s := newTestService(newMemRepo(), time.Now())

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalOrders)
}

func TestService_StatisticsFallsBackToOrderList(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	repo.statsErr = errors.New("aggregate query failed")
	repo.orders["a"] = Order{ID: "a", Status: StatusCompleted, TotalAmount: 100000, CreatedAt: now.Add(-time.Hour)}
	repo.orders["b"] = Order{ID: "b", Status: StatusNew, TotalAmount: 30000, CreatedAt: now.AddDate(0, 0, -3)}
	s := newTestService(repo, now)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, pricing.Money(100000), stats.Revenue)
	assert.Equal(t, 1, stats.TodayOrders)

	repo.listErr = errors.New("db down")
	_, err = s.Statistics(context.Background())
	assert.ErrorIs(t, err, repo.statsErr)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	orders := []Order{
		{Status: StatusCompleted, TotalAmount: 100000, CreatedAt: now.Add(-time.Hour)},
		{Status: StatusCompleted, TotalAmount: 50000, CreatedAt: now.AddDate(0, 0, -3)},
		{Status: StatusCancelled, TotalAmount: 70000, CreatedAt: now.AddDate(0, 0, -10)},
		{Status: StatusNew, TotalAmount: 30000, CreatedAt: now.AddDate(0, 0, -40)},
	}

	stats := Summarize(orders, now)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, pricing.Money(150000), stats.Revenue)
	assert.Equal(t, 1, stats.TodayOrders)
	assert.Equal(t, 2, stats.WeekOrders)
	assert.Equal(t, 3, stats.MonthOrders)
	assert.Equal(t, 2, stats.StatusCounts[StatusCompleted])
	assert.Equal(t, 1, stats.StatusCounts[StatusCancelled])
	assert.Equal(t, 0, stats.StatusCounts[StatusProcessing])
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Completed ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
