package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

const orderStatsCacheKey = "order_stats"

type orderRow struct {
	ID              string         `db:"id"`
	CustomerPhone   string         `db:"customer_phone"`
	CustomerName    string         `db:"customer_name"`
	ChatID          int64          `db:"chat_id"`
	TotalAmount     int64          `db:"total_amount"`
	Status          string         `db:"status"`
	DeliveryMethod  sql.NullString `db:"delivery_method"`
	DeliveryAddress sql.NullString `db:"delivery_address"`
	CreatedAt       time.Time      `db:"created_at"`
}

type orderItemRow struct {
	ID            string `db:"id"`
	OrderID       string `db:"order_id"`
	Position      int    `db:"position"`
	Config        []byte `db:"config"`
	TotalPages    int    `db:"total_pages"`
	SheetsPerCopy int    `db:"sheets_per_copy"`
	UnitPrice     int64  `db:"unit_price"`
	PrintCost     int64  `db:"print_cost"`
	ServiceCost   int64  `db:"service_cost"`
	TotalCost     int64  `db:"total_cost"`
}

func (r orderRow) toOrder() order.Order {
	o := order.Order{
		ID: r.ID,
		Customer: order.Customer{
			Phone:    r.CustomerPhone,
			FullName: r.CustomerName,
			ChatID:   r.ChatID,
		},
		CreatedAt:   r.CreatedAt,
		TotalAmount: pricing.Money(r.TotalAmount),
		Status:      order.Status(r.Status),
	}
	if r.DeliveryMethod.Valid {
		o.Delivery = &order.DeliveryInfo{
			Method:  order.DeliveryMethod(r.DeliveryMethod.String),
			Address: r.DeliveryAddress.String,
		}
	}
	return o
}

func (r orderItemRow) toItem() (order.CartItem, error) {
	var cfg pricing.ItemConfig
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return order.CartItem{}, fmt.Errorf("decode item %s config: %w", r.ID, err)
	}
	return order.CartItem{
		ID:            r.ID,
		Config:        cfg,
		TotalPages:    r.TotalPages,
		SheetsPerCopy: r.SheetsPerCopy,
		UnitPrice:     pricing.Money(r.UnitPrice),
		Costs: order.Costs{
			PrintCost:   pricing.Money(r.PrintCost),
			ServiceCost: pricing.Money(r.ServiceCost),
			TotalCost:   pricing.Money(r.TotalCost),
		},
	}, nil
}

// CreateOrder stores the order with its frozen items in one transaction.
func (s *PostgresStorage) CreateOrder(ctx context.Context, o *order.Order) error {
	const operation = "storage.CreateOrder"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer tx.Rollback()

	const insertOrder = `
        INSERT INTO orders (
            id, customer_phone, customer_name, chat_id,
            total_amount, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	if _, err := tx.ExecContext(ctx, insertOrder,
		o.ID,
		o.Customer.Phone,
		o.Customer.FullName,
		o.Customer.ChatID,
		int64(o.TotalAmount),
		string(o.Status),
		o.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: failed to save order: %w", operation, err)
	}

	const insertItem = `
        INSERT INTO order_items (
            id, order_id, position, config, total_pages, sheets_per_copy,
            unit_price, print_cost, service_cost, total_cost
        ) VALUES (
            :id, :order_id, :position, :config, :total_pages, :sheets_per_copy,
            :unit_price, :print_cost, :service_cost, :total_cost
        )
    `
	for i, item := range o.Items {
		cfg, err := json.Marshal(item.Config)
		if err != nil {
			return fmt.Errorf("%s: encode item config: %w", operation, err)
		}
		row := orderItemRow{
			ID:            item.ID,
			OrderID:       o.ID,
			Position:      i,
			Config:        cfg,
			TotalPages:    item.TotalPages,
			SheetsPerCopy: item.SheetsPerCopy,
			UnitPrice:     int64(item.UnitPrice),
			PrintCost:     int64(item.Costs.PrintCost),
			ServiceCost:   int64(item.Costs.ServiceCost),
			TotalCost:     int64(item.Costs.TotalCost),
		}
		if _, err := tx.NamedExecContext(ctx, insertItem, row); err != nil {
			return fmt.Errorf("%s: failed to save order item: %w", operation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", operation, err)
	}

	s.invalidateStats(ctx)
	return nil
}

func (s *PostgresStorage) UpdateDelivery(ctx context.Context, orderID string, info order.DeliveryInfo) error {
	const operation = "storage.UpdateDelivery"

	const query = `UPDATE orders SET delivery_method = $1, delivery_address = $2 WHERE id = $3`

	address := sql.NullString{String: info.Address, Valid: info.Address != ""}
	res, err := s.db.ExecContext(ctx, query, string(info.Method), address, orderID)
	if err != nil {
		return fmt.Errorf("%s: failed to update delivery: %w", operation, err)
	}
	return expectOneRow(res, operation)
}

func (s *PostgresStorage) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	const operation = "storage.UpdateStatus"

	const query = `UPDATE orders SET status = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, string(status), orderID)
	if err != nil {
		return fmt.Errorf("%s: failed to update status: %w", operation, err)
	}
	if err := expectOneRow(res, operation); err != nil {
		return err
	}

	s.invalidateStats(ctx)
	return nil
}

func expectOneRow(res sql.Result, operation string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) OrderByID(ctx context.Context, orderID string) (*order.Order, error) {
	const operation = "storage.OrderByID"

	const query = `SELECT * FROM orders WHERE id = $1`

	var row orderRow
	if err := s.db.GetContext(ctx, &row, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to get order: %w", operation, err)
	}

	orders, err := s.withItems(ctx, []orderRow{row})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return &orders[0], nil
}

func (s *PostgresStorage) OrdersByPhone(ctx context.Context, phone string) ([]order.Order, error) {
	const operation = "storage.OrdersByPhone"

	const query = `SELECT * FROM orders WHERE customer_phone = $1 ORDER BY created_at DESC`

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, phone); err != nil {
		return nil, fmt.Errorf("%s: failed to fetch orders: %w", operation, err)
	}

	orders, err := s.withItems(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return orders, nil
}

func (s *PostgresStorage) AllOrders(ctx context.Context) ([]order.Order, error) {
	const operation = "storage.AllOrders"

	const query = `SELECT * FROM orders ORDER BY created_at DESC`

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to fetch orders: %w", operation, err)
	}

	orders, err := s.withItems(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return orders, nil
}

func (s *PostgresStorage) withItems(ctx context.Context, rows []orderRow) ([]order.Order, error) {
	if len(rows) == 0 {
		return []order.Order{}, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	const query = `
        SELECT * FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY order_id, position
    `
	var itemRows []orderItemRow
	if err := s.db.SelectContext(ctx, &itemRows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}

	items := make(map[string][]order.CartItem, len(rows))
	for _, r := range itemRows {
		item, err := r.toItem()
		if err != nil {
			return nil, err
		}
		items[r.OrderID] = append(items[r.OrderID], item)
	}

	orders := make([]order.Order, len(rows))
	for i, r := range rows {
		orders[i] = r.toOrder()
		orders[i].Items = items[r.ID]
	}
	return orders, nil
}

// OrderStatistics aggregates orders in SQL and caches the result briefly.
func (s *PostgresStorage) OrderStatistics(ctx context.Context, now time.Time) (*order.Statistics, error) {
	const operation = "storage.OrderStatistics"

	if cached, err := s.redis.Get(ctx, orderStatsCacheKey); err == nil {
		var stats order.Statistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var totals struct {
		TotalOrders int   `db:"total_orders"`
		Revenue     int64 `db:"revenue"`
		TodayOrders int   `db:"today_orders"`
		WeekOrders  int   `db:"week_orders"`
		MonthOrders int   `db:"month_orders"`
	}
	err := s.db.GetContext(ctx, &totals, `
        SELECT
            COUNT(*) AS total_orders,
            COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0) AS revenue,
            COUNT(*) FILTER (WHERE created_at >= $1) AS today_orders,
            COUNT(*) FILTER (WHERE created_at >= $2) AS week_orders,
            COUNT(*) FILTER (WHERE created_at >= $3) AS month_orders
        FROM orders
    `, today, today.AddDate(0, 0, -7), today.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get totals: %w", operation, err)
	}

	stats := &order.Statistics{
		TotalOrders:  totals.TotalOrders,
		Revenue:      pricing.Money(totals.Revenue),
		TodayOrders:  totals.TodayOrders,
		WeekOrders:   totals.WeekOrders,
		MonthOrders:  totals.MonthOrders,
		StatusCounts: make(map[order.Status]int),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get status counts: %w", operation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: failed to scan status count: %w", operation, err)
		}
		stats.StatusCounts[order.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, orderStatsCacheKey, data, 5*time.Minute); err != nil {
			s.logger.Warn("Failed to cache order statistics", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *PostgresStorage) invalidateStats(ctx context.Context) {
	if err := s.redis.Del(ctx, orderStatsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate order statistics cache", zap.Error(err))
	}
}
