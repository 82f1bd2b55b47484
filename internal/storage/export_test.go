package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

func sampleOrder(t *testing.T) order.Order {
	t.Helper()

	cfg := pricing.NewItemConfig()
	cfg.PaperSize = pricing.PaperA4
	cfg.PrintQuality = pricing.QualityBlackWhite
	cfg.Sides = pricing.SingleSided
	cfg.ManualPages = 600
	cfg.SeriesCount = 2

	item, err := order.NewCartItem(cfg, pricing.DefaultTable())
	require.NoError(t, err)

	return order.Order{
		ID:          "ORD-1772359200000",
		Customer:    order.Customer{Phone: "09121112233", FullName: "Sara Ahmadi"},
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalAmount: item.Costs.TotalCost,
		Status:      order.StatusNew,
		Items:       []order.CartItem{item},
		Delivery:    &order.DeliveryInfo{Method: order.DeliveryPost, Address: "Tehran"},
	}
}

func TestExportOrderToExcel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	o := sampleOrder(t)

	path, err := ExportOrderToExcel(o, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "order_ORD-1772359200000_20260301_1000.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue(orderSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, id)

	delivery, err := f.GetCellValue(orderSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "post: Tehran", delivery)

	total, err := f.GetCellValue(orderSheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "1068000", total)

	// Items start two rows below the header block.
	itemTotal, err := f.GetCellValue(orderSheet, "L10")
	require.NoError(t, err)
	assert.Equal(t, "1068000", itemTotal)

	assert.Equal(t, []string{orderSheet}, f.GetSheetList())
}

func TestExportOrdersToExcel(t *testing.T) {
	dir := t.TempDir()
	first := sampleOrder(t)
	second := sampleOrder(t)
	second.ID = "ORD-1772359260000"
	second.Delivery = nil
	second.Status = order.StatusCompleted

	path, err := ExportOrdersToExcel([]order.Order{first, second}, dir, "orders_report_20260301")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "ORD-1772359260000", rows[2][0])
	assert.Equal(t, "completed", rows[2][5])
	assert.Equal(t, "-", rows[2][6])
}
