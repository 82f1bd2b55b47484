package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"printshop-bot/internal/order"
)

const (
	orderSheet  = "Order"
	ordersSheet = "Orders"
)

var itemHeaders = []string{
	"Item", "Paper", "Quality", "Sides", "Pages", "Sheets/copy", "Series",
	"Service", "Unit price", "Print cost", "Service cost", "Total",
}

// ExportOrderToExcel writes one order with its items to dir and returns
// the file path.
func ExportOrderToExcel(o order.Order, dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	header := [][2]any{
		{"Order ID", o.ID},
		{"Customer", o.Customer.FullName},
		{"Phone", o.Customer.Phone},
		{"Created At", o.CreatedAt.Format("2006-01-02 15:04")},
		{"Status", string(o.Status)},
		{"Delivery", deliveryText(o.Delivery)},
		{"Total (Toman)", int64(o.TotalAmount)},
	}
	for i, kv := range header {
		row := i + 1
		f.SetCellValue(orderSheet, cell(1, row), kv[0])
		f.SetCellValue(orderSheet, cell(2, row), kv[1])
	}

	first := len(header) + 2
	for col, h := range itemHeaders {
		f.SetCellValue(orderSheet, cell(col+1, first), h)
	}
	for i, item := range o.Items {
		writeItemRow(f, orderSheet, first+1+i, i+1, item)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(orderSheet, "A1", cell(1, len(header)), style)
	f.SetCellStyle(orderSheet, cell(1, first), cell(len(itemHeaders), first), style)

	name := fmt.Sprintf("order_%s_%s.xlsx", o.ID, o.CreatedAt.Format("20060102_1504"))
	return saveWorkbook(f, dir, name)
}

// ExportOrdersToExcel writes a one-row-per-order report to dir/name.xlsx.
func ExportOrdersToExcel(orders []order.Order, dir, name string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Customer", "Phone", "Items", "Total (Toman)",
		"Status", "Delivery", "Created At",
	}
	for col, h := range headers {
		f.SetCellValue(ordersSheet, cell(col+1, 1), h)
	}

	for row, o := range orders {
		data := []any{
			o.ID,
			o.Customer.FullName,
			o.Customer.Phone,
			len(o.Items),
			int64(o.TotalAmount),
			string(o.Status),
			deliveryText(o.Delivery),
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			f.SetCellValue(ordersSheet, cell(col+1, row+2), value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(ordersSheet, "A1", cell(len(headers), 1), style)

	return saveWorkbook(f, dir, name+".xlsx")
}

func writeItemRow(f *excelize.File, sheet string, row, n int, item order.CartItem) {
	cfg := item.Config
	data := []any{
		n,
		string(cfg.PaperSize),
		cfg.PrintQuality.Label(),
		string(cfg.Sides),
		item.TotalPages,
		item.SheetsPerCopy,
		cfg.SeriesCount,
		cfg.Service.Label(),
		int64(item.UnitPrice),
		int64(item.Costs.PrintCost),
		int64(item.Costs.ServiceCost),
		int64(item.Costs.TotalCost),
	}
	for col, value := range data {
		f.SetCellValue(sheet, cell(col+1, row), value)
	}
}

func deliveryText(d *order.DeliveryInfo) string {
	if d == nil {
		return "-"
	}
	if d.Address == "" {
		return string(d.Method)
	}
	return fmt.Sprintf("%s: %s", d.Method, d.Address)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func saveWorkbook(f *excelize.File, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(dir, strings.ReplaceAll(name, string(filepath.Separator), "_"))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}
