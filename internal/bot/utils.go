package bot

import (
	"fmt"
	"strings"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
	"printshop-bot/internal/users"
)

const statusCallbackPrefix = "status:"

func statusCallback(orderID string, status order.Status) string {
	return fmt.Sprintf("%s%s:%s", statusCallbackPrefix, orderID, status)
}

func parseStatusCallback(data string) (string, order.Status, bool) {
	rest, ok := strings.CutPrefix(data, statusCallbackPrefix)
	if !ok {
		return "", "", false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", "", false
	}
	status, err := order.ParseStatus(rest[i+1:])
	if err != nil {
		return "", "", false
	}
	return rest[:i], status, true
}

func sidesLabel(s pricing.Sidedness) string {
	switch s {
	case pricing.SingleSided:
		return "Single-sided"
	case pricing.DoubleSided:
		return "Double-sided"
	default:
		return string(s)
	}
}

// FormatItemConfig describes the choices made so far.
func FormatItemConfig(cfg pricing.ItemConfig) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}
	line("📄 Paper", string(cfg.PaperSize))
	if cfg.PrintQuality != "" {
		line("🎨 Quality", cfg.PrintQuality.Label())
	}
	if cfg.Sides != "" {
		line("📑 Sides", sidesLabel(cfg.Sides))
	}
	if pages := cfg.PageCount(); pages > 0 {
		line("🔢 Pages", fmt.Sprint(pages))
	}
	if cfg.SeriesCount > 0 {
		line("📚 Series", fmt.Sprint(cfg.SeriesCount))
	}
	if cfg.Service != "" {
		line("📎 Binding", cfg.Service.Label())
	}
	return sb.String()
}

// FormatBreakdown renders a live quote for the item.
func FormatBreakdown(cfg pricing.ItemConfig, b pricing.Breakdown) string {
	if !b.Ready() {
		return FormatItemConfig(cfg) + "\n⏳ Complete the options to see the price."
	}

	var sb strings.Builder
	sb.WriteString(FormatItemConfig(cfg))
	sb.WriteString("──────────────────\n")
	fmt.Fprintf(&sb, "Sheets per copy: %d (total %d)\n", b.SheetsPerCopy, b.TotalSheets)
	fmt.Fprintf(&sb, "Price per sheet: %s Toman\n", b.UnitPricePerSheet)
	fmt.Fprintf(&sb, "Printing: %s Toman\n", b.PrintCost)
	if b.ServiceCost > 0 {
		fmt.Fprintf(&sb, "Binding: %s × %d = %s Toman\n", b.ServiceCostPerSeries, cfg.SeriesCount, b.ServiceCost)
	}
	fmt.Fprintf(&sb, "💰 Total: %s Toman", b.TotalCost)
	return sb.String()
}

func FormatCart(cart order.Cart) string {
	if cart.Len() == 0 {
		return "🛒 Your cart is empty."
	}

	var sb strings.Builder
	sb.WriteString("🛒 Your cart\n\n")
	for i, item := range cart.Items {
		cfg := item.Config
		fmt.Fprintf(&sb, "%d. %s %s, %s, %d pages × %d series, %s: %s Toman\n",
			i+1,
			cfg.PaperSize,
			cfg.PrintQuality.Label(),
			sidesLabel(cfg.Sides),
			item.TotalPages,
			cfg.SeriesCount,
			cfg.Service.Label(),
			item.Costs.TotalCost)
	}
	fmt.Fprintf(&sb, "\n💰 Total: %s Toman\n", cart.Total())
	sb.WriteString("Send /remove <number> to drop an item.")
	return sb.String()
}

func FormatOrder(o order.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 Order %s\n", o.ID)
	fmt.Fprintf(&sb, "Date: %s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Status: %s\n", o.Status.Label())
	fmt.Fprintf(&sb, "Items: %d\n", len(o.Items))
	fmt.Fprintf(&sb, "Total: %s Toman\n", o.TotalAmount)
	if o.Delivery != nil {
		fmt.Fprintf(&sb, "Delivery: %s", o.Delivery.Method)
		if o.Delivery.Address != "" {
			fmt.Fprintf(&sb, " (%s)", o.Delivery.Address)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func FormatOrderNotification(o order.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 New order %s\n\n", o.ID)
	for i, item := range o.Items {
		cfg := item.Config
		fmt.Fprintf(&sb, "%d. %s / %s / %s, %d pages, %d sheets × %d series, %s: %s Toman\n",
			i+1,
			cfg.PaperSize,
			cfg.PrintQuality,
			cfg.Sides,
			item.TotalPages,
			item.SheetsPerCopy,
			cfg.SeriesCount,
			cfg.Service,
			item.Costs.TotalCost)
		if cfg.Description != "" {
			fmt.Fprintf(&sb, "   📝 %s\n", cfg.Description)
		}
	}
	sb.WriteString("──────────────────\n")
	fmt.Fprintf(&sb, "Total: %s Toman\n", o.TotalAmount)
	name := o.Customer.FullName
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(&sb, "Customer: %s, %s\n", name, users.FormatPhone(o.Customer.Phone))
	if o.Delivery != nil {
		fmt.Fprintf(&sb, "Delivery: %s", o.Delivery.Method)
		if o.Delivery.Address != "" {
			fmt.Fprintf(&sb, ", %s", o.Delivery.Address)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Date: %s", o.CreatedAt.Format("2006-01-02 15:04"))
	return sb.String()
}

// FormatPricingTable lists every tier with 1-based numbers, as used by /setprice.
func FormatPricingTable(t *pricing.Table) string {
	var sb strings.Builder
	sb.WriteString("💵 Prices per sheet (single / double), Toman\n")
	for _, size := range pricing.PaperSizes {
		for _, quality := range pricing.PrintQualities {
			tiers, ok := t.Tiers(size, quality)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "\n%s %s\n", size, quality)
			for i, tier := range tiers {
				fmt.Fprintf(&sb, "  %d) %s: %s / %s\n", i+1, tierRange(tier), tier.Prices.Single, tier.Prices.Double)
			}
		}
	}
	sb.WriteString("\n📎 Binding per series\n")
	for _, s := range pricing.BillableServices {
		price, _ := t.ServicePrice(s)
		fmt.Fprintf(&sb, "  %s: %s\n", s, price)
	}
	return sb.String()
}

func tierRange(t pricing.PriceTier) string {
	if t.Unbounded() {
		return fmt.Sprintf("%d+ sheets", t.Min)
	}
	return fmt.Sprintf("%d-%d sheets", t.Min, t.Max)
}

func FormatStats(stats order.Statistics) string {
	var sb strings.Builder
	sb.WriteString("📊 Order statistics\n\n")
	fmt.Fprintf(&sb, "📌 Total orders: %d\n", stats.TotalOrders)
	fmt.Fprintf(&sb, "💰 Revenue (completed): %s Toman\n", stats.Revenue)
	fmt.Fprintf(&sb, "📅 Today: %d\n", stats.TodayOrders)
	fmt.Fprintf(&sb, "📅 Last 7 days: %d\n", stats.WeekOrders)
	fmt.Fprintf(&sb, "📅 Last 30 days: %d\n\n", stats.MonthOrders)
	for _, s := range order.Statuses {
		fmt.Fprintf(&sb, "%s: %d\n", s.Label(), stats.StatusCounts[s])
	}
	return sb.String()
}

func FormatUsers(list []users.User) string {
	if len(list) == 0 {
		return "No registered users yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Users (%d)\n\n", len(list))
	for _, u := range list {
		name := u.FullName
		if name == "" {
			name = "-"
		}
		role := ""
		if u.IsAdmin() {
			role = " 👑"
		}
		fmt.Fprintf(&sb, "%s, %s%s, since %s\n", users.FormatPhone(u.Phone), name, role, u.CreatedAt.Format("2006-01-02"))
	}
	return sb.String()
}
