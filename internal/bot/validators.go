package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"printshop-bot/internal/pricing"
)

var errUsage = errors.New("wrong command usage")

// parseCount reads a positive integer no larger than max.
func parseCount(text string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("must be between 1 and %d", max)
	}
	return n, nil
}

func parseQualityButton(text string) (pricing.PrintQuality, bool) {
	for _, q := range pricing.PrintQualities {
		if text == q.Label() {
			return q, true
		}
	}
	q, err := pricing.ParsePrintQuality(text)
	return q, err == nil
}

func parseSidesButton(text string) (pricing.Sidedness, bool) {
	for _, s := range pricing.Sides {
		if text == sidesLabel(s) {
			return s, true
		}
	}
	s, err := pricing.ParseSidedness(text)
	return s, err == nil
}

func parseServiceButton(text string, t *pricing.Table) (pricing.Service, bool) {
	if text == pricing.ServiceNone.Label() {
		return pricing.ServiceNone, true
	}
	for _, s := range pricing.BillableServices {
		price, _ := t.ServicePrice(s)
		if text == serviceButton(s, price) || text == s.Label() {
			return s, true
		}
	}
	s, err := pricing.ParseService(text)
	return s, err == nil
}

// parsePriceArg reads an admin-entered price; anything that is not a
// integer between 0 and pricing.MaxPrice is rejected.
func parsePriceArg(raw string) (pricing.Money, error) {
	price, ok := pricing.ParsePrice(raw)
	if !ok {
		return 0, fmt.Errorf("%q is not a valid price (0 to %s)", raw, pricing.MaxPrice)
	}
	return price, nil
}

type setPriceArgs struct {
	Size      pricing.PaperSize
	Quality   pricing.PrintQuality
	TierIndex int
	Sides     pricing.Sidedness
	Price     pricing.Money
}

// parseSetPrice parses "<size> <quality> <tier> <sides> <price>" where tier
// is 1-based as shown by /prices.
func parseSetPrice(args string) (setPriceArgs, error) {
	fields := strings.Fields(args)
	if len(fields) != 5 {
		return setPriceArgs{}, errUsage
	}

	size, err := pricing.ParsePaperSize(fields[0])
	if err != nil {
		return setPriceArgs{}, err
	}
	quality, err := pricing.ParsePrintQuality(fields[1])
	if err != nil {
		return setPriceArgs{}, err
	}
	tier, err := strconv.Atoi(fields[2])
	if err != nil || tier < 1 {
		return setPriceArgs{}, fmt.Errorf("tier must be a number starting at 1")
	}
	sides, err := pricing.ParseSidedness(fields[3])
	if err != nil {
		return setPriceArgs{}, err
	}
	price, err := parsePriceArg(fields[4])
	if err != nil {
		return setPriceArgs{}, err
	}

	return setPriceArgs{
		Size:      size,
		Quality:   quality,
		TierIndex: tier - 1,
		Sides:     sides,
		Price:     price,
	}, nil
}

// parseSetService parses "<service> <price>".
func parseSetService(args string) (pricing.Service, pricing.Money, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, errUsage
	}
	service, err := pricing.ParseService(fields[0])
	if err != nil {
		return "", 0, err
	}
	price, err := parsePriceArg(fields[1])
	if err != nil {
		return "", 0, err
	}
	return service, price, nil
}
