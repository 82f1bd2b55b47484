package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in Toman. Prices held by a Table are never negative.
type Money int64

func (m Money) String() string {
	s := strconv.FormatInt(int64(m), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

type PaperSize string

const (
	PaperA3 PaperSize = "A3"
	PaperA4 PaperSize = "A4"
	PaperA5 PaperSize = "A5"
)

// PaperSizes lists the sizes in display order.
var PaperSizes = []PaperSize{PaperA3, PaperA4, PaperA5}

func (p PaperSize) Valid() bool {
	return p == PaperA3 || p == PaperA4 || p == PaperA5
}

type PrintQuality string

const (
	QualityBlackWhite PrintQuality = "bw"
	QualityColorB     PrintQuality = "color-b"
	QualityColorC     PrintQuality = "color-c"
)

var PrintQualities = []PrintQuality{QualityBlackWhite, QualityColorB, QualityColorC}

func (q PrintQuality) Valid() bool {
	return q == QualityBlackWhite || q == QualityColorB || q == QualityColorC
}

func (q PrintQuality) Label() string {
	switch q {
	case QualityBlackWhite:
		return "Black & white"
	case QualityColorB:
		return "Color class B (text and images, white background)"
	case QualityColorC:
		return "Color class C (full color)"
	default:
		return string(q)
	}
}

type Sidedness string

const (
	SingleSided Sidedness = "single"
	DoubleSided Sidedness = "double"
)

var Sides = []Sidedness{SingleSided, DoubleSided}

func (s Sidedness) Valid() bool {
	return s == SingleSided || s == DoubleSided
}

// Service is a finishing (binding) service billed flat per series.
type Service string

const (
	ServiceNone   Service = "none"
	ServiceSimple Service = "simple"
	ServiceSpring Service = "spring"
)

// BillableServices are the services carrying a price in the table.
var BillableServices = []Service{ServiceSimple, ServiceSpring}

func (s Service) Valid() bool {
	return s == ServiceNone || s == ServiceSimple || s == ServiceSpring
}

func (s Service) Label() string {
	switch s {
	case ServiceNone:
		return "No binding"
	case ServiceSimple:
		return "Simple binding"
	case ServiceSpring:
		return "Spring binding"
	default:
		return string(s)
	}
}

// CoverType and SpringColor are cosmetic finishing options with no price impact.
type CoverType string

const (
	CoverNone   CoverType = "none"
	CoverGlossy CoverType = "glossy"
	CoverMatte  CoverType = "matte"
)

type SpringColor string

const (
	SpringWhite SpringColor = "white"
	SpringBlack SpringColor = "black"
)

type UploadMethod string

const (
	UploadFile     UploadMethod = "upload"
	UploadWhatsApp UploadMethod = "whatsapp"
	UploadTelegram UploadMethod = "telegram"
	UploadLink     UploadMethod = "link"
	UploadEmail    UploadMethod = "email"
	UploadOther    UploadMethod = "other"
)

func ParsePaperSize(raw string) (PaperSize, error) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown paper size %q", raw)
	}
	return p, nil
}

func ParsePrintQuality(raw string) (PrintQuality, error) {
	q := PrintQuality(strings.ToLower(strings.TrimSpace(raw)))
	if !q.Valid() {
		return "", fmt.Errorf("unknown print quality %q", raw)
	}
	return q, nil
}

func ParseSidedness(raw string) (Sidedness, error) {
	s := Sidedness(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown sidedness %q", raw)
	}
	return s, nil
}

func ParseService(raw string) (Service, error) {
	s := Service(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown finishing service %q", raw)
	}
	return s, nil
}
