package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"printshop-bot/internal/config"
	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

// Pinger reports whether the backing stores are reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the JSON API for quotes, the price list and order administration.
type Server struct {
	pricing    *pricing.Administrator
	orders     *order.Service
	health     Pinger
	adminToken string
	logger     *zap.Logger
	router     chi.Router
}

func NewServer(cfg config.HTTP, prices *pricing.Administrator, orders *order.Service, health Pinger, logger *zap.Logger) *Server {
	s := &Server{
		pricing:    prices,
		orders:     orders,
		health:     health,
		adminToken: cfg.AdminToken,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/quote", s.handleQuote)
	r.Get("/api/pricing", s.handleGetPricing)

	r.Group(func(r chi.Router) {
		r.Use(s.adminAuth)
		r.Put("/api/pricing/tiers", s.handleUpdateTierPrice)
		r.Put("/api/pricing/services", s.handleUpdateServicePrice)
		r.Post("/api/pricing/save", s.handleSavePricing)
		r.Get("/api/orders", s.handleListOrders)
		r.Get("/api/orders/{id}", s.handleGetOrder)
		r.Patch("/api/orders/{id}/status", s.handleUpdateOrderStatus)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
