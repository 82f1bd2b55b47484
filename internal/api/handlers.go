package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

// QuoteResponse is the priced item. A zero breakdown with Ready false means
// the configuration is incomplete or not covered by the price list.
type QuoteResponse struct {
	Ready     bool              `json:"ready"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

type TierPriceUpdate struct {
	PaperSize    pricing.PaperSize    `json:"paper_size"`
	PrintQuality pricing.PrintQuality `json:"print_quality"`
	TierIndex    int                  `json:"tier_index"`
	Sides        pricing.Sidedness    `json:"sides"`
	Price        pricing.Money        `json:"price"`
}

type ServicePriceUpdate struct {
	Service pricing.Service `json:"service"`
	Price   pricing.Money   `json:"price"`
}

type StatusUpdate struct {
	Status order.Status `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	cfg := pricing.NewItemConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item configuration")
		return
	}
	if !cfg.WithinLimits() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d pages and %d series per item", pricing.MaxPages, pricing.MaxSeries))
		return
	}

	b := pricing.ComputeCost(cfg, s.pricing.Snapshot())
	writeJSON(w, http.StatusOK, QuoteResponse{Ready: b.Ready(), Breakdown: b})
}

func (s *Server) handleGetPricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pricing.Snapshot())
}

func (s *Server) handleUpdateTierPrice(w http.ResponseWriter, r *http.Request) {
	var req TierPriceUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.pricing.UpdateTierPrice(req.PaperSize, req.PrintQuality, req.TierIndex, req.Sides, req.Price)
	if err != nil {
		writePricingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.pricing.Snapshot())
}

func (s *Server) handleUpdateServicePrice(w http.ResponseWriter, r *http.Request) {
	var req ServicePriceUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.pricing.UpdateServicePrice(req.Service, req.Price); err != nil {
		writePricingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.pricing.Snapshot())
}

func (s *Server) handleSavePricing(w http.ResponseWriter, r *http.Request) {
	if err := s.pricing.Save(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save pricing table")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []order.Order
		err    error
	)
	if phone := r.URL.Query().Get("phone"); phone != "" {
		orders, err = s.orders.OrdersForCustomer(r.Context(), phone)
	} else {
		orders, err = s.orders.AllOrders(r.Context())
	}
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.OrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Order request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writePricingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrNegativePrice), errors.Is(err, pricing.ErrPriceTooHigh):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrUnknownPrice):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to update price")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
