// internal/handlers/cart.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// CartHandler handles cart and billing HTTP requests
type CartHandler struct {
	cart   ports.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart ports.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger.With(slog.String("handler", "cart")),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines := h.cart.Lines()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"count": len(lines),
		"items": lines,
	})
}

// AddLine handles POST /api/cart/items
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.cart.AddLine(ctx, req.ID, req.Quantity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInsufficientStock) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to add cart line",
			slog.Int("item_id", req.ID),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	lines := h.cart.Lines()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(lines),
		"items":   lines,
	})
}

// RemoveLine handles DELETE /api/cart/items/{index}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid cart position")
		return
	}

	if err := h.cart.RemoveLine(ctx, index); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to remove cart line",
			slog.Int("position", index),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to remove item from cart")
		return
	}

	lines := h.cart.Lines()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(lines),
		"items":   lines,
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cart cleared",
	})
}

// GetBill handles GET /api/bill
//
// Rates arrive as query parameters; absent values fall back to the
// billing defaults (0% discount, 5% GST).
func (h *CartHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	discount, gst, ok := h.parseRates(w, r.URL.Query().Get("discount"), r.URL.Query().Get("tax"))
	if !ok {
		return
	}

	bill, err := h.cart.Bill(discount, gst)
	if err != nil {
		if errors.Is(err, domain.ErrCartEmpty) || errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to compute bill", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to compute bill")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bill":    bill,
	})
}

// Purchase handles POST /api/purchase
func (h *CartHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PurchaseRequest
	if r.Body != nil {
		// An empty body means default rates.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	bill, err := h.cart.CompletePurchase(ctx, req.Discount, req.Tax)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCartEmpty),
			errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrInsufficientStock):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrRemoteUnavailable):
			h.respondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			h.logger.ErrorContext(ctx, "purchase failed",
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Purchase failed")
		}
		return
	}

	h.logger.InfoContext(ctx, "purchase completed",
		slog.Int("lines", len(bill.Lines)),
		slog.String("total", bill.Total.String()))

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bill":    bill,
	})
}

// Helper methods

func (h *CartHandler) parseRates(w http.ResponseWriter, discountStr, taxStr string) (*decimal.Decimal, *decimal.Decimal, bool) {
	var discount, gst *decimal.Decimal

	if discountStr != "" {
		d, err := decimal.NewFromString(discountStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid discount rate")
			return nil, nil, false
		}
		discount = &d
	}

	if taxStr != "" {
		t, err := decimal.NewFromString(taxStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid tax rate")
			return nil, nil, false
		}
		gst = &t
	}

	return discount, gst, true
}

func (h *CartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *CartHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// Request DTOs

// AddCartLineRequest represents the request body for adding a cart line
type AddCartLineRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// PurchaseRequest represents the request body for completing a purchase
type PurchaseRequest struct {
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
}
