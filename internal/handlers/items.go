// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// ItemsHandler handles inventory item HTTP requests
type ItemsHandler struct {
	store  ports.InventoryStore
	logger *slog.Logger
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(store ports.InventoryStore, logger *slog.Logger) *ItemsHandler {
	return &ItemsHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "items")),
	}
}

// ListItems handles GET /api/items
func (h *ItemsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id}
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get item",
			slog.Int("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, h.statusFor(err), "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := req.ToDomain()
	if err := item.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.store.Create(ctx, item)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("item_name", item.Name),
			slog.String("error", err.Error()))
		h.respondError(w, h.statusFor(err), err.Error())
		return
	}

	h.logger.InfoContext(ctx, "item created",
		slog.Int("item_id", created.ID),
		slog.String("item_name", created.Name))

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Item added successfully",
		"item":    created,
	})
}

// UpdateItem handles PUT /api/items/{id}
func (h *ItemsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var patch domain.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := patch.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.store.Update(ctx, id, &patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update item",
			slog.Int("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, h.statusFor(err), err.Error())
		return
	}

	h.logger.InfoContext(ctx, "item updated", slog.Int("item_id", id))

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Item updated successfully",
		"item":    updated,
	})
}

// DeleteItem handles DELETE /api/items/{id}
func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.Int("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, h.statusFor(err), err.Error())
		return
	}

	h.logger.InfoContext(ctx, "item deleted", slog.Int("item_id", id))

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Item deleted successfully",
	})
}

// SearchByName handles GET /api/search/name/{query}
func (h *ItemsHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.PathValue("query")

	items, err := h.store.SearchByName(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "name search failed",
			slog.String("query", query),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// SearchByCategory handles GET /api/search/category/{category}
func (h *ItemsHandler) SearchByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.PathValue("category")

	items, err := h.store.SearchByCategory(ctx, category)
	if err != nil {
		h.logger.ErrorContext(ctx, "category search failed",
			slog.String("category", category),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// LowStock handles GET /api/low-stock
func (h *ItemsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.LowStock(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "low stock report failed",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load low stock report")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

// Expiring handles GET /api/expiry/{days}
func (h *ItemsHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days, err := strconv.Atoi(r.PathValue("days"))
	if err != nil || days < 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid day count")
		return
	}

	items, expErr := h.store.ExpiringWithin(ctx, days)
	if expErr != nil {
		h.logger.ErrorContext(ctx, "expiry report failed",
			slog.Int("days", days),
			slog.String("error", expErr.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load expiry report")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"count": len(items),
		"items": items,
	})
}

// Helper methods

func (h *ItemsHandler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID")
		return 0, false
	}
	return id, true
}

// statusFor maps store errors to HTTP status codes.
func (h *ItemsHandler) statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteRejected):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *ItemsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// Request DTOs

// CreateItemRequest represents the request body for adding an item
type CreateItemRequest struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Perishable bool            `json:"perishable"`
	Expiry     string          `json:"expiry"`
}

// ToDomain converts the request to a domain model
func (r *CreateItemRequest) ToDomain() *domain.Item {
	return &domain.Item{
		Name:       r.Name,
		Category:   r.Category,
		Price:      r.Price,
		Quantity:   r.Quantity,
		Perishable: r.Perishable,
		Expiry:     r.Expiry,
	}
}
