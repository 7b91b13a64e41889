package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/internal/handlers"
	"github.com/smartgrocer/grocery-be/test/helpers"
)

// newCartMux wires the cart and billing routes onto a mux backed by an
// offline store carrying the built-in seed dataset.
func newCartMux(t *testing.T) (*http.ServeMux, *services.InventoryService) {
	t.Helper()

	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	cart := services.NewCartService(store, helpers.TestLogger())
	h := handlers.NewCartHandler(cart, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/cart/items", h.AddLine)
	mux.HandleFunc("DELETE /api/cart/items/{index}", h.RemoveLine)
	mux.HandleFunc("GET /api/bill", h.GetBill)
	mux.HandleFunc("POST /api/purchase", h.Purchase)
	return mux, store
}

func TestCartHandler_GetCart_Empty(t *testing.T) {
	mux, _ := newCartMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(0), body["count"])
}

func TestCartHandler_AddLine(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid_line",
			body:       `{"id": 1, "quantity": 3}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown_item",
			body:       `{"id": 999, "quantity": 1}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "zero_quantity",
			body:       `{"id": 1, "quantity": 0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient_stock",
			body:       `{"id": 10, "quantity": 3}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed_json",
			body:       `{"id": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newCartMux(t)

			rec := doRequest(t, mux, http.MethodPost, "/api/cart/items", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			decodeBody(t, rec, &body)

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, body["success"])
				return
			}
			assert.Equal(t, true, body["success"])
			assert.Equal(t, float64(1), body["count"])
		})
	}
}

func TestCartHandler_RemoveLine(t *testing.T) {
	mux, _ := newCartMux(t)

	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 1, "quantity": 2}`)
	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 3, "quantity": 1}`)

	rec := doRequest(t, mux, http.MethodDelete, "/api/cart/items/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(1), body["count"])

	rec = doRequest(t, mux, http.MethodDelete, "/api/cart/items/5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, mux, http.MethodDelete, "/api/cart/items/first", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_ClearCart(t *testing.T) {
	mux, _ := newCartMux(t)

	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 1, "quantity": 2}`)

	rec := doRequest(t, mux, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, mux, http.MethodGet, "/api/cart", "")
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, float64(0), body["count"])
}

func TestCartHandler_GetBill(t *testing.T) {
	mux, _ := newCartMux(t)

	// 3 x 180 = 540 subtotal.
	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 1, "quantity": 3}`)

	t.Run("default_rates", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/bill", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool `json:"success"`
			Bill    struct {
				Subtotal  string `json:"subtotal"`
				TaxAmount string `json:"tax_amount"`
				Total     string `json:"total"`
			} `json:"bill"`
		}
		decodeBody(t, rec, &body)
		assert.True(t, body.Success)
		assert.Equal(t, "540", body.Bill.Subtotal)
		assert.Equal(t, "27", body.Bill.TaxAmount)
		assert.Equal(t, "567", body.Bill.Total)
	})

	t.Run("explicit_rates", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/bill?discount=10&tax=0", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Bill struct {
				DiscountAmount string `json:"discount_amount"`
				Total          string `json:"total"`
			} `json:"bill"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, "54", body.Bill.DiscountAmount)
		assert.Equal(t, "486", body.Bill.Total)
	})

	t.Run("negative_rate_rejected", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/bill?discount=-5", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unparseable_rate_rejected", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/bill?discount=ten", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartHandler_Purchase(t *testing.T) {
	mux, store := newCartMux(t)

	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 1, "quantity": 3}`)

	rec := doRequest(t, mux, http.MethodPost, "/api/purchase", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Bill    struct {
			Total string `json:"total"`
		} `json:"bill"`
	}
	decodeBody(t, rec, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "567", body.Bill.Total)

	// Stock is decremented and the cart reset.
	item, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, item.Quantity)

	rec = doRequest(t, mux, http.MethodGet, "/api/cart", "")
	var cart map[string]any
	decodeBody(t, rec, &cart)
	assert.Equal(t, float64(0), cart["count"])
}

func TestCartHandler_Purchase_EmptyCart(t *testing.T) {
	mux, _ := newCartMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/purchase", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["success"])
}

func TestCartHandler_Purchase_ExplicitRates(t *testing.T) {
	mux, _ := newCartMux(t)

	doRequest(t, mux, http.MethodPost, "/api/cart/items", `{"id": 1, "quantity": 3}`)

	rec := doRequest(t, mux, http.MethodPost, "/api/purchase", `{"discount": 10, "tax": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bill struct {
			Total string `json:"total"`
		} `json:"bill"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "486", body.Bill.Total)
}
