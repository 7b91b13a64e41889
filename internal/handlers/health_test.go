package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/internal/handlers"
	"github.com/smartgrocer/grocery-be/test/helpers"
)

func newHealthMux(t *testing.T, remote *helpers.FakeRemote) *http.ServeMux {
	t.Helper()

	store := services.NewInventoryService(remote, nil, nil, helpers.TestLogger())
	h := handlers.NewHealthHandler(store, remote, nil, helpers.LoadTestConfig(), helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /ready", h.Readiness)
	return mux
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		down       bool
		wantRemote string
	}{
		{
			name:       "remote_reachable",
			down:       false,
			wantRemote: "healthy",
		},
		{
			name:       "remote_unreachable",
			down:       true,
			wantRemote: "unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := helpers.NewFakeRemote(nil)
			remote.SetDown(tt.down)
			mux := newHealthMux(t, remote)

			rec := doRequest(t, mux, http.MethodGet, "/api/health", "")

			// Offline mode is a supported state, so the endpoint stays 200.
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Status     string `json:"status"`
				Mode       string `json:"mode"`
				ItemsCount int    `json:"items_count"`
				Services   map[string]struct {
					Status string `json:"status"`
				} `json:"services"`
			}
			decodeBody(t, rec, &body)
			assert.Equal(t, "OK", body.Status)
			assert.Equal(t, "offline", body.Mode)
			assert.Equal(t, 20, body.ItemsCount)
			assert.Equal(t, tt.wantRemote, body.Services["remote_inventory"].Status)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	mux := newHealthMux(t, helpers.NewFakeRemote(nil))

	rec := doRequest(t, mux, http.MethodGet, "/ready", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, "offline", body["mode"])
}
