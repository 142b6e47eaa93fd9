package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/kvstore"
	"movie-storefront/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	store := kvstore.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	repo := repository.NewRepository(store, zap.NewNop())
	cfg := &utils.Config{
		Pricing: utils.PricingConfig{
			BasePrice:          12.0,
			SecondRatio:        0.85,
			ThirdRatio:         0.6,
			TaxRate:            0.08,
			DefaultQuantityCap: 4,
		},
		Session: utils.SessionConfig{ExpiryHours: 1},
	}

	return Wiring(repo, cfg, zap.NewNop())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func doJSON(t *testing.T, app *App, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSeatMapEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id":    603,
		"movie_title": "The Matrix",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Status)

	var session struct {
		SessionID       string   `json:"session_id"`
		Mode            string   `json:"mode"`
		SelectedSeatIDs []string `json:"selected_seat_ids"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.SessionID)
	assert.Equal(t, "viewer", session.Mode)
	assert.ElementsMatch(t, []string{"F6", "F7"}, session.SelectedSeatIDs)

	rec, env = doJSON(t, app, http.MethodPost, "/api/seatmap/"+session.SessionID+"/select", map[string]any{
		"seat_id": "A3",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Len(t, session.SelectedSeatIDs, 3)

	rec, _ = doJSON(t, app, http.MethodGet, "/api/seatmap/"+session.SessionID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSeatMap_ValidationFailure(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id": 603,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Status)
}

func TestSeatMap_UnknownSession(t *testing.T) {
	app := newTestApp(t)

	rec, _ := doJSON(t, app, http.MethodGet, "/api/seatmap/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutMismatchMapsTo422(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id":    603,
		"movie_title": "The Matrix",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	// One more selected seat than tickets.
	_, env = doJSON(t, app, http.MethodPost, "/api/seatmap/"+session.SessionID+"/tickets", map[string]any{
		"category": "adult",
		"delta":    -1,
	})

	rec, env = doJSON(t, app, http.MethodPost, "/api/seatmap/"+session.SessionID+"/checkout", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var counts struct {
		Tickets int `json:"tickets"`
		Seats   int `json:"seats"`
		Delta   int `json:"delta"`
	}
	require.NoError(t, json.Unmarshal(env.Errors, &counts))
	assert.Equal(t, 1, counts.Tickets)
	assert.Equal(t, 2, counts.Seats)
	assert.Equal(t, -1, counts.Delta)
}

func TestOrderAndCheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id":    603,
		"movie_title": "The Matrix",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	rec, env = doJSON(t, app, http.MethodPost, "/api/seatmap/"+session.SessionID+"/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.NotEmpty(t, order.ID)

	rec, env = doJSON(t, app, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Batch checkout: begin, continue, pay, finish.
	rec, env = doJSON(t, app, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var checkout struct {
		SessionID string `json:"session_id"`
		State     string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.Equal(t, "select", checkout.State)

	rec, env = doJSON(t, app, http.MethodPost, "/api/checkout/"+checkout.SessionID+"/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, app, http.MethodPost, "/api/checkout/"+checkout.SessionID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.Equal(t, "confirmation", checkout.State)

	rec, env = doJSON(t, app, http.MethodPost, "/api/checkout/"+checkout.SessionID+"/finish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var finish struct {
		SettledOrderIDs []string `json:"settled_order_ids"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &finish))
	assert.Equal(t, []string{order.ID}, finish.SettledOrderIDs)

	// The settled order left the queue.
	rec, env = doJSON(t, app, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders = nil
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders)
}

func TestAuthFlowAttributesOrder(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/register", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)

	rec, env = doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id":    603,
		"movie_title": "The Matrix",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/seatmap/%s/checkout", session.SessionID), &buf)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	recorder := httptest.NewRecorder()
	app.Router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	var order struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &order))
	assert.NotEmpty(t, order.UserID)
}

func TestLayoutEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec, env := doJSON(t, app, http.MethodPost, "/api/seatmap", map[string]any{
		"movie_id":    603,
		"movie_title": "The Matrix",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	rec, _ = doJSON(t, app, http.MethodPut, "/api/seatmap/"+session.SessionID+"/mode", map[string]any{
		"mode": "editor",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, app, http.MethodPost, "/api/seatmap/"+session.SessionID+"/layout", map[string]any{
		"name": "Main Hall",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var saved struct {
		LayoutID string `json:"layout_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	require.NotEmpty(t, saved.LayoutID)

	rec, env = doJSON(t, app, http.MethodGet, "/api/layouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var layouts []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &layouts))
	require.Len(t, layouts, 1)

	rec, _ = doJSON(t, app, http.MethodGet, "/api/layouts/"+saved.LayoutID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, app, http.MethodDelete, "/api/layouts/"+saved.LayoutID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, app, http.MethodGet, "/api/layouts/"+saved.LayoutID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	app := newTestApp(t)

	body := map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	}
	rec, _ := doJSON(t, app, http.MethodPost, "/api/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, app, http.MethodPost, "/api/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Status)
}

func TestLogoutRequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec, _ := doJSON(t, app, http.MethodPost, "/api/logout", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
