package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-storefront/internal/dto/request"
	"movie-storefront/internal/usecase"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatMapHandler struct {
	service usecase.SeatMapService
	orders  usecase.OrderService
	log     *zap.Logger
}

func NewSeatMapHandler(service usecase.SeatMapService, orders usecase.OrderService, log *zap.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		service: service,
		orders:  orders,
		log:     log.With(zap.String("handler", "seatmap")),
	}
}

// CreateSession handles POST /api/seatmap
func (h *SeatMapHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSeatMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seatMap, err := h.service.CreateSession(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create seat map session")
		return
	}

	utils.ResponseCreated(w, "success", seatMap)
}

// GetSession handles GET /api/seatmap/{id}
func (h *SeatMapHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get seat map session")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// CloseSession handles DELETE /api/seatmap/{id}
func (h *SeatMapHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.service.CloseSession(chi.URLParam(r, "id"))
	utils.ResponseSuccess(w, "success", nil)
}

// SelectSeat handles POST /api/seatmap/{id}/select
func (h *SeatMapHandler) SelectSeat(w http.ResponseWriter, r *http.Request) {
	var req request.SeatActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seatMap, err := h.service.SelectSeat(chi.URLParam(r, "id"), req.SeatID)
	if err != nil {
		respondError(w, h.log, err, "select seat")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// PaintSeat handles POST /api/seatmap/{id}/paint
func (h *SeatMapHandler) PaintSeat(w http.ResponseWriter, r *http.Request) {
	var req request.SeatActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seatMap, err := h.service.PaintSeat(chi.URLParam(r, "id"), req.SeatID)
	if err != nil {
		respondError(w, h.log, err, "paint seat")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// SetMode handles PUT /api/seatmap/{id}/mode
func (h *SeatMapHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req request.SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	seatMap, err := h.service.SetMode(chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "set seat map mode")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// SaveLayout handles POST /api/seatmap/{id}/layout
func (h *SeatMapHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	var req request.SaveLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	seatMap, err := h.service.SaveLayout(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "save layout")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// CancelEdit handles POST /api/seatmap/{id}/cancel-edit
func (h *SeatMapHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.CancelEdit(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "cancel edit")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// LoadLayout handles PUT /api/seatmap/{id}/layout/{layoutId}
func (h *SeatMapHandler) LoadLayout(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.LoadLayout(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "layoutId"))
	if err != nil {
		respondError(w, h.log, err, "load layout")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// AdjustQuantity handles POST /api/seatmap/{id}/tickets
func (h *SeatMapHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req request.AdjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	seatMap, err := h.service.AdjustQuantity(chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "adjust ticket quantity")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// Checkout handles POST /api/seatmap/{id}/checkout. The reconciler produces
// the checkout data; queue insertion happens here, so the engine never
// persists anything itself.
func (h *SeatMapHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Checkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "checkout")
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	order, err := h.orders.Create(r.Context(), data, userID)
	if err != nil {
		respondError(w, h.log, err, "queue order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// ListLayouts handles GET /api/layouts
func (h *SeatMapHandler) ListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.service.ListLayouts(r.Context())
	if err != nil {
		respondError(w, h.log, err, "list layouts")
		return
	}

	utils.ResponseSuccess(w, "success", layouts)
}

// GetLayout handles GET /api/layouts/{id}
func (h *SeatMapHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	layout, err := h.service.GetLayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get layout")
		return
	}

	utils.ResponseSuccess(w, "success", layout)
}

// DeleteLayout handles DELETE /api/layouts/{id}
func (h *SeatMapHandler) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLayout(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete layout")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
