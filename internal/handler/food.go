package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/foodmenu/internal/dashboard"
	"github.com/dukerupert/foodmenu/internal/foodapi"
	"github.com/dukerupert/foodmenu/internal/model"
)

type FoodHandler struct {
	ctrl   *dashboard.Controller
	logger *slog.Logger
}

func NewFoodHandler(ctrl *dashboard.Controller, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{ctrl: ctrl, logger: logger}
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

type editingResponse struct {
	Food     model.Food         `json:"food"`
	Surfaces dashboard.Surfaces `json:"surfaces"`
}

func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Items())
}

func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.FoodDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// The controller already logs create failures.
	food, err := h.ctrl.Create(r.Context(), d)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to create food")
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

func (h *FoodHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}

	food, err := h.ctrl.Get(id)
	if err != nil {
		h.fail(w, r, "set availability", err)
		return
	}
	food.Available = *req.Available

	if err := h.ctrl.SetAvailability(r.Context(), food); err != nil {
		h.fail(w, r, "set availability", err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *FoodHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	food, err := h.ctrl.Get(id)
	if err != nil {
		h.fail(w, r, "edit", err)
		return
	}

	h.ctrl.SetEditingTarget(food)
	writeJSON(w, http.StatusOK, editingResponse{Food: food, Surfaces: h.ctrl.Surfaces()})
}

func (h *FoodHandler) Editing(w http.ResponseWriter, r *http.Request) {
	food, ok := h.ctrl.Editing()
	if !ok {
		writeError(w, http.StatusNotFound, dashboard.ErrNoEditingTarget.Error())
		return
	}
	writeJSON(w, http.StatusOK, editingResponse{Food: food, Surfaces: h.ctrl.Surfaces()})
}

func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	var d model.FoodDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	food, err := h.ctrl.Update(r.Context(), d)
	if err != nil {
		h.fail(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.ctrl.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FoodHandler) Surfaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Surfaces())
}

func (h *FoodHandler) ToggleCreate(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ToggleCreateSurface()
	writeJSON(w, http.StatusOK, h.ctrl.Surfaces())
}

func (h *FoodHandler) ToggleEdit(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ToggleEditSurface()
	writeJSON(w, http.StatusOK, h.ctrl.Surfaces())
}

// fail maps controller and remote errors to a response.
func (h *FoodHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		writeError(w, http.StatusNotFound, "food not found")
	case errors.Is(err, dashboard.ErrNoEditingTarget):
		writeError(w, http.StatusNotFound, err.Error())
	case foodapi.IsNotFound(err):
		h.logger.Info("food gone remotely", "op", op, "error", err)
		writeError(w, http.StatusNotFound, "food not found")
	default:
		h.logger.Warn("remote call failed", "op", op, "error", err)
		writeError(w, http.StatusBadGateway, "foods API unavailable")
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
