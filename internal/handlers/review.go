package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"murajaah-backend/internal/middleware"
	"murajaah-backend/internal/models"
	"murajaah-backend/internal/services"
)

type ReviewHandler struct {
	reviewService   *services.ReviewService
	dueLimitDefault int
}

func NewReviewHandler(reviewService *services.ReviewService, dueLimitDefault int) *ReviewHandler {
	return &ReviewHandler{
		reviewService:   reviewService,
		dueLimitDefault: dueLimitDefault,
	}
}

func (h *ReviewHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	schedule, err := h.reviewService.AddItem(r.Context(), userID, req.Surah, req.Ayah)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"schedule": schedule})
}

func (h *ReviewHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	schedules, err := h.reviewService.ListItems(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch review items", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": schedules})
}

func (h *ReviewHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid item ID", r))
		return
	}

	schedule, err := h.reviewService.GetItem(r.Context(), userID, scheduleID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": schedule})
}

func (h *ReviewHandler) Grade(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid item ID", r))
		return
	}

	var req models.GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	schedule, err := h.reviewService.SubmitReview(r.Context(), userID, scheduleID, req.Quality)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": schedule})
}

func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	surah := 0
	if raw := r.URL.Query().Get("surah"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid surah", r))
			return
		}
		surah = n
	}

	limit := h.dueLimitDefault
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid limit", r))
			return
		}
		limit = n
	}

	difficulty := r.URL.Query().Get("difficulty")

	items, err := h.reviewService.GetDueItems(r.Context(), userID, surah, difficulty, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (h *ReviewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid item ID", r))
		return
	}

	schedule, err := h.reviewService.ResetItem(r.Context(), userID, scheduleID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": schedule})
}

func (h *ReviewHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid item ID", r))
		return
	}

	if err := h.reviewService.RemoveItem(r.Context(), userID, scheduleID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Review item removed"})
}

func (h *ReviewHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	progress, err := h.reviewService.GetProgress(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.reviewService.GetStats(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
