package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"murajaah-backend/internal/models"
	"murajaah-backend/internal/services"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "created"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "created" {
		t.Errorf("Expected message 'created', got %q", result["message"])
	}
}

func TestErrorRespEchoesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/review/due", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Review item not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request ID 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"validation error",
			&services.ValidationError{Fields: map[string]string{"surah": "Surah must be between 1 and 114"}},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"invalid quality",
			&services.InvalidQualityError{Quality: 7},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"invalid limit",
			&services.InvalidLimitError{Limit: 0},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"duplicate item",
			&services.DuplicateItemError{Surah: 2, Ayah: 255},
			http.StatusConflict, "DUPLICATE_ITEM",
		},
		{
			"not due",
			&services.NotDueError{},
			http.StatusConflict, "NOT_DUE",
		},
		{
			"concurrent modification",
			&services.ConcurrentModificationError{},
			http.StatusConflict, "CONCURRENT_MODIFICATION",
		},
		{
			"not found",
			&services.NotFoundError{Message: "Review item not found"},
			http.StatusNotFound, "NOT_FOUND",
		},
		{
			"unauthorized",
			&services.UnauthorizedError{Message: "Invalid credentials"},
			http.StatusUnauthorized, "UNAUTHORIZED",
		},
		{
			"forbidden",
			&services.ForbiddenError{Message: "Not yours"},
			http.StatusForbidden, "FORBIDDEN",
		},
		{
			"conflict",
			&services.ConflictError{Message: "Email already registered"},
			http.StatusConflict, "CONFLICT",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/review/items", nil)

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleServiceError_UnknownErrorIs500(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/review/stats", nil)

	handleServiceError(rr, req, bytes.ErrTooLarge)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("Expected code INTERNAL_ERROR, got %q", resp.Error.Code)
	}
}

func TestValidationErrorIncludesFields(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/review/items", nil)

	handleServiceError(rr, req, &services.ValidationError{Fields: map[string]string{
		"ayah": "Ayah must be at least 1",
	}})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Fields["ayah"] != "Ayah must be at least 1" {
		t.Errorf("Expected field error for ayah, got %v", resp.Error.Fields)
	}
}

func TestGradeRequestParsing(t *testing.T) {
	jsonBody, _ := json.Marshal(map[string]int{"quality": 4})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/review/items/abc/grade", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.GradeRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}
	if parsed.Quality != 4 {
		t.Errorf("Expected quality 4, got %d", parsed.Quality)
	}
}

func TestAddItemRequestParsing(t *testing.T) {
	jsonBody, _ := json.Marshal(map[string]int{"surah": 2, "ayah": 255})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/review/items", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.AddItemRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}
	if parsed.Surah != 2 || parsed.Ayah != 255 {
		t.Errorf("Expected surah 2 ayah 255, got %d:%d", parsed.Surah, parsed.Ayah)
	}
}
