package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sampark/sampark/internal/middleware"
	"github.com/sampark/sampark/internal/service"
	"github.com/sirupsen/logrus"
)

type GrievanceHandlers struct {
	grievances *service.GrievanceService
	validate   *validator.Validate
	logger     *logrus.Logger
}

func NewGrievanceHandlers(grievances *service.GrievanceService, logger *logrus.Logger) *GrievanceHandlers {
	return &GrievanceHandlers{
		grievances: grievances,
		validate:   validator.New(),
		logger:     logger,
	}
}

type CreateGrievanceRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10"`
	Category    string `json:"category" validate:"required"`
	Location    string `json:"location"`
}

type GrievanceResponse struct {
	TrackingID  string    `json:"tracking_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Create submits a grievance for the authenticated account and returns its
// public tracking ID.
func (h *GrievanceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateGrievanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Title, description and category are required")
		return
	}

	grievance, err := h.grievances.Submit(r.Context(), email, service.GrievanceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrAllocationExhausted) {
			h.logger.WithError(err).Error("Tracking ID allocation exhausted")
			h.respondWithError(w, http.StatusServiceUnavailable, "TRACKING_ID_EXHAUSTED", "Could not allocate a tracking ID, please try again")
			return
		}
		h.logger.WithError(err).Error("Failed to submit grievance")
		h.respondWithError(w, http.StatusInternalServerError, "SUBMISSION_FAILED", "Failed to submit grievance")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, GrievanceResponse{
		TrackingID:  grievance.TrackingID,
		Title:       grievance.Title,
		Category:    grievance.Category,
		Status:      grievance.Status,
		SubmittedAt: grievance.CreatedAt,
	})
}

// Track is the public status lookup by tracking ID.
func (h *GrievanceHandlers) Track(w http.ResponseWriter, r *http.Request) {
	trackingID := mux.Vars(r)["trackingId"]
	if trackingID == "" {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_TRACKING_ID", "Tracking ID is required")
		return
	}

	grievance, err := h.grievances.Track(r.Context(), trackingID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up grievance")
		h.respondWithError(w, http.StatusInternalServerError, "LOOKUP_FAILED", "Failed to look up grievance")
		return
	}

	if grievance == nil {
		h.respondWithError(w, http.StatusNotFound, "NOT_FOUND", "No grievance found for this tracking ID")
		return
	}

	h.respondWithJSON(w, http.StatusOK, GrievanceResponse{
		TrackingID:  grievance.TrackingID,
		Title:       grievance.Title,
		Category:    grievance.Category,
		Status:      grievance.Status,
		SubmittedAt: grievance.CreatedAt,
	})
}

func (h *GrievanceHandlers) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *GrievanceHandlers) respondWithError(w http.ResponseWriter, status int, code, message string) {
	h.respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
