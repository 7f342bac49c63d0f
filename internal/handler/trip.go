package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripRepo repository.TripRepository
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripRepo repository.TripRepository) *TripHandler {
	return &TripHandler{tripRepo: tripRepo}
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID           string `json:"id"`
	LoadID       string `json:"load_id"`
	TruckID      string `json:"truck_id"`
	CarrierOrgID string `json:"carrier_org_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func tripToResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:           t.ID,
		LoadID:       t.LoadID,
		TruckID:      t.TruckID,
		CarrierOrgID: t.CarrierOrgID,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripToResponse(trip))
}

// GetByLoad handles GET /v1/loads/:id/trip
func (h *TripHandler) GetByLoad(c *gin.Context) {
	trip, err := h.tripRepo.GetByLoadID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "load has no trip"})
		return
	}

	respondJSON(c, http.StatusOK, tripToResponse(trip))
}
