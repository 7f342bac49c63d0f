package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// LoadHandler handles HTTP requests for loads and their lifecycle.
type LoadHandler struct {
	loadService       *service.LoadService
	assignmentService *service.AssignmentService
	settlementService *service.SettlementService
	feeLedger         *service.FeeLedgerService
	loadRepo          repository.LoadRepository
	corridorRepo      repository.CorridorRepository
	eventRepo         repository.EventRepository
	ledgerRepo        repository.LedgerRepository
}

// NewLoadHandler creates a new LoadHandler.
func NewLoadHandler(
	loadService *service.LoadService,
	assignmentService *service.AssignmentService,
	settlementService *service.SettlementService,
	feeLedger *service.FeeLedgerService,
	loadRepo repository.LoadRepository,
	corridorRepo repository.CorridorRepository,
	eventRepo repository.EventRepository,
	ledgerRepo repository.LedgerRepository,
) *LoadHandler {
	return &LoadHandler{
		loadService:       loadService,
		assignmentService: assignmentService,
		settlementService: settlementService,
		feeLedger:         feeLedger,
		loadRepo:          loadRepo,
		corridorRepo:      corridorRepo,
		eventRepo:         eventRepo,
		ledgerRepo:        ledgerRepo,
	}
}

// CreateLoadRequest is the HTTP request body for creating a load.
type CreateLoadRequest struct {
	CorridorID string          `json:"corridor_id,omitempty"`
	BaseFare   decimal.Decimal `json:"base_fare"`
	PricePerKm decimal.Decimal `json:"price_per_km"`
	DistanceKm decimal.Decimal `json:"distance_km"`
	FlatRate   decimal.Decimal `json:"flat_rate"`
	Currency   string          `json:"currency,omitempty"`
}

// UpdateStatusRequest is the HTTP request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateLoadRequestBody is the HTTP request body for a carrier load request.
type CreateLoadRequestBody struct {
	TruckID string `json:"truck_id"`
}

// LoadResponse is the HTTP representation of a load.
type LoadResponse struct {
	ID              string `json:"id"`
	ShipperOrgID    string `json:"shipper_org_id"`
	CorridorID      string `json:"corridor_id,omitempty"`
	AssignedTruckID string `json:"assigned_truck_id,omitempty"`
	Status          string `json:"status"`

	BaseFare   decimal.Decimal `json:"base_fare"`
	PricePerKm decimal.Decimal `json:"price_per_km"`
	TotalFare  decimal.Decimal `json:"total_fare"`
	FlatRate   decimal.Decimal `json:"flat_rate"`
	DistanceKm decimal.Decimal `json:"distance_km"`
	Currency   string          `json:"currency"`

	ServiceFeeAmount decimal.Decimal `json:"service_fee_amount"`
	ServiceFeeStatus string          `json:"service_fee_status"`
	SettlementStatus string          `json:"settlement_status"`

	PODSubmitted    bool `json:"pod_submitted"`
	PODVerified     bool `json:"pod_verified"`
	TrackingEnabled bool `json:"tracking_enabled"`

	ShipperCommission  decimal.Decimal `json:"shipper_commission"`
	CarrierCommission  decimal.Decimal `json:"carrier_commission"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`

	CreatedAt  string `json:"created_at"`
	PostedAt   string `json:"posted_at,omitempty"`
	AssignedAt string `json:"assigned_at,omitempty"`
	SettledAt  string `json:"settled_at,omitempty"`
}

func loadToResponse(l *domain.Load) LoadResponse {
	resp := LoadResponse{
		ID:                 l.ID,
		ShipperOrgID:       l.ShipperOrgID,
		CorridorID:         l.CorridorID,
		AssignedTruckID:    l.AssignedTruckID,
		Status:             string(l.Status),
		BaseFare:           l.BaseFare,
		PricePerKm:         l.PricePerKm,
		TotalFare:          l.TotalFare,
		FlatRate:           l.FlatRate,
		DistanceKm:         l.DistanceKm,
		Currency:           l.Currency,
		ServiceFeeAmount:   l.ServiceFeeAmount,
		ServiceFeeStatus:   string(l.ServiceFeeStatus),
		SettlementStatus:   string(l.SettlementStatus),
		PODSubmitted:       l.PODSubmitted,
		PODVerified:        l.PODVerified,
		TrackingEnabled:    l.TrackingEnabled,
		ShipperCommission:  l.ShipperCommission,
		CarrierCommission:  l.CarrierCommission,
		PlatformCommission: l.PlatformCommission,
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
	}
	if !l.PostedAt.IsZero() {
		resp.PostedAt = l.PostedAt.Format(time.RFC3339)
	}
	if !l.AssignedAt.IsZero() {
		resp.AssignedAt = l.AssignedAt.Format(time.RFC3339)
	}
	if !l.SettledAt.IsZero() {
		resp.SettledAt = l.SettledAt.Format(time.RFC3339)
	}
	return resp
}

// CreateLoad handles POST /v1/loads
func (h *LoadHandler) CreateLoad(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var req CreateLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	load, err := h.loadService.CreateLoad(c.Request.Context(), identity, service.CreateLoadRequest{
		CorridorID: req.CorridorID,
		BaseFare:   req.BaseFare,
		PricePerKm: req.PricePerKm,
		DistanceKm: req.DistanceKm,
		FlatRate:   req.FlatRate,
		Currency:   req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, loadToResponse(load))
}

// GetLoad handles GET /v1/loads/:id
func (h *LoadHandler) GetLoad(c *gin.Context) {
	load, err := h.loadRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, loadToResponse(load))
}

// GetAll handles GET /v1/loads
func (h *LoadHandler) GetAll(c *gin.Context) {
	loads, err := h.loadRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LoadResponse, 0, len(loads))
	for _, l := range loads {
		response = append(response, loadToResponse(l))
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles POST /v1/loads/:id/status
func (h *LoadHandler) UpdateStatus(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	load, err := h.loadService.UpdateStatus(c.Request.Context(), identity, c.Param("id"), domain.LoadStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, loadToResponse(load))
}

// CancelLoad handles POST /v1/loads/:id/cancel
func (h *LoadHandler) CancelLoad(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	load, err := h.loadService.UpdateStatus(c.Request.Context(), identity, c.Param("id"), domain.LoadStatusCancelled)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, loadToResponse(load))
}

// SubmitPOD handles POST /v1/loads/:id/pod
func (h *LoadHandler) SubmitPOD(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	load, err := h.loadService.SubmitPOD(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, loadToResponse(load))
}

// VerifyPOD handles POST /v1/loads/:id/pod/verify
func (h *LoadHandler) VerifyPOD(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	load, err := h.loadService.VerifyPOD(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, loadToResponse(load))
}

// SettlementResponse is the HTTP response for processing a settlement.
type SettlementResponse struct {
	LoadID         string          `json:"load_id"`
	ShipperAmount  decimal.Decimal `json:"shipper_amount"`
	CarrierAmount  decimal.Decimal `json:"carrier_amount"`
	PlatformAmount decimal.Decimal `json:"platform_amount"`
	TransactionID  string          `json:"transaction_id"`
}

// Settle handles POST /v1/loads/:id/settle
func (h *LoadHandler) Settle(c *gin.Context) {
	loadID := c.Param("id")

	result, err := h.settlementService.ProcessSettlement(c.Request.Context(), loadID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SettlementResponse{
		LoadID:         loadID,
		ShipperAmount:  result.ShipperAmount,
		CarrierAmount:  result.CarrierAmount,
		PlatformAmount: result.PlatformAmount,
		TransactionID:  result.TransactionID,
	})
}

// DeductFee handles POST /v1/loads/:id/fees/deduct
func (h *LoadHandler) DeductFee(c *gin.Context) {
	result, err := h.feeLedger.DeductServiceFee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FeeOpSummary{
		ShipperFee:       result.ShipperFee,
		CarrierFee:       result.CarrierFee,
		TotalPlatformFee: result.TotalPlatformFee,
		TransactionID:    result.TransactionID,
	})
}

// RefundFee handles POST /v1/loads/:id/fees/refund
func (h *LoadHandler) RefundFee(c *gin.Context) {
	result, err := h.feeLedger.RefundServiceFee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FeeOpSummary{
		TotalPlatformFee: result.ServiceFee,
		TransactionID:    result.TransactionID,
	})
}

// FeePreviewResponse is the HTTP response for a fee preview.
type FeePreviewResponse struct {
	LoadID           string          `json:"load_id"`
	ShipperFee       decimal.Decimal `json:"shipper_fee"`
	CarrierFee       decimal.Decimal `json:"carrier_fee"`
	TotalPlatformFee decimal.Decimal `json:"total_platform_fee"`
}

// FeePreview handles GET /v1/loads/:id/fee-preview
func (h *LoadHandler) FeePreview(c *gin.Context) {
	ctx := c.Request.Context()

	load, err := h.loadRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var preview service.DualPartyFeePreview
	switch {
	case load.CorridorID != "":
		corridor, err := h.corridorRepo.GetByID(ctx, load.CorridorID)
		if err != nil {
			respondError(c, err)
			return
		}
		preview = service.CorridorFeePreview(corridor)
	case load.DistanceKm.IsPositive() && load.PricePerKm.IsPositive():
		shipper := service.CalculateFeePreview(load.DistanceKm, load.PricePerKm, false, decimal.Zero)
		preview = service.DualPartyFeePreview{Shipper: shipper, TotalPlatformFee: shipper.FinalFee}
	default:
		respondError(c, service.ErrNoFeeConfig)
		return
	}

	respondJSON(c, http.StatusOK, FeePreviewResponse{
		LoadID:           load.ID,
		ShipperFee:       preview.Shipper.FinalFee,
		CarrierFee:       preview.Carrier.FinalFee,
		TotalPlatformFee: preview.TotalPlatformFee,
	})
}

// EventResponse is the HTTP representation of a domain event.
type EventResponse struct {
	ID        string         `json:"id"`
	LoadID    string         `json:"load_id"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// GetEvents handles GET /v1/loads/:id/events
func (h *LoadHandler) GetEvents(c *gin.Context) {
	events, err := h.eventRepo.ListByLoadID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, EventResponse{
			ID:        e.ID,
			LoadID:    e.LoadID,
			Kind:      string(e.Kind),
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// JournalLineResponse is the HTTP representation of a journal line.
type JournalLineResponse struct {
	WalletID string          `json:"wallet_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// JournalEntryResponse is the HTTP representation of a journal entry.
type JournalEntryResponse struct {
	ID        string                `json:"id"`
	Type      string                `json:"type"`
	Reference string                `json:"reference"`
	Memo      string                `json:"memo,omitempty"`
	CreatedAt string                `json:"created_at"`
	Lines     []JournalLineResponse `json:"lines"`
}

// GetLedger handles GET /v1/loads/:id/ledger
func (h *LoadHandler) GetLedger(c *gin.Context) {
	entries, err := h.ledgerRepo.ListByLoadID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		lines := make([]JournalLineResponse, 0, len(e.Lines))
		for _, l := range e.Lines {
			lines = append(lines, JournalLineResponse{WalletID: l.WalletID, Amount: l.Amount})
		}
		response = append(response, JournalEntryResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Reference: e.Reference,
			Memo:      e.Memo,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
			Lines:     lines,
		})
	}

	c.JSON(http.StatusOK, response)
}

// LoadRequestResponse is the HTTP representation of a carrier load request.
type LoadRequestResponse struct {
	ID           string `json:"id"`
	LoadID       string `json:"load_id"`
	TruckID      string `json:"truck_id"`
	CarrierOrgID string `json:"carrier_org_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// CreateRequest handles POST /v1/loads/:id/requests
func (h *LoadHandler) CreateRequest(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var req CreateLoadRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.assignmentService.CreateLoadRequest(c.Request.Context(), identity, c.Param("id"), req.TruckID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, LoadRequestResponse{
		ID:           request.ID,
		LoadID:       request.LoadID,
		TruckID:      request.TruckID,
		CarrierOrgID: request.CarrierOrgID,
		Status:       string(request.Status),
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
	})
}

// ApproveRequestResponse is the HTTP response for approving a load request.
type ApproveRequestResponse struct {
	Load       LoadResponse  `json:"load"`
	TripID     string        `json:"trip_id,omitempty"`
	Idempotent bool          `json:"idempotent"`
	Fee        *FeeOpSummary `json:"fee,omitempty"`
}

// FeeOpSummary is the HTTP representation of a fee operation outcome.
type FeeOpSummary struct {
	ShipperFee       decimal.Decimal `json:"shipper_fee"`
	CarrierFee       decimal.Decimal `json:"carrier_fee"`
	TotalPlatformFee decimal.Decimal `json:"total_platform_fee"`
	TransactionID    string          `json:"transaction_id"`
}

// ApproveRequest handles POST /v1/requests/:id/approve
func (h *LoadHandler) ApproveRequest(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.assignmentService.ApproveLoadRequest(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := ApproveRequestResponse{
		Load:       loadToResponse(result.Load),
		Idempotent: result.Idempotent,
	}
	if result.Trip != nil {
		response.TripID = result.Trip.ID
	}
	if result.Fee != nil {
		response.Fee = &FeeOpSummary{
			ShipperFee:       result.Fee.ShipperFee,
			CarrierFee:       result.Fee.CarrierFee,
			TotalPlatformFee: result.Fee.TotalPlatformFee,
			TransactionID:    result.Fee.TransactionID,
		}
	}

	respondJSON(c, http.StatusOK, response)
}
