package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// RegistryHandler handles registration of the reference entities the
// lifecycle operates on: organizations, trucks and corridors.
type RegistryHandler struct {
	txm          repository.TxManager
	orgRepo      repository.OrganizationRepository
	truckRepo    repository.TruckRepository
	corridorRepo repository.CorridorRepository
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(
	txm repository.TxManager,
	orgRepo repository.OrganizationRepository,
	truckRepo repository.TruckRepository,
	corridorRepo repository.CorridorRepository,
) *RegistryHandler {
	return &RegistryHandler{
		txm:          txm,
		orgRepo:      orgRepo,
		truckRepo:    truckRepo,
		corridorRepo: corridorRepo,
	}
}

// RegisterOrgRequest is the HTTP request body for registering an organization.
type RegisterOrgRequest struct {
	Name              string          `json:"name"`
	Type              string          `json:"type"` // SHIPPER_WALLET or CARRIER_WALLET
	CommissionRatePct decimal.Decimal `json:"commission_rate_pct"`
	Currency          string          `json:"currency,omitempty"`
}

// RegisterOrgResponse is the HTTP response for registering an organization.
type RegisterOrgResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CommissionRatePct decimal.Decimal `json:"commission_rate_pct"`
	WalletID          string          `json:"wallet_id"`
}

// RegisterOrg handles POST /v1/organizations
//
// The organization and its wallet are created together so every org can
// take part in fee and settlement flows from the start.
func (h *RegistryHandler) RegisterOrg(c *gin.Context) {
	var req RegisterOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	walletType := domain.WalletType(req.Type)
	switch walletType {
	case domain.WalletTypeShipper, domain.WalletTypeCarrier:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "type must be SHIPPER_WALLET or CARRIER_WALLET"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	now := time.Now()
	org := &domain.Organization{
		ID:                uuid.New().String(),
		Name:              req.Name,
		CommissionRatePct: req.CommissionRatePct,
		CreatedAt:         now,
	}
	wallet := &domain.Wallet{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Type:           walletType,
		Currency:       currency,
		Balance:        decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := h.txm.RunInTx(c.Request.Context(), func(tx repository.Tx) error {
		if err := tx.Organizations().Create(c.Request.Context(), org); err != nil {
			return err
		}
		return tx.Wallets().Create(c.Request.Context(), wallet)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RegisterOrgResponse{
		ID:                org.ID,
		Name:              org.Name,
		CommissionRatePct: org.CommissionRatePct,
		WalletID:          wallet.ID,
	})
}

// GetOrg handles GET /v1/organizations/:id
func (h *RegistryHandler) GetOrg(c *gin.Context) {
	org, err := h.orgRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, RegisterOrgResponse{
		ID:                org.ID,
		Name:              org.Name,
		CommissionRatePct: org.CommissionRatePct,
	})
}

// RegisterTruckRequest is the HTTP request body for registering a truck.
type RegisterTruckRequest struct {
	Plate string `json:"plate"`
}

// TruckResponse is the HTTP representation of a truck.
type TruckResponse struct {
	ID           string `json:"id"`
	CarrierOrgID string `json:"carrier_org_id"`
	Plate        string `json:"plate"`
	Active       bool   `json:"active"`
}

// RegisterTruck handles POST /v1/trucks
func (h *RegistryHandler) RegisterTruck(c *gin.Context) {
	identity, err := identityFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var req RegisterTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Plate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "plate is required"})
		return
	}

	truck := &domain.Truck{
		ID:           uuid.New().String(),
		CarrierOrgID: identity.OrganizationID,
		Plate:        req.Plate,
		Active:       true,
		CreatedAt:    time.Now(),
	}

	if err := h.truckRepo.Create(c.Request.Context(), truck); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, TruckResponse{
		ID:           truck.ID,
		CarrierOrgID: truck.CarrierOrgID,
		Plate:        truck.Plate,
		Active:       truck.Active,
	})
}

// RegisterCorridorRequest is the HTTP request body for registering a corridor.
type RegisterCorridorRequest struct {
	OriginRegion      string          `json:"origin_region"`
	DestinationRegion string          `json:"destination_region"`
	DistanceKm        decimal.Decimal `json:"distance_km"`

	ShipperPricePerKm  decimal.Decimal `json:"shipper_price_per_km"`
	ShipperPromoActive bool            `json:"shipper_promo_active"`
	ShipperPromoPct    decimal.Decimal `json:"shipper_promo_pct"`

	CarrierPricePerKm  decimal.Decimal `json:"carrier_price_per_km"`
	CarrierPromoActive bool            `json:"carrier_promo_active"`
	CarrierPromoPct    decimal.Decimal `json:"carrier_promo_pct"`
}

// RegisterCorridor handles POST /v1/corridors
func (h *RegistryHandler) RegisterCorridor(c *gin.Context) {
	var req RegisterCorridorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if !req.DistanceKm.IsPositive() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "distance_km must be positive"})
		return
	}

	corridor := &domain.Corridor{
		ID:                 uuid.New().String(),
		OriginRegion:       req.OriginRegion,
		DestinationRegion:  req.DestinationRegion,
		DistanceKm:         req.DistanceKm,
		ShipperPricePerKm:  req.ShipperPricePerKm,
		ShipperPromoActive: req.ShipperPromoActive,
		ShipperPromoPct:    req.ShipperPromoPct,
		CarrierPricePerKm:  req.CarrierPricePerKm,
		CarrierPromoActive: req.CarrierPromoActive,
		CarrierPromoPct:    req.CarrierPromoPct,
	}

	if err := h.corridorRepo.Create(c.Request.Context(), corridor); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"id": corridor.ID})
}
