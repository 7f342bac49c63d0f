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

// WalletHandler handles HTTP requests for wallets and withdrawals.
type WalletHandler struct {
	feeLedger      *service.FeeLedgerService
	walletRepo     repository.WalletRepository
	withdrawalRepo repository.WithdrawalRepository
	ledgerRepo     repository.LedgerRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	feeLedger *service.FeeLedgerService,
	walletRepo repository.WalletRepository,
	withdrawalRepo repository.WithdrawalRepository,
	ledgerRepo repository.LedgerRepository,
) *WalletHandler {
	return &WalletHandler{
		feeLedger:      feeLedger,
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// WalletResponse is the HTTP representation of a wallet.
type WalletResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
}

// DepositRequest is the HTTP request body for a wallet deposit.
type DepositRequest struct {
	OrgID      string          `json:"org_id"`
	WalletType string          `json:"wallet_type"`
	Amount     decimal.Decimal `json:"amount"`
}

// WithdrawalRequestBody is the HTTP request body for a withdrawal request.
type WithdrawalRequestBody struct {
	OrgID      string          `json:"org_id"`
	WalletType string          `json:"wallet_type"`
	Amount     decimal.Decimal `json:"amount"`
}

// WithdrawalResponse is the HTTP representation of a withdrawal request.
type WithdrawalResponse struct {
	ID          string          `json:"id"`
	WalletID    string          `json:"wallet_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	RequestedAt string          `json:"requested_at"`
}

func walletToResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID,
		OrganizationID: w.OrganizationID,
		Type:           string(w.Type),
		Currency:       w.Currency,
		Balance:        w.Balance,
	}
}

// GetWallet handles GET /v1/wallets/:org?type=SHIPPER_WALLET
func (h *WalletHandler) GetWallet(c *gin.Context) {
	walletType := domain.WalletType(c.Query("type"))
	if walletType == "" {
		walletType = domain.WalletTypeShipper
	}

	wallet, err := h.walletRepo.GetByOrg(c.Request.Context(), c.Param("org"), walletType)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, walletToResponse(wallet))
}

// Deposit handles POST /v1/wallets/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	wallet, err := h.feeLedger.Deposit(c.Request.Context(), req.OrgID, domain.WalletType(req.WalletType), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, walletToResponse(wallet))
}

// RequestWithdrawal handles POST /v1/wallets/withdrawals
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawalRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	withdrawal, err := h.feeLedger.RequestWithdrawal(c.Request.Context(), req.OrgID, domain.WalletType(req.WalletType), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, WithdrawalResponse{
		ID:          withdrawal.ID,
		WalletID:    withdrawal.WalletID,
		Amount:      withdrawal.Amount,
		Status:      string(withdrawal.Status),
		RequestedAt: withdrawal.RequestedAt.Format(time.RFC3339),
	})
}

// ListWithdrawals handles GET /v1/wallets/:org/withdrawals?type=SHIPPER_WALLET
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	ctx := c.Request.Context()

	walletType := domain.WalletType(c.Query("type"))
	if walletType == "" {
		walletType = domain.WalletTypeShipper
	}

	wallet, err := h.walletRepo.GetByOrg(ctx, c.Param("org"), walletType)
	if err != nil {
		respondError(c, err)
		return
	}

	withdrawals, err := h.withdrawalRepo.ListByWalletID(ctx, wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		response = append(response, WithdrawalResponse{
			ID:          w.ID,
			WalletID:    w.WalletID,
			Amount:      w.Amount,
			Status:      string(w.Status),
			RequestedAt: w.RequestedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}

// WalletAuditResponse reports whether a wallet balance matches its ledger.
type WalletAuditResponse struct {
	WalletID   string          `json:"wallet_id"`
	Balance    decimal.Decimal `json:"balance"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Consistent bool            `json:"consistent"`
}

// Audit handles GET /v1/wallets/:org/audit?type=SHIPPER_WALLET
//
// It recomputes the balance from journal history; a mismatch means a wallet
// mutation escaped its ledger pairing.
func (h *WalletHandler) Audit(c *gin.Context) {
	ctx := c.Request.Context()

	walletType := domain.WalletType(c.Query("type"))
	if walletType == "" {
		walletType = domain.WalletTypeShipper
	}

	wallet, err := h.walletRepo.GetByOrg(ctx, c.Param("org"), walletType)
	if err != nil {
		respondError(c, err)
		return
	}

	sum, err := h.ledgerRepo.SumByWalletID(ctx, wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WalletAuditResponse{
		WalletID:   wallet.ID,
		Balance:    wallet.Balance,
		LedgerSum:  sum,
		Consistent: wallet.Balance.Equal(sum),
	})
}
