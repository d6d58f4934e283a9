package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/royalty-ledger/internal/api/rest/dto"
	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/ledger"
	"github.com/feral-file/royalty-ledger/internal/money"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// MintAsset creates a new asset
	// POST /api/v1/assets
	MintAsset(c *gin.Context)

	// PurchaseAsset buys an asset, settling royalties atomically
	// POST /api/v1/assets/:id/purchase
	PurchaseAsset(c *gin.Context)

	// GetPrice returns the asset's current asking price
	// GET /api/v1/assets/:id/price
	GetPrice(c *gin.Context)

	// GetHistory returns the asset's full owner history, oldest first
	// GET /api/v1/assets/:id/history
	GetHistory(c *gin.Context)

	// GetOwner returns the asset's current owner
	// GET /api/v1/assets/:id/owner
	GetOwner(c *gin.Context)

	// GetRoyaltyPreview returns the recipients a sale right now would pay
	// GET /api/v1/assets/:id/royalties
	GetRoyaltyPreview(c *gin.Context)

	// GetTotalRoyalties returns the cumulative royalty accounting counter
	// GET /api/v1/assets/:id/royalties/total
	GetTotalRoyalties(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	ledger ledger.Ledger
}

// NewHandler creates a new REST API handler backed by the ledger engine
func NewHandler(l ledger.Ledger) Handler {
	return &handler{ledger: l}
}

// MintAsset creates a new asset
func (h *handler) MintAsset(c *gin.Context) {
	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	id, err := h.ledger.Mint(c.Request.Context(), domain.Address(req.Caller), money.Amount(req.InitialPrice))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MintResponse{AssetID: uint64(id)})
}

// PurchaseAsset buys an asset, settling royalties atomically
func (h *handler) PurchaseAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	receipt, err := h.ledger.Buy(c.Request.Context(), domain.Address(req.Buyer), id, money.Amount(req.Payment))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPurchaseResponse(receipt))
}

// GetPrice returns the asset's current asking price
func (h *handler) GetPrice(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	price, err := h.ledger.CurrentPrice(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PriceResponse{AssetID: uint64(id), Price: uint64(price)})
}

// GetHistory returns the asset's full owner history, oldest first
func (h *handler) GetHistory(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	history, err := h.ledger.OwnershipHistory(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		AssetID: uint64(id),
		Records: dto.NewOwnershipRecordDTOs(history),
	})
}

// GetOwner returns the asset's current owner
func (h *handler) GetOwner(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	owner, err := h.ledger.OwnerOf(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OwnerResponse{AssetID: uint64(id), Owner: string(owner)})
}

// GetRoyaltyPreview returns the recipients a sale right now would pay
func (h *handler) GetRoyaltyPreview(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	recipients, err := h.ledger.RoyaltyPoolPreview(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RoyaltyPreviewResponse{
		AssetID:    uint64(id),
		Recipients: dto.NewOwnershipRecordDTOs(recipients),
	})
}

// GetTotalRoyalties returns the cumulative royalty accounting counter
func (h *handler) GetTotalRoyalties(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	total, err := h.ledger.TotalRoyaltiesCollected(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TotalRoyaltiesResponse{AssetID: uint64(id), TotalCollected: uint64(total)})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "royalty-ledger-api",
	})
}

// assetIDParam parses the :id path parameter, responding with 400 on
// malformed input
func assetIDParam(c *gin.Context) (domain.AssetID, bool) {
	raw := c.Param("id")
	id, err := domain.ParseAssetID(raw)
	if err != nil {
		respondBadRequest(c, "Invalid asset id", fmt.Sprintf("%q is not a valid asset id", raw))
		return 0, false
	}
	return id, true
}
