package dto

import "github.com/feral-file/royalty-ledger/internal/domain"

// MintResponse is the body returned by a successful mint
type MintResponse struct {
	AssetID uint64 `json:"asset_id"`
}

// OwnershipRecordDTO is one history entry in API responses
type OwnershipRecordDTO struct {
	Owner string `json:"owner"`
	Level uint64 `json:"level"`
}

// RoyaltyShareDTO is one recipient's share in a purchase response
type RoyaltyShareDTO struct {
	Recipient string `json:"recipient"`
	Level     uint64 `json:"level"`
	Amount    uint64 `json:"amount"`
}

// PurchaseResponse mirrors the engine's sale receipt
type PurchaseResponse struct {
	AssetID        uint64            `json:"asset_id"`
	Seller         string            `json:"seller"`
	Buyer          string            `json:"buyer"`
	SalePrice      uint64            `json:"sale_price"`
	RoyaltyPool    uint64            `json:"royalty_pool"`
	SellerProceeds uint64            `json:"seller_proceeds"`
	Refund         uint64            `json:"refund"`
	NewPrice       uint64            `json:"new_price"`
	Shares         []RoyaltyShareDTO `json:"shares"`
}

// PriceResponse is the body of GET /assets/:id/price
type PriceResponse struct {
	AssetID uint64 `json:"asset_id"`
	Price   uint64 `json:"price"`
}

// OwnerResponse is the body of GET /assets/:id/owner
type OwnerResponse struct {
	AssetID uint64 `json:"asset_id"`
	Owner   string `json:"owner"`
}

// HistoryResponse is the body of GET /assets/:id/history
type HistoryResponse struct {
	AssetID uint64               `json:"asset_id"`
	Records []OwnershipRecordDTO `json:"records"`
}

// RoyaltyPreviewResponse is the body of GET /assets/:id/royalties.
// Recipients is the eligible set a sale right now would pay, in history
// order; it carries weights only, not a pending pool amount.
type RoyaltyPreviewResponse struct {
	AssetID    uint64               `json:"asset_id"`
	Recipients []OwnershipRecordDTO `json:"recipients"`
}

// TotalRoyaltiesResponse is the body of GET /assets/:id/royalties/total
type TotalRoyaltiesResponse struct {
	AssetID        uint64 `json:"asset_id"`
	TotalCollected uint64 `json:"total_collected"`
}

// NewPurchaseResponse maps a sale receipt to its API representation
func NewPurchaseResponse(r *domain.SaleReceipt) PurchaseResponse {
	shares := make([]RoyaltyShareDTO, 0, len(r.Shares))
	for _, s := range r.Shares {
		shares = append(shares, RoyaltyShareDTO{
			Recipient: string(s.Recipient),
			Level:     s.Level,
			Amount:    uint64(s.Amount),
		})
	}
	return PurchaseResponse{
		AssetID:        uint64(r.AssetID),
		Seller:         string(r.Seller),
		Buyer:          string(r.Buyer),
		SalePrice:      uint64(r.SalePrice),
		RoyaltyPool:    uint64(r.RoyaltyPool),
		SellerProceeds: uint64(r.SellerProceeds),
		Refund:         uint64(r.Refund),
		NewPrice:       uint64(r.NewPrice),
		Shares:         shares,
	}
}

// NewOwnershipRecordDTOs maps domain ownership records to their API
// representation
func NewOwnershipRecordDTOs(records []domain.OwnershipRecord) []OwnershipRecordDTO {
	out := make([]OwnershipRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, OwnershipRecordDTO{Owner: string(r.Owner), Level: r.Level})
	}
	return out
}
