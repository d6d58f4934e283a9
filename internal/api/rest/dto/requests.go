package dto

import "errors"

// MintRequest is the body of POST /api/v1/assets
type MintRequest struct {
	// Caller is the account the new asset is minted to
	Caller string `json:"caller" binding:"required"`
	// InitialPrice is the asking price in the smallest currency unit
	InitialPrice uint64 `json:"initial_price"`
}

// Validate checks the request body shape. Price range policy belongs to
// the ledger engine; only structural validity is checked here.
func (r *MintRequest) Validate() error {
	if r.Caller == "" {
		return errors.New("caller is required")
	}
	return nil
}

// PurchaseRequest is the body of POST /api/v1/assets/:id/purchase
type PurchaseRequest struct {
	// Buyer is the purchasing account
	Buyer string `json:"buyer" binding:"required"`
	// Payment is the tendered amount; overpayment is refunded
	Payment uint64 `json:"payment"`
}

// Validate checks the request body shape
func (r *PurchaseRequest) Validate() error {
	if r.Buyer == "" {
		return errors.New("buyer is required")
	}
	return nil
}
