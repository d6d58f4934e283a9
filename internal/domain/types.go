package domain

import (
	"strconv"
	"time"

	"github.com/feral-file/royalty-ledger/internal/money"
)

// Address is an opaque account identifier. The ledger only compares
// addresses for equality; it never interprets their contents.
type Address string

// AssetID identifies one asset's ledger entry. IDs are dense, sequential
// and zero-based: an ID is valid iff it is below the ledger's next ID.
type AssetID uint64

// String returns the decimal representation of the AssetID
func (id AssetID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAssetID parses a decimal asset ID
func ParseAssetID(s string) (AssetID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return AssetID(n), nil
}

// OwnershipRecord is one entry in an asset's append-only owner history.
// Level is the recency weight: 1 for the newest record, incremented on
// every subsequent sale, so the record at position i of a history of
// length n always carries level n-i.
type OwnershipRecord struct {
	Owner Address `json:"owner"`
	Level uint64  `json:"level"`
}

// RoyaltyShare is one recipient's slice of a sale's royalty pool
type RoyaltyShare struct {
	Recipient Address      `json:"recipient"`
	Level     uint64       `json:"level"`
	Amount    money.Amount `json:"amount"`
}

// SaleReceipt is the confirmation returned by a completed purchase.
// Amounts satisfy SellerProceeds + RoyaltyPool == SalePrice exactly.
type SaleReceipt struct {
	AssetID        AssetID        `json:"asset_id"`
	Seller         Address        `json:"seller"`
	Buyer          Address        `json:"buyer"`
	SalePrice      money.Amount   `json:"sale_price"`
	RoyaltyPool    money.Amount   `json:"royalty_pool"`
	SellerProceeds money.Amount   `json:"seller_proceeds"`
	Refund         money.Amount   `json:"refund"`
	NewPrice       money.Amount   `json:"new_price"`
	Shares         []RoyaltyShare `json:"shares"`
}

// EventType represents the type of ledger event
type EventType string

const (
	EventTypeMinted      EventType = "minted"
	EventTypeSold        EventType = "sold"
	EventTypeRoyaltyPaid EventType = "royalty_paid"
)

// LedgerEvent is a normalized ledger event. This is the standard format
// published to NATS after a mint or sale commits.
type LedgerEvent struct {
	ID        string       `json:"id"` // ULID, assigned at emission
	Type      EventType    `json:"event_type"`
	AssetID   AssetID      `json:"asset_id"`
	Owner     *Address     `json:"owner,omitempty"`     // minted: the minter
	Seller    *Address     `json:"seller,omitempty"`    // sold: previous owner
	Buyer     *Address     `json:"buyer,omitempty"`     // sold: new owner
	Recipient *Address     `json:"recipient,omitempty"` // royalty_paid: share recipient
	Amount    money.Amount `json:"amount"`              // price for minted/sold, share for royalty_paid
	Timestamp time.Time    `json:"timestamp"`
}

// Valid reports whether the event carries the fields its type requires
func (e *LedgerEvent) Valid() bool {
	switch e.Type {
	case EventTypeMinted:
		return e.Owner != nil && *e.Owner != "" && e.Amount > 0
	case EventTypeSold:
		if e.Seller == nil || *e.Seller == "" {
			return false
		}
		if e.Buyer == nil || *e.Buyer == "" {
			return false
		}
		return *e.Seller != *e.Buyer
	case EventTypeRoyaltyPaid:
		// Zero-amount shares are never emitted
		return e.Recipient != nil && *e.Recipient != "" && e.Amount > 0
	default:
		return false
	}
}

// Subject returns the messaging subject the event is published under,
// e.g. ledger.minted, ledger.sold, ledger.royalty_paid
func (e *LedgerEvent) Subject() string {
	return "ledger." + string(e.Type)
}

// AddressPtr converts an Address to a pointer for optional event fields
func AddressPtr(a Address) *Address {
	return &a
}
