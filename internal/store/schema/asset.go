package schema

import "time"

// Asset represents the assets table - one row per ledger entry. The ID is
// assigned by the ledger engine (dense, zero-based), never by the database.
type Asset struct {
	// ID is the ledger-assigned asset identifier
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	// CurrentPrice is the asking price in the smallest currency unit
	CurrentPrice uint64 `gorm:"column:current_price;not null"`
	// RoyaltiesCollected is the cumulative royalty pool accounting counter
	RoyaltiesCollected uint64 `gorm:"column:royalties_collected;not null;default:0"`
	// CreatedAt is the timestamp when this asset was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this asset was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}
