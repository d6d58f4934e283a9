package schema

import "time"

// RoyaltyPayment represents the royalty_payments table - one row per
// nonzero share actually disbursed during a sale. Pools with no eligible
// recipient and floor-division remainders never produce rows here, which
// is why summing this table can fall short of assets.royalties_collected.
type RoyaltyPayment struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// SaleID references the sale this payment was part of
	SaleID string `gorm:"column:sale_id;not null;type:uuid;index:idx_royalty_payments_sale_id"`
	// AssetID references the asset the royalty was earned on
	AssetID uint64 `gorm:"column:asset_id;not null;index:idx_royalty_payments_asset_id"`
	// RecipientAddress is the historical owner the share was paid to
	RecipientAddress string `gorm:"column:recipient_address;not null;type:text"`
	// Level is the recency weight the share was computed from
	Level uint64 `gorm:"column:level;not null"`
	// Amount is the share paid, floor(pool * level / weight_sum)
	Amount uint64 `gorm:"column:amount;not null"`
	// CreatedAt is the timestamp when the payment was persisted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Sale Sale `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the RoyaltyPayment model
func (RoyaltyPayment) TableName() string {
	return "royalty_payments"
}
