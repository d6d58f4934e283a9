package schema

import "time"

// Sale represents the sales table - one row per committed sale
type Sale struct {
	// ID is a UUID assigned when the sale is persisted
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// AssetID references the asset that changed hands
	AssetID uint64 `gorm:"column:asset_id;not null;index:idx_sales_asset_id"`
	// SellerAddress is the owner the asset was bought from
	SellerAddress string `gorm:"column:seller_address;not null;type:text"`
	// BuyerAddress is the new owner
	BuyerAddress string `gorm:"column:buyer_address;not null;type:text"`
	// SalePrice is the price the sale cleared at
	SalePrice uint64 `gorm:"column:sale_price;not null"`
	// RoyaltyPool is the 10% portion set aside for historical owners
	RoyaltyPool uint64 `gorm:"column:royalty_pool;not null"`
	// SellerProceeds is sale_price minus royalty_pool
	SellerProceeds uint64 `gorm:"column:seller_proceeds;not null"`
	// Refund is the overpayment returned to the buyer
	Refund uint64 `gorm:"column:refund;not null;default:0"`
	// NewPrice is the escalated asking price after the sale
	NewPrice uint64 `gorm:"column:new_price;not null"`
	// CreatedAt is the timestamp when the sale was persisted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}
