package schema

import "time"

// OwnershipRecord represents the ownership_records table - the append-only
// owner history of an asset. Position is the record's index in history
// order (0 = oldest); Level is the recency weight and is rewritten on
// every sale as the whole history shifts up by one.
type OwnershipRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID references the asset this record belongs to
	AssetID uint64 `gorm:"column:asset_id;not null;uniqueIndex:uq_ownership_records_asset_position,priority:1"`
	// Position is the record's index in the asset's history, oldest first
	Position uint64 `gorm:"column:position;not null;uniqueIndex:uq_ownership_records_asset_position,priority:2"`
	// OwnerAddress is the account that held the asset at this position
	OwnerAddress string `gorm:"column:owner_address;not null;type:text"`
	// Level is the recency weight (1 = newest record)
	Level uint64 `gorm:"column:level;not null"`
	// CreatedAt is the timestamp when this record was appended
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the OwnershipRecord model
func (OwnershipRecord) TableName() string {
	return "ownership_records"
}
