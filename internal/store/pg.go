package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/ledger"
	"github.com/feral-file/royalty-ledger/internal/money"
	"github.com/feral-file/royalty-ledger/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// Migrate creates or updates the database schema
func (s *pgStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&schema.Asset{},
		&schema.OwnershipRecord{},
		&schema.Sale{},
		&schema.RoyaltyPayment{},
	)
}

// SaveMint records a freshly minted asset and its first ownership record
func (s *pgStore) SaveMint(ctx context.Context, snap ledger.AssetSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset := schema.Asset{
			ID:                 uint64(snap.ID),
			CurrentPrice:       uint64(snap.Price),
			RoyaltiesCollected: uint64(snap.RoyaltiesCollected),
		}
		if err := tx.Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}

		if err := upsertOwnershipRecords(tx, snap); err != nil {
			return err
		}

		return nil
	})
}

// SaveSale records a committed sale: the updated asset, the rewritten
// ownership history, the sale row and one payment row per nonzero share
func (s *pgStore) SaveSale(ctx context.Context, receipt *domain.SaleReceipt, snap ledger.AssetSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&schema.Asset{}).
			Where("id = ?", uint64(snap.ID)).
			Updates(map[string]interface{}{
				"current_price":       uint64(snap.Price),
				"royalties_collected": uint64(snap.RoyaltiesCollected),
				"updated_at":          tx.NowFunc(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}

		// Every level shifted by one, so the whole history is rewritten
		if err := upsertOwnershipRecords(tx, snap); err != nil {
			return err
		}

		sale := schema.Sale{
			ID:             uuid.New().String(),
			AssetID:        uint64(receipt.AssetID),
			SellerAddress:  string(receipt.Seller),
			BuyerAddress:   string(receipt.Buyer),
			SalePrice:      uint64(receipt.SalePrice),
			RoyaltyPool:    uint64(receipt.RoyaltyPool),
			SellerProceeds: uint64(receipt.SellerProceeds),
			Refund:         uint64(receipt.Refund),
			NewPrice:       uint64(receipt.NewPrice),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		var payments []schema.RoyaltyPayment
		for _, share := range receipt.Shares {
			if share.Amount == 0 {
				continue
			}
			payments = append(payments, schema.RoyaltyPayment{
				SaleID:           sale.ID,
				AssetID:          uint64(receipt.AssetID),
				RecipientAddress: string(share.Recipient),
				Level:            share.Level,
				Amount:           uint64(share.Amount),
			})
		}
		if len(payments) > 0 {
			if err := tx.Create(&payments).Error; err != nil {
				return fmt.Errorf("failed to create royalty payments: %w", err)
			}
		}

		return nil
	})
}

// LoadAssets returns every persisted asset snapshot, ordered by id
func (s *pgStore) LoadAssets(ctx context.Context) ([]ledger.AssetSnapshot, error) {
	var assets []schema.Asset
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	if len(assets) == 0 {
		return nil, nil
	}

	var records []schema.OwnershipRecord
	err := s.db.WithContext(ctx).
		Order("asset_id ASC, position ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ownership records: %w", err)
	}

	histories := make(map[uint64][]domain.OwnershipRecord, len(assets))
	for _, r := range records {
		histories[r.AssetID] = append(histories[r.AssetID], domain.OwnershipRecord{
			Owner: domain.Address(r.OwnerAddress),
			Level: r.Level,
		})
	}

	snaps := make([]ledger.AssetSnapshot, 0, len(assets))
	for _, a := range assets {
		history := histories[a.ID]
		if len(history) == 0 {
			return nil, fmt.Errorf("asset %d has no ownership records", a.ID)
		}
		snaps = append(snaps, ledger.AssetSnapshot{
			ID:                 domain.AssetID(a.ID),
			History:            history,
			Price:              money.Amount(a.CurrentPrice),
			RoyaltiesCollected: money.Amount(a.RoyaltiesCollected),
		})
	}

	return snaps, nil
}

// upsertOwnershipRecords writes the full history of one asset, updating
// levels for existing positions and inserting the appended record
func upsertOwnershipRecords(tx *gorm.DB, snap ledger.AssetSnapshot) error {
	records := make([]schema.OwnershipRecord, 0, len(snap.History))
	for position, r := range snap.History {
		records = append(records, schema.OwnershipRecord{
			AssetID:      uint64(snap.ID),
			Position:     uint64(position),
			OwnerAddress: string(r.Owner),
			Level:        r.Level,
		})
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "position"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "updated_at"}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ownership records: %w", err)
	}

	return nil
}
