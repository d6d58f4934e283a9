package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/royalty-ledger/internal/adapter"
	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/logger"
	"github.com/feral-file/royalty-ledger/internal/messaging"
	"github.com/feral-file/royalty-ledger/internal/money"
	"github.com/feral-file/royalty-ledger/internal/vault"
)

// Ledger is the state-transition engine tracking per-asset ownership
// history, price and royalty accounting
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// Mint creates a new asset owned by caller at the given price and
	// returns its identifier
	Mint(ctx context.Context, caller domain.Address, initialPrice money.Amount) (domain.AssetID, error)
	// Buy transfers the asset to buyer, settling the seller payout and the
	// recency-weighted royalty split atomically
	Buy(ctx context.Context, buyer domain.Address, id domain.AssetID, payment money.Amount) (*domain.SaleReceipt, error)
	// CurrentPrice returns the asset's current asking price
	CurrentPrice(ctx context.Context, id domain.AssetID) (money.Amount, error)
	// OwnershipHistory returns the full owner history, oldest first
	OwnershipHistory(ctx context.Context, id domain.AssetID) ([]domain.OwnershipRecord, error)
	// OwnerOf returns the asset's current owner
	OwnerOf(ctx context.Context, id domain.AssetID) (domain.Address, error)
	// RoyaltyPoolPreview returns the recipients a sale right now would pay
	// royalties to, with their recency weights
	RoyaltyPoolPreview(ctx context.Context, id domain.AssetID) ([]domain.OwnershipRecord, error)
	// TotalRoyaltiesCollected returns the cumulative royalty pools of all
	// sales, including pools that had no eligible recipient
	TotalRoyaltiesCollected(ctx context.Context, id domain.AssetID) (money.Amount, error)
}

// AssetSnapshot is a fully-committed view of one asset's ledger entry,
// used for persistence and restore
type AssetSnapshot struct {
	ID                 domain.AssetID
	History            []domain.OwnershipRecord
	Price              money.Amount
	RoyaltiesCollected money.Amount
}

// Archive persists committed ledger state. The engine's in-memory state
// stays authoritative; the archive is the durable projection restored at
// startup.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/archive.go -package=mocks -mock_names=Archive=MockArchive
type Archive interface {
	// SaveMint records a freshly minted asset
	SaveMint(ctx context.Context, snap AssetSnapshot) error
	// SaveSale records a committed sale together with the asset's
	// post-sale snapshot
	SaveSale(ctx context.Context, receipt *domain.SaleReceipt, snap AssetSnapshot) error
	// LoadAssets returns every persisted asset snapshot, ordered by id
	LoadAssets(ctx context.Context) ([]AssetSnapshot, error)
}

// maxEscalatablePrice is the largest price whose 110% escalation still
// fits in 64 bits. Mint rejects initial prices above it, and because
// escalation compounds, Buy re-checks it: a prior sale can push the
// price beyond the bound, and the next escalation must fail cleanly
// instead of overflowing.
var maxEscalatablePrice = money.MaxMulDivAmount(domain.ESCALATION_NUMERATOR, domain.RATE_DENOMINATOR)

// entry is one asset's ledger record. The mutex serializes sales per
// asset; queries take the read side only.
type entry struct {
	mu                 sync.RWMutex
	history            []domain.OwnershipRecord
	price              money.Amount
	royaltiesCollected money.Amount
}

// Engine implements Ledger on top of a Vault for settlement, with
// optional persistence and event dispatch
type Engine struct {
	mu      sync.RWMutex // guards entries growth; per-entry locks guard mutation
	entries []*entry

	vault      vault.Vault
	archive    Archive              // optional
	dispatcher messaging.Dispatcher // optional
	clock      adapter.Clock
}

// Option configures an Engine
type Option func(*Engine)

// WithArchive attaches a persistence archive to the engine
func WithArchive(a Archive) Option {
	return func(e *Engine) { e.archive = a }
}

// WithDispatcher attaches an event dispatcher to the engine
func WithDispatcher(d messaging.Dispatcher) Option {
	return func(e *Engine) { e.dispatcher = d }
}

// NewEngine creates a ledger engine settling through the given vault
func NewEngine(v vault.Vault, clock adapter.Clock, opts ...Option) *Engine {
	e := &Engine{
		vault: v,
		clock: clock,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore rebuilds the in-memory state from the archive. It must be
// called before the engine starts serving operations.
func (e *Engine) Restore(ctx context.Context) error {
	if e.archive == nil {
		return nil
	}

	snaps, err := e.archive.LoadAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	// Snapshots must form a dense zero-based sequence with intact
	// level invariants; a gap means the archive is corrupt.
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })

	entries := make([]*entry, 0, len(snaps))
	for i, snap := range snaps {
		if snap.ID != domain.AssetID(i) {
			return fmt.Errorf("archive has non-dense asset ids: expected %d, got %d", i, snap.ID)
		}
		if err := validateHistory(snap.History); err != nil {
			return fmt.Errorf("asset %d: %w", snap.ID, err)
		}
		entries = append(entries, &entry{
			history:            append([]domain.OwnershipRecord(nil), snap.History...),
			price:              snap.Price,
			royaltiesCollected: snap.RoyaltiesCollected,
		})
	}

	e.mu.Lock()
	e.entries = entries
	e.mu.Unlock()

	logger.InfoCtx(ctx, "Restored ledger state", zap.Int("assets", len(entries)))
	return nil
}

// Mint creates a new asset owned by caller at the given price
func (e *Engine) Mint(ctx context.Context, caller domain.Address, initialPrice money.Amount) (domain.AssetID, error) {
	if initialPrice == 0 || initialPrice > maxEscalatablePrice {
		return 0, fmt.Errorf("initial price %d out of range (1..%d): %w",
			initialPrice, maxEscalatablePrice, domain.ErrInvalidPrice)
	}

	ent := &entry{
		history: []domain.OwnershipRecord{{Owner: caller, Level: 1}},
		price:   initialPrice,
	}

	// Hold the entry lock across publication so a sale on the fresh id
	// cannot reach the archive or the broker before the mint does
	ent.mu.Lock()
	defer ent.mu.Unlock()

	e.mu.Lock()
	id := domain.AssetID(len(e.entries))
	e.entries = append(e.entries, ent)
	e.mu.Unlock()

	e.persistMint(ctx, id, ent.snapshot(id))
	e.dispatch(ctx, &domain.LedgerEvent{
		Type:    domain.EventTypeMinted,
		AssetID: id,
		Owner:   domain.AddressPtr(caller),
		Amount:  initialPrice,
	})

	logger.InfoCtx(ctx, "Minted asset",
		zap.String("asset_id", id.String()),
		zap.String("owner", string(caller)),
		zap.Uint64("price", uint64(initialPrice)),
	)

	return id, nil
}

// Buy executes a sale as a single atomic unit. All amounts are computed
// from the pre-sale state, the whole settlement clears through the vault
// in one batch, and only then is the ledger entry mutated. A vault
// rejection leaves the entry exactly as it was.
func (e *Engine) Buy(ctx context.Context, buyer domain.Address, id domain.AssetID, payment money.Amount) (*domain.SaleReceipt, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	seller := ent.history[len(ent.history)-1].Owner
	if buyer == seller {
		return nil, fmt.Errorf("buyer %q already owns asset %s: %w", buyer, id, domain.ErrSelfPurchase)
	}
	if payment < ent.price {
		return nil, fmt.Errorf("payment %d below current price %d: %w",
			payment, ent.price, domain.ErrInsufficientPayment)
	}
	// Escalation compounds, so a prior sale can carry the price past the
	// mint bound. Reject here rather than overflow in computeSale.
	if ent.price > maxEscalatablePrice {
		return nil, fmt.Errorf("price %d cannot escalate without overflow (max %d): %w",
			ent.price, maxEscalatablePrice, domain.ErrInvalidPrice)
	}

	receipt := computeSale(id, buyer, seller, ent.price, payment, ent.history)

	if err := e.vault.Apply(ctx, settlementPlan(receipt)); err != nil {
		return nil, fmt.Errorf("settlement rejected: %v: %w", err, domain.ErrTransferFailed)
	}

	// Commit: settlement cleared, mutate the entry
	for i := range ent.history {
		ent.history[i].Level++
	}
	ent.history = append(ent.history, domain.OwnershipRecord{Owner: buyer, Level: 1})
	ent.price = receipt.NewPrice
	ent.royaltiesCollected += receipt.RoyaltyPool

	snap := ent.snapshot(id)
	e.persistSale(ctx, receipt, snap)
	e.dispatch(ctx, saleEvents(receipt)...)

	logger.InfoCtx(ctx, "Asset sold",
		zap.String("asset_id", id.String()),
		zap.String("seller", string(seller)),
		zap.String("buyer", string(buyer)),
		zap.Uint64("sale_price", uint64(receipt.SalePrice)),
		zap.Uint64("royalty_pool", uint64(receipt.RoyaltyPool)),
	)

	return receipt, nil
}

// CurrentPrice returns the asset's current asking price
func (e *Engine) CurrentPrice(_ context.Context, id domain.AssetID) (money.Amount, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return 0, err
	}
	ent.mu.RLock()
	defer ent.mu.RUnlock()
	return ent.price, nil
}

// OwnershipHistory returns a copy of the full owner history, oldest first
func (e *Engine) OwnershipHistory(_ context.Context, id domain.AssetID) ([]domain.OwnershipRecord, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	ent.mu.RLock()
	defer ent.mu.RUnlock()
	return append([]domain.OwnershipRecord(nil), ent.history...), nil
}

// OwnerOf returns the asset's current owner, derived from the newest
// history record
func (e *Engine) OwnerOf(_ context.Context, id domain.AssetID) (domain.Address, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return "", err
	}
	ent.mu.RLock()
	defer ent.mu.RUnlock()
	return ent.history[len(ent.history)-1].Owner, nil
}

// RoyaltyPoolPreview returns the eligible set a sale right now would pay:
// the owner history minus its newest record (the would-be seller)
func (e *Engine) RoyaltyPoolPreview(_ context.Context, id domain.AssetID) ([]domain.OwnershipRecord, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	ent.mu.RLock()
	defer ent.mu.RUnlock()
	return append([]domain.OwnershipRecord(nil), ent.history[:len(ent.history)-1]...), nil
}

// TotalRoyaltiesCollected returns the cumulative royalty accounting
// counter. Pools with no eligible recipient still count.
func (e *Engine) TotalRoyaltiesCollected(_ context.Context, id domain.AssetID) (money.Amount, error) {
	ent, err := e.lookup(id)
	if err != nil {
		return 0, err
	}
	ent.mu.RLock()
	defer ent.mu.RUnlock()
	return ent.royaltiesCollected, nil
}

// lookup resolves an asset id to its entry
func (e *Engine) lookup(id domain.AssetID) (*entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if uint64(id) >= uint64(len(e.entries)) {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrUnknownAsset)
	}
	return e.entries[id], nil
}

// snapshot copies the entry under its already-held lock
func (ent *entry) snapshot(id domain.AssetID) AssetSnapshot {
	return AssetSnapshot{
		ID:                 id,
		History:            append([]domain.OwnershipRecord(nil), ent.history...),
		Price:              ent.price,
		RoyaltiesCollected: ent.royaltiesCollected,
	}
}

// computeSale derives every amount of a sale from the pre-sale state.
// Pure function of its inputs; nothing is mutated.
func computeSale(
	id domain.AssetID,
	buyer, seller domain.Address,
	salePrice, payment money.Amount,
	history []domain.OwnershipRecord,
) *domain.SaleReceipt {
	pool := money.PercentageOf(salePrice, domain.ROYALTY_NUMERATOR, domain.RATE_DENOMINATOR)

	// The newest record is the seller, paid via proceeds, not the pool
	eligible := history[:len(history)-1]

	var weightSum uint64
	for _, r := range eligible {
		weightSum += r.Level
	}

	// On the first sale the eligible set is empty and the pool is not
	// distributed to anyone, yet it still counts as collected. The
	// undistributed value stays in the treasury account.
	shares := make([]domain.RoyaltyShare, 0, len(eligible))
	for _, r := range eligible {
		shares = append(shares, domain.RoyaltyShare{
			Recipient: r.Owner,
			Level:     r.Level,
			Amount:    money.Share(pool, r.Level, weightSum),
		})
	}

	return &domain.SaleReceipt{
		AssetID:        id,
		Seller:         seller,
		Buyer:          buyer,
		SalePrice:      salePrice,
		RoyaltyPool:    pool,
		SellerProceeds: salePrice - pool,
		Refund:         payment - salePrice,
		NewPrice:       money.PercentageOf(salePrice, domain.ESCALATION_NUMERATOR, domain.RATE_DENOMINATOR),
		Shares:         shares,
	}
}

// settlementPlan stages a sale as one atomic vault batch: the buyer's
// full payment enters the treasury, then royalties, seller proceeds and
// any refund leave it. Floor-division remainders stay in the treasury.
func settlementPlan(r *domain.SaleReceipt) []vault.Transfer {
	payment := r.SalePrice + r.Refund

	transfers := make([]vault.Transfer, 0, len(r.Shares)+3)
	transfers = append(transfers, vault.Transfer{From: r.Buyer, To: domain.TreasuryAddress, Amount: payment})
	for _, share := range r.Shares {
		transfers = append(transfers, vault.Transfer{From: domain.TreasuryAddress, To: share.Recipient, Amount: share.Amount})
	}
	transfers = append(transfers,
		vault.Transfer{From: domain.TreasuryAddress, To: r.Seller, Amount: r.SellerProceeds},
		vault.Transfer{From: domain.TreasuryAddress, To: r.Buyer, Amount: r.Refund},
	)

	return transfers
}

// saleEvents builds the post-commit event sequence: one sold event, then
// one royalty_paid event per nonzero share in history order
func saleEvents(r *domain.SaleReceipt) []*domain.LedgerEvent {
	events := make([]*domain.LedgerEvent, 0, len(r.Shares)+1)
	events = append(events, &domain.LedgerEvent{
		Type:    domain.EventTypeSold,
		AssetID: r.AssetID,
		Seller:  domain.AddressPtr(r.Seller),
		Buyer:   domain.AddressPtr(r.Buyer),
		Amount:  r.SalePrice,
	})
	for _, share := range r.Shares {
		if share.Amount == 0 {
			continue
		}
		events = append(events, &domain.LedgerEvent{
			Type:      domain.EventTypeRoyaltyPaid,
			AssetID:   r.AssetID,
			Recipient: domain.AddressPtr(share.Recipient),
			Amount:    share.Amount,
		})
	}
	return events
}

// persistMint writes a mint to the archive. The in-memory state is
// authoritative, so archive failures are logged, not propagated.
func (e *Engine) persistMint(ctx context.Context, id domain.AssetID, snap AssetSnapshot) {
	if e.archive == nil {
		return
	}
	if err := e.archive.SaveMint(ctx, snap); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to persist mint of asset %s: %w", id, err))
	}
}

// persistSale writes a committed sale to the archive
func (e *Engine) persistSale(ctx context.Context, receipt *domain.SaleReceipt, snap AssetSnapshot) {
	if e.archive == nil {
		return
	}
	if err := e.archive.SaveSale(ctx, receipt, snap); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to persist sale of asset %s: %w", receipt.AssetID, err))
	}
}

// dispatch stamps and forwards events to the dispatcher
func (e *Engine) dispatch(ctx context.Context, events ...*domain.LedgerEvent) {
	if e.dispatcher == nil {
		return
	}
	now := e.clock.Now()
	for _, ev := range events {
		ev.ID = ulid.MustNewDefault(now).String()
		ev.Timestamp = now
	}
	e.dispatcher.Dispatch(ctx, events...)
}

// validateHistory checks the level invariant: levels strictly decrease
// by 1, oldest to newest, ending at 1
func validateHistory(history []domain.OwnershipRecord) error {
	if len(history) == 0 {
		return fmt.Errorf("empty ownership history")
	}
	n := uint64(len(history))
	for i, r := range history {
		if want := n - uint64(i); r.Level != want {
			return fmt.Errorf("ownership record %d has level %d, want %d", i, r.Level, want)
		}
	}
	return nil
}
