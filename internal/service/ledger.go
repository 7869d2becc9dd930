package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/database"
	"github.com/shopspring/decimal"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LedgerStore defines the DB methods needed to post ledger entries.
// Satisfied by *database.Queries (and its WithTx variant).
type LedgerStore interface {
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
}

// postLedger appends one ledger entry and folds its signed amount into the
// season's cash balance in the same statement batch. Every cash movement in
// the system goes through here; the entry is never updated afterwards, only
// compensated by a later entry of the opposite sign. Must run inside the
// caller's transaction.
func postLedger(ctx context.Context, store LedgerStore, seasonID uuid.UUID, signed decimal.Decimal, kind, sourceType string, sourceID uuid.UUID) error {
	if _, err := store.CreateLedgerEntry(ctx, database.CreateLedgerEntryParams{
		SeasonID:     seasonID,
		SignedAmount: decimalToNumeric(signed),
		Kind:         kind,
		SourceType:   sourceType,
		SourceID:     sourceID,
	}); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	if _, err := store.ApplyCashBalanceDelta(ctx, database.ApplyCashBalanceDeltaParams{
		SeasonID: seasonID,
		Amount:   decimalToNumeric(signed),
	}); err != nil {
		return fmt.Errorf("apply cash balance delta: %w", err)
	}
	return nil
}

// reverseLedger posts the compensating entry for a previously posted amount.
func reverseLedger(ctx context.Context, store LedgerStore, seasonID uuid.UUID, signed decimal.Decimal, kind, sourceType string, sourceID uuid.UUID) error {
	return postLedger(ctx, store, seasonID, signed.Neg(), kind, sourceType, sourceID)
}

// CashBalanceStore defines the DB methods needed to read and rebuild the
// cash balance projection.
type CashBalanceStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetCashBalance(ctx context.Context, seasonID uuid.UUID) (database.CashBalance, error)
	SumLedgerEntriesBySeason(ctx context.Context, seasonID uuid.UUID) (pgtype.Numeric, error)
	SetCashBalance(ctx context.Context, arg database.SetCashBalanceParams) (database.CashBalance, error)
	ListLedgerEntriesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error)
}

// NewCashBalanceStore creates a CashBalanceStore from a DBTX (pool or tx).
type NewCashBalanceStore func(db database.DBTX) CashBalanceStore

// CashBalanceResult is the current cash position of a season.
type CashBalanceResult struct {
	SeasonID    uuid.UUID
	Amount      decimal.Decimal
	LastUpdated time.Time
}

// RebuildResult reports a cash balance rebuild: the projected value that was
// stored before the rebuild and the value recomputed from the ledger.
type RebuildResult struct {
	SeasonID uuid.UUID
	Stored   decimal.Decimal
	Computed decimal.Decimal
	Mismatch bool
}

// CashBalanceService reads the cash balance projection and rebuilds it from
// the ledger on demand.
type CashBalanceService struct {
	pool     TxBeginner
	store    CashBalanceStore
	newStore NewCashBalanceStore
}

// NewCashBalanceService creates a new CashBalanceService. store is bound to
// the pool for plain reads; newStore builds tx-bound stores for rebuilds.
func NewCashBalanceService(pool TxBeginner, store CashBalanceStore, newStore NewCashBalanceStore) *CashBalanceService {
	return &CashBalanceService{pool: pool, store: store, newStore: newStore}
}

// Get returns the season's cash balance. A season with no cash movement yet
// has no projection row and reads as zero.
func (s *CashBalanceService) Get(ctx context.Context, seasonID uuid.UUID) (*CashBalanceResult, error) {
	if _, err := s.store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}
	cb, err := s.store.GetCashBalance(ctx, seasonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &CashBalanceResult{SeasonID: seasonID, Amount: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get cash balance: %w", err)
	}
	return &CashBalanceResult{
		SeasonID:    cb.SeasonID,
		Amount:      numericToDecimal(cb.Amount),
		LastUpdated: cb.LastUpdated,
	}, nil
}

// Rebuild recomputes the season's cash balance from the full ledger and
// overwrites the projection with it. A divergence between the stored and
// recomputed values means some writer bypassed the ledger; it is logged and
// reported, never papered over silently.
func (s *CashBalanceService) Rebuild(ctx context.Context, seasonID uuid.UUID) (*RebuildResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}

	stored := decimal.Zero
	cb, err := store.GetCashBalance(ctx, seasonID)
	switch {
	case err == nil:
		stored = numericToDecimal(cb.Amount)
	case errors.Is(err, pgx.ErrNoRows):
		// no projection row yet, treat as zero
	default:
		return nil, fmt.Errorf("get cash balance: %w", err)
	}

	sum, err := store.SumLedgerEntriesBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger entries: %w", err)
	}
	computed := numericToDecimal(sum)

	if _, err := store.SetCashBalance(ctx, database.SetCashBalanceParams{
		SeasonID: seasonID,
		Amount:   decimalToNumeric(computed),
	}); err != nil {
		return nil, fmt.Errorf("set cash balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	mismatch := !stored.Equal(computed)
	if mismatch {
		log.Printf("ERROR: cash balance mismatch for season %s: stored %s, ledger sum %s",
			seasonID, stored.StringFixed(2), computed.StringFixed(2))
	}

	return &RebuildResult{
		SeasonID: seasonID,
		Stored:   stored,
		Computed: computed,
		Mismatch: mismatch,
	}, nil
}

// ListEntries returns the season's ledger entries, oldest first.
func (s *CashBalanceService) ListEntries(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error) {
	if _, err := s.store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}
	entries, err := s.store.ListLedgerEntriesBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}
