package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/database"
	"github.com/shopspring/decimal"
)

type mockCashBalanceStore struct {
	getSeasonFn      func(ctx context.Context, id uuid.UUID) (database.Season, error)
	getCashBalanceFn func(ctx context.Context, seasonID uuid.UUID) (database.CashBalance, error)
	sumLedgerFn      func(ctx context.Context, seasonID uuid.UUID) (pgtype.Numeric, error)
	setCashBalanceFn func(ctx context.Context, arg database.SetCashBalanceParams) (database.CashBalance, error)
	listLedgerFn     func(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error)
}

func (m *mockCashBalanceStore) GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error) {
	return m.getSeasonFn(ctx, id)
}
func (m *mockCashBalanceStore) GetCashBalance(ctx context.Context, seasonID uuid.UUID) (database.CashBalance, error) {
	return m.getCashBalanceFn(ctx, seasonID)
}
func (m *mockCashBalanceStore) SumLedgerEntriesBySeason(ctx context.Context, seasonID uuid.UUID) (pgtype.Numeric, error) {
	return m.sumLedgerFn(ctx, seasonID)
}
func (m *mockCashBalanceStore) SetCashBalance(ctx context.Context, arg database.SetCashBalanceParams) (database.CashBalance, error) {
	return m.setCashBalanceFn(ctx, arg)
}
func (m *mockCashBalanceStore) ListLedgerEntriesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error) {
	return m.listLedgerFn(ctx, seasonID)
}

func defaultCashBalanceStore(seasonID uuid.UUID) *mockCashBalanceStore {
	return &mockCashBalanceStore{
		getSeasonFn: func(ctx context.Context, id uuid.UUID) (database.Season, error) {
			if id == seasonID {
				return database.Season{ID: seasonID, Name: "Boro 2026"}, nil
			}
			return database.Season{}, pgx.ErrNoRows
		},
		getCashBalanceFn: func(ctx context.Context, sid uuid.UUID) (database.CashBalance, error) {
			return database.CashBalance{}, pgx.ErrNoRows
		},
		sumLedgerFn: func(ctx context.Context, sid uuid.UUID) (pgtype.Numeric, error) {
			return makeNumeric("0"), nil
		},
		setCashBalanceFn: func(ctx context.Context, arg database.SetCashBalanceParams) (database.CashBalance, error) {
			return database.CashBalance{SeasonID: arg.SeasonID, Amount: arg.Amount}, nil
		},
		listLedgerFn: func(ctx context.Context, sid uuid.UUID) ([]database.LedgerEntry, error) {
			return nil, nil
		},
	}
}

func newCashBalanceTestService(store *mockCashBalanceStore) *CashBalanceService {
	pool := &mockTxBeginner{tx: &mockTx{}}
	return NewCashBalanceService(pool, store, func(db database.DBTX) CashBalanceStore { return store })
}

func TestCashBalanceGet_SeasonNotFound(t *testing.T) {
	svc := newCashBalanceTestService(defaultCashBalanceStore(uuid.New()))

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got: %v", err)
	}
}

func TestCashBalanceGet_NoRowReadsZero(t *testing.T) {
	seasonID := uuid.New()
	svc := newCashBalanceTestService(defaultCashBalanceStore(seasonID))

	result, err := svc.Get(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.IsZero() {
		t.Errorf("amount: got %v, want 0", result.Amount)
	}
	if result.SeasonID != seasonID {
		t.Errorf("season_id: got %v, want %v", result.SeasonID, seasonID)
	}
}

func TestCashBalanceGet_ReturnsStoredRow(t *testing.T) {
	seasonID := uuid.New()
	store := defaultCashBalanceStore(seasonID)
	updated := time.Now()
	store.getCashBalanceFn = func(ctx context.Context, sid uuid.UUID) (database.CashBalance, error) {
		return database.CashBalance{SeasonID: seasonID, Amount: makeNumeric("12500.00"), LastUpdated: updated}, nil
	}
	svc := newCashBalanceTestService(store)

	result, err := svc.Get(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(decimal.RequireFromString("12500")) {
		t.Errorf("amount: got %v, want 12500", result.Amount)
	}
	if !result.LastUpdated.Equal(updated) {
		t.Errorf("last_updated: got %v, want %v", result.LastUpdated, updated)
	}
}

func TestCashBalanceRebuild_Consistent(t *testing.T) {
	seasonID := uuid.New()
	store := defaultCashBalanceStore(seasonID)
	store.getCashBalanceFn = func(ctx context.Context, sid uuid.UUID) (database.CashBalance, error) {
		return database.CashBalance{SeasonID: seasonID, Amount: makeNumeric("12500.00")}, nil
	}
	store.sumLedgerFn = func(ctx context.Context, sid uuid.UUID) (pgtype.Numeric, error) {
		return makeNumeric("12500.00"), nil
	}
	svc := newCashBalanceTestService(store)

	result, err := svc.Rebuild(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mismatch {
		t.Error("expected no mismatch")
	}
	if !result.Stored.Equal(result.Computed) {
		t.Errorf("stored %v != computed %v", result.Stored, result.Computed)
	}
}

func TestCashBalanceRebuild_MismatchOverwrites(t *testing.T) {
	seasonID := uuid.New()
	store := defaultCashBalanceStore(seasonID)
	store.getCashBalanceFn = func(ctx context.Context, sid uuid.UUID) (database.CashBalance, error) {
		return database.CashBalance{SeasonID: seasonID, Amount: makeNumeric("13000.00")}, nil
	}
	store.sumLedgerFn = func(ctx context.Context, sid uuid.UUID) (pgtype.Numeric, error) {
		return makeNumeric("12500.00"), nil
	}
	var stored database.SetCashBalanceParams
	store.setCashBalanceFn = func(ctx context.Context, arg database.SetCashBalanceParams) (database.CashBalance, error) {
		stored = arg
		return database.CashBalance{SeasonID: arg.SeasonID, Amount: arg.Amount}, nil
	}
	svc := newCashBalanceTestService(store)

	result, err := svc.Rebuild(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Mismatch {
		t.Error("expected a mismatch")
	}
	if !result.Stored.Equal(decimal.RequireFromString("13000")) {
		t.Errorf("stored: got %v, want 13000", result.Stored)
	}
	if !result.Computed.Equal(decimal.RequireFromString("12500")) {
		t.Errorf("computed: got %v, want 12500", result.Computed)
	}
	// The ledger wins: the projection is overwritten with the recomputed sum.
	if !numericEquals(stored.Amount, "12500.00") {
		t.Errorf("overwritten amount: got %v, want 12500.00", numericToDecimal(stored.Amount))
	}
}

func TestCashBalanceRebuild_NoProjectionRow(t *testing.T) {
	seasonID := uuid.New()
	store := defaultCashBalanceStore(seasonID)
	store.sumLedgerFn = func(ctx context.Context, sid uuid.UUID) (pgtype.Numeric, error) {
		return makeNumeric("250.00"), nil
	}
	svc := newCashBalanceTestService(store)

	result, err := svc.Rebuild(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Missing row reads as stored zero, against a nonzero ledger sum.
	if !result.Mismatch {
		t.Error("expected a mismatch")
	}
	if !result.Stored.IsZero() {
		t.Errorf("stored: got %v, want 0", result.Stored)
	}
}

func TestLedgerListEntries_SeasonNotFound(t *testing.T) {
	svc := newCashBalanceTestService(defaultCashBalanceStore(uuid.New()))

	_, err := svc.ListEntries(context.Background(), uuid.New())
	if !errors.Is(err, ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got: %v", err)
	}
}
