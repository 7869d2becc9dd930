package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/enum"
	"github.com/shopspring/decimal"
)

// The expense, fund input, and additional income services share one shape:
// a dated amount scoped to a season, mirrored into the ledger as a single
// signed entry. Expenses post negative; the other two post positive.

// ExpenseStore defines the DB methods needed by the expense service.
type ExpenseStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetExpenseCategory(ctx context.Context, id uuid.UUID) (database.ExpenseCategory, error)
	CreateExpense(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error)
	GetExpenseForUpdate(ctx context.Context, id uuid.UUID) (database.Expense, error)
	UpdateExpense(ctx context.Context, arg database.UpdateExpenseParams) (database.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
}

// NewExpenseStore creates an ExpenseStore from a DBTX (pool or tx).
type NewExpenseStore func(db database.DBTX) ExpenseStore

// ExpenseRequest is the validated input for an expense.
type ExpenseRequest struct {
	CategoryID  string
	SeasonID    string
	ExpenseDate string // YYYY-MM-DD
	Amount      string
	Description string
}

// ExpenseService records expenses and mirrors them into the ledger as
// negative entries.
type ExpenseService struct {
	pool     TxBeginner
	newStore NewExpenseStore
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(pool TxBeginner, newStore NewExpenseStore) *ExpenseService {
	return &ExpenseService{pool: pool, newStore: newStore}
}

func (s *ExpenseService) Create(ctx context.Context, req ExpenseRequest) (*database.Expense, error) {
	categoryID, seasonID, date, amount, err := parseCashflowRequest(req.CategoryID, req.SeasonID, req.ExpenseDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetExpenseCategory(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	expense, err := store.CreateExpense(ctx, database.CreateExpenseParams{
		CategoryID:  categoryID,
		SeasonID:    seasonID,
		ExpenseDate: date,
		Amount:      decimalToNumeric(amount),
		Description: textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount.Neg(), enum.LedgerKindExpense, enum.SourceTypeExpense, expense.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*database.Expense, error) {
	categoryID, seasonID, date, amount, err := parseCashflowRequest(req.CategoryID, req.SeasonID, req.ExpenseDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetExpenseForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if _, err := store.GetExpenseCategory(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	// Compensate the old negative entry, then post the new one.
	oldAmount := numericToDecimal(old.Amount)
	if err := reverseLedger(ctx, store, old.SeasonID, oldAmount.Neg(), enum.LedgerKindExpense, enum.SourceTypeExpense, old.ID); err != nil {
		return nil, err
	}

	expense, err := store.UpdateExpense(ctx, database.UpdateExpenseParams{
		ID:          old.ID,
		CategoryID:  categoryID,
		SeasonID:    seasonID,
		ExpenseDate: date,
		Amount:      decimalToNumeric(amount),
		Description: textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount.Neg(), enum.LedgerKindExpense, enum.SourceTypeExpense, expense.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetExpenseForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("get expense: %w", err)
	}

	if err := reverseLedger(ctx, store, old.SeasonID, numericToDecimal(old.Amount).Neg(), enum.LedgerKindExpense, enum.SourceTypeExpense, old.ID); err != nil {
		return err
	}
	if err := store.DeleteExpense(ctx, old.ID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FundInputStore defines the DB methods needed by the fund input service.
type FundInputStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	CreateFundInput(ctx context.Context, arg database.CreateFundInputParams) (database.FundInput, error)
	GetFundInputForUpdate(ctx context.Context, id uuid.UUID) (database.FundInput, error)
	UpdateFundInput(ctx context.Context, arg database.UpdateFundInputParams) (database.FundInput, error)
	DeleteFundInput(ctx context.Context, id uuid.UUID) error
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
}

// NewFundInputStore creates a FundInputStore from a DBTX (pool or tx).
type NewFundInputStore func(db database.DBTX) FundInputStore

// FundInputRequest is the validated input for a capital injection.
type FundInputRequest struct {
	Source      string
	SeasonID    string
	InputDate   string // YYYY-MM-DD
	Amount      string
	Description string
}

// FundInputService records capital injected into the shop for a season.
type FundInputService struct {
	pool     TxBeginner
	newStore NewFundInputStore
}

// NewFundInputService creates a new FundInputService.
func NewFundInputService(pool TxBeginner, newStore NewFundInputStore) *FundInputService {
	return &FundInputService{pool: pool, newStore: newStore}
}

func (s *FundInputService) Create(ctx context.Context, req FundInputRequest) (*database.FundInput, error) {
	seasonID, date, amount, err := parseSourcedCashflowRequest(req.Source, req.SeasonID, req.InputDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	fi, err := store.CreateFundInput(ctx, database.CreateFundInputParams{
		Source:      req.Source,
		SeasonID:    seasonID,
		InputDate:   date,
		Amount:      decimalToNumeric(amount),
		Description: textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("create fund input: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindFundInput, enum.SourceTypeFundInput, fi.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &fi, nil
}

func (s *FundInputService) Update(ctx context.Context, id uuid.UUID, req FundInputRequest) (*database.FundInput, error) {
	seasonID, date, amount, err := parseSourcedCashflowRequest(req.Source, req.SeasonID, req.InputDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetFundInputForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFundInputNotFound
		}
		return nil, fmt.Errorf("get fund input: %w", err)
	}
	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	if err := reverseLedger(ctx, store, old.SeasonID, numericToDecimal(old.Amount), enum.LedgerKindFundInput, enum.SourceTypeFundInput, old.ID); err != nil {
		return nil, err
	}

	fi, err := store.UpdateFundInput(ctx, database.UpdateFundInputParams{
		ID:          old.ID,
		Source:      req.Source,
		SeasonID:    seasonID,
		InputDate:   date,
		Amount:      decimalToNumeric(amount),
		Description: textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("update fund input: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindFundInput, enum.SourceTypeFundInput, fi.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &fi, nil
}

func (s *FundInputService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetFundInputForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFundInputNotFound
		}
		return fmt.Errorf("get fund input: %w", err)
	}

	if err := reverseLedger(ctx, store, old.SeasonID, numericToDecimal(old.Amount), enum.LedgerKindFundInput, enum.SourceTypeFundInput, old.ID); err != nil {
		return err
	}
	if err := store.DeleteFundInput(ctx, old.ID); err != nil {
		return fmt.Errorf("delete fund input: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// AdditionalIncomeStore defines the DB methods needed by the additional
// income service.
type AdditionalIncomeStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	CreateAdditionalIncome(ctx context.Context, arg database.CreateAdditionalIncomeParams) (database.AdditionalIncome, error)
	GetAdditionalIncomeForUpdate(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error)
	UpdateAdditionalIncome(ctx context.Context, arg database.UpdateAdditionalIncomeParams) (database.AdditionalIncome, error)
	DeleteAdditionalIncome(ctx context.Context, id uuid.UUID) error
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
}

// NewAdditionalIncomeStore creates an AdditionalIncomeStore from a DBTX.
type NewAdditionalIncomeStore func(db database.DBTX) AdditionalIncomeStore

// AdditionalIncomeRequest is the validated input for non-sale income.
type AdditionalIncomeRequest struct {
	IncomeSource string
	SeasonID     string
	IncomeDate   string // YYYY-MM-DD
	Amount       string
	Description  string
}

// AdditionalIncomeService records income that is not tied to a sale, such
// as milling fees or byproduct sales.
type AdditionalIncomeService struct {
	pool     TxBeginner
	newStore NewAdditionalIncomeStore
}

// NewAdditionalIncomeService creates a new AdditionalIncomeService.
func NewAdditionalIncomeService(pool TxBeginner, newStore NewAdditionalIncomeStore) *AdditionalIncomeService {
	return &AdditionalIncomeService{pool: pool, newStore: newStore}
}

func (s *AdditionalIncomeService) Create(ctx context.Context, req AdditionalIncomeRequest) (*database.AdditionalIncome, error) {
	seasonID, date, amount, err := parseSourcedCashflowRequest(req.IncomeSource, req.SeasonID, req.IncomeDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	ai, err := store.CreateAdditionalIncome(ctx, database.CreateAdditionalIncomeParams{
		IncomeSource: req.IncomeSource,
		SeasonID:     seasonID,
		IncomeDate:   date,
		Amount:       decimalToNumeric(amount),
		Description:  textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("create additional income: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindAdditionalIncome, enum.SourceTypeAdditionalIncome, ai.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ai, nil
}

func (s *AdditionalIncomeService) Update(ctx context.Context, id uuid.UUID, req AdditionalIncomeRequest) (*database.AdditionalIncome, error) {
	seasonID, date, amount, err := parseSourcedCashflowRequest(req.IncomeSource, req.SeasonID, req.IncomeDate, req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetAdditionalIncomeForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIncomeNotFound
		}
		return nil, fmt.Errorf("get additional income: %w", err)
	}
	if err := checkSeason(ctx, store, seasonID); err != nil {
		return nil, err
	}

	if err := reverseLedger(ctx, store, old.SeasonID, numericToDecimal(old.Amount), enum.LedgerKindAdditionalIncome, enum.SourceTypeAdditionalIncome, old.ID); err != nil {
		return nil, err
	}

	ai, err := store.UpdateAdditionalIncome(ctx, database.UpdateAdditionalIncomeParams{
		ID:           old.ID,
		IncomeSource: req.IncomeSource,
		SeasonID:     seasonID,
		IncomeDate:   date,
		Amount:       decimalToNumeric(amount),
		Description:  textOrNull(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("update additional income: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindAdditionalIncome, enum.SourceTypeAdditionalIncome, ai.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ai, nil
}

func (s *AdditionalIncomeService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetAdditionalIncomeForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrIncomeNotFound
		}
		return fmt.Errorf("get additional income: %w", err)
	}

	if err := reverseLedger(ctx, store, old.SeasonID, numericToDecimal(old.Amount), enum.LedgerKindAdditionalIncome, enum.SourceTypeAdditionalIncome, old.ID); err != nil {
		return err
	}
	if err := store.DeleteAdditionalIncome(ctx, old.ID); err != nil {
		return fmt.Errorf("delete additional income: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- Shared helpers ---

// seasonGetter is the slice of each cashflow store used by checkSeason.
type seasonGetter interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
}

func checkSeason(ctx context.Context, store seasonGetter, seasonID uuid.UUID) error {
	if _, err := store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSeasonNotFound
		}
		return fmt.Errorf("get season: %w", err)
	}
	return nil
}

func parseCashflowRequest(categoryID, seasonID, date, amount string) (uuid.UUID, uuid.UUID, pgtype.Date, decimal.Decimal, error) {
	cid, err := parseID(categoryID)
	if err != nil {
		return uuid.Nil, uuid.Nil, pgtype.Date{}, decimal.Zero, fmt.Errorf("category_id: %w", err)
	}
	sid, d, amt, err := parseCashflowFields(seasonID, date, amount)
	return cid, sid, d, amt, err
}

func parseSourcedCashflowRequest(source, seasonID, date, amount string) (uuid.UUID, pgtype.Date, decimal.Decimal, error) {
	if source == "" {
		return uuid.Nil, pgtype.Date{}, decimal.Zero, ErrInvalidSource
	}
	return parseCashflowFields(seasonID, date, amount)
}

func parseCashflowFields(seasonID, date, amount string) (uuid.UUID, pgtype.Date, decimal.Decimal, error) {
	sid, err := parseID(seasonID)
	if err != nil {
		return uuid.Nil, pgtype.Date{}, decimal.Zero, fmt.Errorf("season_id: %w", err)
	}
	d, err := parseDate(date)
	if err != nil {
		return uuid.Nil, pgtype.Date{}, decimal.Zero, err
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return uuid.Nil, pgtype.Date{}, decimal.Zero, err
	}
	// Zero is allowed here; only payments require a strictly positive amount.
	if amt.IsNegative() {
		return uuid.Nil, pgtype.Date{}, decimal.Zero, fmt.Errorf("amount: %w", ErrNegativeAmount)
	}
	return sid, d, amt, nil
}
