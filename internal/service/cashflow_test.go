package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/enum"
	"github.com/shopspring/decimal"
)

type mockExpenseStore struct {
	rec *ledgerRecorder

	getSeasonFn     func(ctx context.Context, id uuid.UUID) (database.Season, error)
	getCategoryFn   func(ctx context.Context, id uuid.UUID) (database.ExpenseCategory, error)
	createExpenseFn func(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error)
	getExpenseFn    func(ctx context.Context, id uuid.UUID) (database.Expense, error)
	updateExpenseFn func(ctx context.Context, arg database.UpdateExpenseParams) (database.Expense, error)
	deleteExpenseFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockExpenseStore) GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error) {
	return m.getSeasonFn(ctx, id)
}
func (m *mockExpenseStore) GetExpenseCategory(ctx context.Context, id uuid.UUID) (database.ExpenseCategory, error) {
	return m.getCategoryFn(ctx, id)
}
func (m *mockExpenseStore) CreateExpense(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error) {
	return m.createExpenseFn(ctx, arg)
}
func (m *mockExpenseStore) GetExpenseForUpdate(ctx context.Context, id uuid.UUID) (database.Expense, error) {
	return m.getExpenseFn(ctx, id)
}
func (m *mockExpenseStore) UpdateExpense(ctx context.Context, arg database.UpdateExpenseParams) (database.Expense, error) {
	return m.updateExpenseFn(ctx, arg)
}
func (m *mockExpenseStore) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return m.deleteExpenseFn(ctx, id)
}
func (m *mockExpenseStore) CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error) {
	return m.rec.createLedgerEntry(arg)
}
func (m *mockExpenseStore) ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error) {
	return m.rec.applyCashBalanceDelta(arg)
}

func defaultExpenseStore(categoryID, seasonID uuid.UUID) *mockExpenseStore {
	return &mockExpenseStore{
		rec: &ledgerRecorder{},
		getSeasonFn: func(ctx context.Context, id uuid.UUID) (database.Season, error) {
			if id == seasonID {
				return database.Season{ID: seasonID, Name: "Boro 2026"}, nil
			}
			return database.Season{}, pgx.ErrNoRows
		},
		getCategoryFn: func(ctx context.Context, id uuid.UUID) (database.ExpenseCategory, error) {
			if id == categoryID {
				return database.ExpenseCategory{ID: categoryID, Name: "Labor"}, nil
			}
			return database.ExpenseCategory{}, pgx.ErrNoRows
		},
		createExpenseFn: func(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error) {
			return database.Expense{
				ID: uuid.New(), CategoryID: arg.CategoryID, SeasonID: arg.SeasonID,
				ExpenseDate: arg.ExpenseDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		getExpenseFn: func(ctx context.Context, id uuid.UUID) (database.Expense, error) {
			return database.Expense{}, pgx.ErrNoRows
		},
		updateExpenseFn: func(ctx context.Context, arg database.UpdateExpenseParams) (database.Expense, error) {
			return database.Expense{
				ID: arg.ID, CategoryID: arg.CategoryID, SeasonID: arg.SeasonID,
				ExpenseDate: arg.ExpenseDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		deleteExpenseFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
}

func newExpenseTestService(store *mockExpenseStore) (*ExpenseService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	return NewExpenseService(pool, func(db database.DBTX) ExpenseStore { return store }), tx
}

func TestCreateExpense_ZeroAmountAccepted(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	store := defaultExpenseStore(categoryID, seasonID)
	svc, _ := newExpenseTestService(store)

	result, err := svc.Create(context.Background(), ExpenseRequest{
		CategoryID:  categoryID.String(),
		SeasonID:    seasonID.String(),
		ExpenseDate: "2026-02-20",
		Amount:      "0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !numericToDecimal(result.Amount).IsZero() {
		t.Errorf("amount: got %v, want 0", numericToDecimal(result.Amount))
	}
	if len(store.rec.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(store.rec.entries))
	}
	if !numericToDecimal(store.rec.entries[0].SignedAmount).IsZero() {
		t.Errorf("ledger entry amount: got %v, want 0", numericToDecimal(store.rec.entries[0].SignedAmount))
	}
}

func TestCreateExpense_NegativeAmount(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	svc, _ := newExpenseTestService(defaultExpenseStore(categoryID, seasonID))

	_, err := svc.Create(context.Background(), ExpenseRequest{
		CategoryID:  categoryID.String(),
		SeasonID:    seasonID.String(),
		ExpenseDate: "2026-02-20",
		Amount:      "-50",
	})
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got: %v", err)
	}
}

func TestCreateExpense_CategoryNotFound(t *testing.T) {
	seasonID := uuid.New()
	svc, _ := newExpenseTestService(defaultExpenseStore(uuid.New(), seasonID))

	_, err := svc.Create(context.Background(), ExpenseRequest{
		CategoryID:  uuid.New().String(),
		SeasonID:    seasonID.String(),
		ExpenseDate: "2026-02-20",
		Amount:      "2000",
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got: %v", err)
	}
}

func TestCreateExpense_PostsNegative(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	store := defaultExpenseStore(categoryID, seasonID)
	svc, _ := newExpenseTestService(store)

	expense, err := svc.Create(context.Background(), ExpenseRequest{
		CategoryID:  categoryID.String(),
		SeasonID:    seasonID.String(),
		ExpenseDate: "2026-02-20",
		Amount:      "2000.00",
		Description: "diesel for the mill",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The expense row stores the positive amount; the ledger entry carries
	// the sign.
	if !numericEquals(expense.Amount, "2000.00") {
		t.Errorf("stored amount: got %v, want 2000.00", numericToDecimal(expense.Amount))
	}
	if len(store.rec.entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(store.rec.entries))
	}
	entry := store.rec.entries[0]
	if entry.Kind != enum.LedgerKindExpense || entry.SourceType != enum.SourceTypeExpense {
		t.Errorf("kind/source: got %s/%s", entry.Kind, entry.SourceType)
	}
	if !numericEquals(entry.SignedAmount, "-2000.00") {
		t.Errorf("signed_amount: got %v, want -2000.00", numericToDecimal(entry.SignedAmount))
	}
	if !store.rec.cashSum().Equal(decimal.RequireFromString("-2000")) {
		t.Errorf("cash delta: got %v, want -2000", store.rec.cashSum())
	}
}

func TestUpdateExpense_CompensatesOldEntry(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	expenseID := uuid.New()
	store := defaultExpenseStore(categoryID, seasonID)
	store.getExpenseFn = func(ctx context.Context, id uuid.UUID) (database.Expense, error) {
		return database.Expense{
			ID: expenseID, CategoryID: categoryID, SeasonID: seasonID,
			Amount: makeNumeric("2000.00"),
		}, nil
	}
	svc, _ := newExpenseTestService(store)

	_, err := svc.Update(context.Background(), expenseID, ExpenseRequest{
		CategoryID:  categoryID.String(),
		SeasonID:    seasonID.String(),
		ExpenseDate: "2026-02-21",
		Amount:      "1500.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// +2000 compensation for the old -2000, then -1500: net cash +500.
	if len(store.rec.entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(store.rec.entries))
	}
	if !numericEquals(store.rec.entries[0].SignedAmount, "2000.00") {
		t.Errorf("compensating entry: got %v, want 2000.00", numericToDecimal(store.rec.entries[0].SignedAmount))
	}
	if !numericEquals(store.rec.entries[1].SignedAmount, "-1500.00") {
		t.Errorf("new entry: got %v, want -1500.00", numericToDecimal(store.rec.entries[1].SignedAmount))
	}
	if !store.rec.cashSum().Equal(decimal.RequireFromString("500")) {
		t.Errorf("net cash delta: got %v, want 500", store.rec.cashSum())
	}
}

func TestDeleteExpense_RestoresCash(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	expenseID := uuid.New()
	store := defaultExpenseStore(categoryID, seasonID)
	store.getExpenseFn = func(ctx context.Context, id uuid.UUID) (database.Expense, error) {
		return database.Expense{ID: expenseID, CategoryID: categoryID, SeasonID: seasonID, Amount: makeNumeric("2000.00")}, nil
	}
	deleted := false
	store.deleteExpenseFn = func(ctx context.Context, id uuid.UUID) error {
		deleted = true
		return nil
	}
	svc, _ := newExpenseTestService(store)

	if err := svc.Delete(context.Background(), expenseID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !deleted {
		t.Fatal("expected the expense row to be deleted")
	}
	// Deleting an expense gives the cash back.
	if !store.rec.cashSum().Equal(decimal.RequireFromString("2000")) {
		t.Errorf("cash delta: got %v, want 2000", store.rec.cashSum())
	}
}

func TestDeleteExpense_NotFound(t *testing.T) {
	svc, _ := newExpenseTestService(defaultExpenseStore(uuid.New(), uuid.New()))

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got: %v", err)
	}
}

// --- Fund inputs ---

type mockFundInputStore struct {
	rec *ledgerRecorder

	getSeasonFn func(ctx context.Context, id uuid.UUID) (database.Season, error)
	createFn    func(ctx context.Context, arg database.CreateFundInputParams) (database.FundInput, error)
	getFn       func(ctx context.Context, id uuid.UUID) (database.FundInput, error)
	updateFn    func(ctx context.Context, arg database.UpdateFundInputParams) (database.FundInput, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFundInputStore) GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error) {
	return m.getSeasonFn(ctx, id)
}
func (m *mockFundInputStore) CreateFundInput(ctx context.Context, arg database.CreateFundInputParams) (database.FundInput, error) {
	return m.createFn(ctx, arg)
}
func (m *mockFundInputStore) GetFundInputForUpdate(ctx context.Context, id uuid.UUID) (database.FundInput, error) {
	return m.getFn(ctx, id)
}
func (m *mockFundInputStore) UpdateFundInput(ctx context.Context, arg database.UpdateFundInputParams) (database.FundInput, error) {
	return m.updateFn(ctx, arg)
}
func (m *mockFundInputStore) DeleteFundInput(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockFundInputStore) CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error) {
	return m.rec.createLedgerEntry(arg)
}
func (m *mockFundInputStore) ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error) {
	return m.rec.applyCashBalanceDelta(arg)
}

func defaultFundInputStore(seasonID uuid.UUID) *mockFundInputStore {
	return &mockFundInputStore{
		rec: &ledgerRecorder{},
		getSeasonFn: func(ctx context.Context, id uuid.UUID) (database.Season, error) {
			if id == seasonID {
				return database.Season{ID: seasonID, Name: "Boro 2026"}, nil
			}
			return database.Season{}, pgx.ErrNoRows
		},
		createFn: func(ctx context.Context, arg database.CreateFundInputParams) (database.FundInput, error) {
			return database.FundInput{
				ID: uuid.New(), Source: arg.Source, SeasonID: arg.SeasonID,
				InputDate: arg.InputDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		getFn: func(ctx context.Context, id uuid.UUID) (database.FundInput, error) {
			return database.FundInput{}, pgx.ErrNoRows
		},
		updateFn: func(ctx context.Context, arg database.UpdateFundInputParams) (database.FundInput, error) {
			return database.FundInput{
				ID: arg.ID, Source: arg.Source, SeasonID: arg.SeasonID,
				InputDate: arg.InputDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
}

func newFundInputTestService(store *mockFundInputStore) *FundInputService {
	pool := &mockTxBeginner{tx: &mockTx{}}
	return NewFundInputService(pool, func(db database.DBTX) FundInputStore { return store })
}

func TestCreateFundInput_EmptySource(t *testing.T) {
	seasonID := uuid.New()
	svc := newFundInputTestService(defaultFundInputStore(seasonID))

	_, err := svc.Create(context.Background(), FundInputRequest{
		SeasonID:  seasonID.String(),
		InputDate: "2026-02-01",
		Amount:    "10000",
	})
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got: %v", err)
	}
}

func TestCreateFundInput_PostsPositive(t *testing.T) {
	seasonID := uuid.New()
	store := defaultFundInputStore(seasonID)
	svc := newFundInputTestService(store)

	_, err := svc.Create(context.Background(), FundInputRequest{
		Source:    "owner capital",
		SeasonID:  seasonID.String(),
		InputDate: "2026-02-01",
		Amount:    "10000.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.rec.entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(store.rec.entries))
	}
	entry := store.rec.entries[0]
	if entry.Kind != enum.LedgerKindFundInput {
		t.Errorf("kind: got %s, want fund_input", entry.Kind)
	}
	if !numericEquals(entry.SignedAmount, "10000.00") {
		t.Errorf("signed_amount: got %v, want 10000.00", numericToDecimal(entry.SignedAmount))
	}
	if !store.rec.cashSum().Equal(decimal.RequireFromString("10000")) {
		t.Errorf("cash delta: got %v, want 10000", store.rec.cashSum())
	}
}

func TestUpdateFundInput_NetDelta(t *testing.T) {
	seasonID := uuid.New()
	fiID := uuid.New()
	store := defaultFundInputStore(seasonID)
	store.getFn = func(ctx context.Context, id uuid.UUID) (database.FundInput, error) {
		return database.FundInput{ID: fiID, Source: "owner capital", SeasonID: seasonID, Amount: makeNumeric("10000.00")}, nil
	}
	svc := newFundInputTestService(store)

	_, err := svc.Update(context.Background(), fiID, FundInputRequest{
		Source:    "bank loan",
		SeasonID:  seasonID.String(),
		InputDate: "2026-02-02",
		Amount:    "12000.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// -10000 then +12000: net +2000.
	if !store.rec.cashSum().Equal(decimal.RequireFromString("2000")) {
		t.Errorf("net cash delta: got %v, want 2000", store.rec.cashSum())
	}
}

func TestDeleteFundInput_RemovesCash(t *testing.T) {
	seasonID := uuid.New()
	fiID := uuid.New()
	store := defaultFundInputStore(seasonID)
	store.getFn = func(ctx context.Context, id uuid.UUID) (database.FundInput, error) {
		return database.FundInput{ID: fiID, SeasonID: seasonID, Amount: makeNumeric("10000.00")}, nil
	}
	svc := newFundInputTestService(store)

	if err := svc.Delete(context.Background(), fiID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.rec.cashSum().Equal(decimal.RequireFromString("-10000")) {
		t.Errorf("cash delta: got %v, want -10000", store.rec.cashSum())
	}
}

// --- Additional incomes ---

type mockIncomeStore struct {
	rec *ledgerRecorder

	getSeasonFn func(ctx context.Context, id uuid.UUID) (database.Season, error)
	createFn    func(ctx context.Context, arg database.CreateAdditionalIncomeParams) (database.AdditionalIncome, error)
	getFn       func(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error)
	updateFn    func(ctx context.Context, arg database.UpdateAdditionalIncomeParams) (database.AdditionalIncome, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockIncomeStore) GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error) {
	return m.getSeasonFn(ctx, id)
}
func (m *mockIncomeStore) CreateAdditionalIncome(ctx context.Context, arg database.CreateAdditionalIncomeParams) (database.AdditionalIncome, error) {
	return m.createFn(ctx, arg)
}
func (m *mockIncomeStore) GetAdditionalIncomeForUpdate(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error) {
	return m.getFn(ctx, id)
}
func (m *mockIncomeStore) UpdateAdditionalIncome(ctx context.Context, arg database.UpdateAdditionalIncomeParams) (database.AdditionalIncome, error) {
	return m.updateFn(ctx, arg)
}
func (m *mockIncomeStore) DeleteAdditionalIncome(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockIncomeStore) CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error) {
	return m.rec.createLedgerEntry(arg)
}
func (m *mockIncomeStore) ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error) {
	return m.rec.applyCashBalanceDelta(arg)
}

func defaultIncomeStore(seasonID uuid.UUID) *mockIncomeStore {
	return &mockIncomeStore{
		rec: &ledgerRecorder{},
		getSeasonFn: func(ctx context.Context, id uuid.UUID) (database.Season, error) {
			if id == seasonID {
				return database.Season{ID: seasonID, Name: "Boro 2026"}, nil
			}
			return database.Season{}, pgx.ErrNoRows
		},
		createFn: func(ctx context.Context, arg database.CreateAdditionalIncomeParams) (database.AdditionalIncome, error) {
			return database.AdditionalIncome{
				ID: uuid.New(), IncomeSource: arg.IncomeSource, SeasonID: arg.SeasonID,
				IncomeDate: arg.IncomeDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		getFn: func(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error) {
			return database.AdditionalIncome{}, pgx.ErrNoRows
		},
		updateFn: func(ctx context.Context, arg database.UpdateAdditionalIncomeParams) (database.AdditionalIncome, error) {
			return database.AdditionalIncome{
				ID: arg.ID, IncomeSource: arg.IncomeSource, SeasonID: arg.SeasonID,
				IncomeDate: arg.IncomeDate, Amount: arg.Amount, Description: arg.Description,
			}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
}

func newIncomeTestService(store *mockIncomeStore) *AdditionalIncomeService {
	pool := &mockTxBeginner{tx: &mockTx{}}
	return NewAdditionalIncomeService(pool, func(db database.DBTX) AdditionalIncomeStore { return store })
}

func TestCreateAdditionalIncome_PostsPositive(t *testing.T) {
	seasonID := uuid.New()
	store := defaultIncomeStore(seasonID)
	svc := newIncomeTestService(store)

	_, err := svc.Create(context.Background(), AdditionalIncomeRequest{
		IncomeSource: "milling fees",
		SeasonID:     seasonID.String(),
		IncomeDate:   "2026-03-01",
		Amount:       "350.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.rec.entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(store.rec.entries))
	}
	entry := store.rec.entries[0]
	if entry.Kind != enum.LedgerKindAdditionalIncome {
		t.Errorf("kind: got %s, want additional_income", entry.Kind)
	}
	if !numericEquals(entry.SignedAmount, "350.00") {
		t.Errorf("signed_amount: got %v, want 350.00", numericToDecimal(entry.SignedAmount))
	}
}

func TestUpdateAdditionalIncome_SeasonMove(t *testing.T) {
	oldSeason, newSeason := uuid.New(), uuid.New()
	incomeID := uuid.New()
	store := defaultIncomeStore(newSeason)
	store.getFn = func(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error) {
		return database.AdditionalIncome{ID: incomeID, IncomeSource: "milling fees", SeasonID: oldSeason, Amount: makeNumeric("350.00")}, nil
	}
	svc := newIncomeTestService(store)

	_, err := svc.Update(context.Background(), incomeID, AdditionalIncomeRequest{
		IncomeSource: "milling fees",
		SeasonID:     newSeason.String(),
		IncomeDate:   "2026-03-02",
		Amount:       "350.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The compensation lands on the old season, the repost on the new one.
	if len(store.rec.cashDeltas) != 2 {
		t.Fatalf("expected 2 cash deltas, got %d", len(store.rec.cashDeltas))
	}
	first, second := store.rec.cashDeltas[0], store.rec.cashDeltas[1]
	if first.SeasonID != oldSeason || !numericEquals(first.Amount, "-350.00") {
		t.Errorf("first delta: got season %v amount %v", first.SeasonID, numericToDecimal(first.Amount))
	}
	if second.SeasonID != newSeason || !numericEquals(second.Amount, "350.00") {
		t.Errorf("second delta: got season %v amount %v", second.SeasonID, numericToDecimal(second.Amount))
	}
}

func TestDeleteAdditionalIncome_NotFound(t *testing.T) {
	svc := newIncomeTestService(defaultIncomeStore(uuid.New()))

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrIncomeNotFound) {
		t.Fatalf("expected ErrIncomeNotFound, got: %v", err)
	}
}
