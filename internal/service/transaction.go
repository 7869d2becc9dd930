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

// TransactionStore defines the DB methods needed by the transaction
// service. Satisfied by *database.Queries (and its WithTx variant).
type TransactionStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetSackType(ctx context.Context, id uuid.UUID) (database.SackType, error)
	CreateTransaction(ctx context.Context, arg database.CreateTransactionParams) (database.Transaction, error)
	CreateTransactionItem(ctx context.Context, arg database.CreateTransactionItemParams) (database.TransactionItem, error)
	GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (database.Transaction, error)
	ListTransactionItems(ctx context.Context, transactionID uuid.UUID) ([]database.TransactionItem, error)
	DeleteTransactionItems(ctx context.Context, transactionID uuid.UUID) error
	UpdateTransaction(ctx context.Context, arg database.UpdateTransactionParams) (database.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	ListPaymentsByTransaction(ctx context.Context, transactionID pgtype.UUID) ([]database.Payment, error)
	SumPaymentsByTransaction(ctx context.Context, transactionID pgtype.UUID) (pgtype.Numeric, error)
	DeletePaymentsByTransaction(ctx context.Context, transactionID pgtype.UUID) error
	RepointPaymentsForTransaction(ctx context.Context, arg database.RepointPaymentsForTransactionParams) error
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
	ApplyCustomerBalanceDelta(ctx context.Context, arg database.ApplyCustomerBalanceDeltaParams) (database.CustomerBalance, error)
}

// NewTransactionStore creates a TransactionStore from a DBTX (pool or tx).
type NewTransactionStore func(db database.DBTX) TransactionStore

// TransactionItemRequest is a single sack line on a transaction.
// UnitPrice overrides the sack type's current price; when empty, the current
// price is copied onto the line so later price changes cannot alter it.
type TransactionItemRequest struct {
	SackTypeID string
	Quantity   string
	UnitPrice  string
}

// CreateTransactionRequest is the validated input for recording a sale.
type CreateTransactionRequest struct {
	CustomerID string
	SeasonID   string
	TxDate     string // YYYY-MM-DD
	Items      []TransactionItemRequest
	PaidAmount string
	Notes      string
	ReceivedBy string
}

// UpdateTransactionRequest replaces a transaction's header and items.
// Linked payments are untouched unless the customer or season changes, in
// which case they move with the transaction.
type UpdateTransactionRequest struct {
	ID         uuid.UUID
	CustomerID string
	SeasonID   string
	TxDate     string
	Items      []TransactionItemRequest
	Notes      string
}

// TransactionResult is a transaction with its items and, on create, the
// implicit payment recorded for any paid amount.
type TransactionResult struct {
	Transaction database.Transaction
	Items       []database.TransactionItem
	Payment     *database.Payment
}

// TransactionService handles sale transactions and keeps the ledger, cash
// balance, and customer balance projections consistent with them.
type TransactionService struct {
	pool     TxBeginner
	newStore NewTransactionStore
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(pool TxBeginner, newStore NewTransactionStore) *TransactionService {
	return &TransactionService{pool: pool, newStore: newStore}
}

// processedTxItem holds a priced line ready for insertion.
type processedTxItem struct {
	params database.CreateTransactionItemParams
}

// Create validates, prices, and records a sale atomically. The transaction
// row, its items, the customer sale delta, and — when paid_amount > 0 — an
// implicit payment with its ledger entry and cash/payment deltas all commit
// or roll back together.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	seasonID, err := parseID(req.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("season_id: %w", err)
	}
	txDate, err := parseDate(req.TxDate)
	if err != nil {
		return nil, fmt.Errorf("tx_date: %w", err)
	}
	paid, err := parseAmount(req.PaidAmount)
	if err != nil {
		return nil, fmt.Errorf("paid_amount: %w", err)
	}
	if paid.IsNegative() {
		return nil, fmt.Errorf("paid_amount: %w", ErrNegativeAmount)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if _, err := store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}

	items, total, err := s.priceItems(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}

	due := total.Sub(paid)
	transaction, err := store.CreateTransaction(ctx, database.CreateTransactionParams{
		CustomerID:    customerID,
		SeasonID:      seasonID,
		TxDate:        txDate,
		TotalAmount:   decimalToNumeric(total),
		PaidAmount:    decimalToNumeric(paid),
		DueAmount:     decimalToNumeric(due),
		PaymentStatus: DerivePaymentStatus(paid, due),
		Notes:         textOrNull(req.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	var itemRows []database.TransactionItem
	for _, pi := range items {
		pi.params.TransactionID = transaction.ID
		item, err := store.CreateTransactionItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create transaction item: %w", err)
		}
		itemRows = append(itemRows, item)
	}

	if err := applySaleDelta(ctx, store, customerID, seasonID, total); err != nil {
		return nil, err
	}

	var implicit *database.Payment
	if paid.GreaterThan(decimal.Zero) {
		payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
			CustomerID:    customerID,
			TransactionID: pgtype.UUID{Bytes: transaction.ID, Valid: true},
			SeasonID:      seasonID,
			PayDate:       txDate,
			Amount:        decimalToNumeric(paid),
			Notes:         textOrNull(req.Notes),
			ReceivedBy:    textOrNull(req.ReceivedBy),
		})
		if err != nil {
			return nil, fmt.Errorf("create implicit payment: %w", err)
		}
		if err := postLedger(ctx, store, seasonID, paid, enum.LedgerKindPayment, enum.SourceTypePayment, payment.ID); err != nil {
			return nil, err
		}
		if err := applyPaymentDelta(ctx, store, customerID, seasonID, paid); err != nil {
			return nil, err
		}
		implicit = &payment
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &TransactionResult{Transaction: transaction, Items: itemRows, Payment: implicit}, nil
}

// Update replaces a transaction's header and items. The old sale delta is
// reversed before the new one is applied — always, even when the customer
// and season are unchanged, so the edit path has exactly one shape. When the
// owner changes, linked payments are repointed and their ledger entries and
// payment deltas move with them.
func (s *TransactionService) Update(ctx context.Context, req UpdateTransactionRequest) (*TransactionResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	seasonID, err := parseID(req.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("season_id: %w", err)
	}
	txDate, err := parseDate(req.TxDate)
	if err != nil {
		return nil, fmt.Errorf("tx_date: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetTransactionForUpdate(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	if _, err := store.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if _, err := store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}

	// Reverse the old sale delta first. The new one is applied below after
	// repricing, so a no-op edit nets out to zero on every projection.
	if err := applySaleDelta(ctx, store, old.CustomerID, old.SeasonID, numericToDecimal(old.TotalAmount).Neg()); err != nil {
		return nil, err
	}

	txID := pgtype.UUID{Bytes: old.ID, Valid: true}
	if customerID != old.CustomerID || seasonID != old.SeasonID {
		if err := movePayments(ctx, store, txID, old, customerID, seasonID); err != nil {
			return nil, err
		}
	}

	if err := store.DeleteTransactionItems(ctx, old.ID); err != nil {
		return nil, fmt.Errorf("delete transaction items: %w", err)
	}
	items, total, err := s.priceItems(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}

	paidSum, err := store.SumPaymentsByTransaction(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	paid := numericToDecimal(paidSum)
	due := total.Sub(paid)

	updated, err := store.UpdateTransaction(ctx, database.UpdateTransactionParams{
		ID:            old.ID,
		CustomerID:    customerID,
		SeasonID:      seasonID,
		TxDate:        txDate,
		TotalAmount:   decimalToNumeric(total),
		PaidAmount:    decimalToNumeric(paid),
		DueAmount:     decimalToNumeric(due),
		PaymentStatus: DerivePaymentStatus(paid, due),
		Notes:         textOrNull(req.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	var itemRows []database.TransactionItem
	for _, pi := range items {
		pi.params.TransactionID = updated.ID
		item, err := store.CreateTransactionItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create transaction item: %w", err)
		}
		itemRows = append(itemRows, item)
	}

	if err := applySaleDelta(ctx, store, customerID, seasonID, total); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &TransactionResult{Transaction: updated, Items: itemRows}, nil
}

// Delete removes a transaction and every trace of it: the sale delta is
// reversed, each linked payment gets a compensating ledger entry and payment
// delta, and the payment rows themselves are deleted. Items go with the row
// via the FK cascade.
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	t, err := store.GetTransactionForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if err := applySaleDelta(ctx, store, t.CustomerID, t.SeasonID, numericToDecimal(t.TotalAmount).Neg()); err != nil {
		return err
	}

	txID := pgtype.UUID{Bytes: t.ID, Valid: true}
	payments, err := store.ListPaymentsByTransaction(ctx, txID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		amount := numericToDecimal(p.Amount)
		if err := reverseLedger(ctx, store, p.SeasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, p.ID); err != nil {
			return err
		}
		if err := applyPaymentDelta(ctx, store, p.CustomerID, p.SeasonID, amount.Neg()); err != nil {
			return err
		}
	}
	if err := store.DeletePaymentsByTransaction(ctx, txID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}

	if err := store.DeleteTransaction(ctx, t.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// movePayments shifts every payment linked to a transaction onto a new
// customer/season: compensating ledger entries and payment deltas back out
// the old placement, the rows are repointed, and fresh entries and deltas
// record the new one.
func movePayments(ctx context.Context, store TransactionStore, txID pgtype.UUID, old database.Transaction, customerID, seasonID uuid.UUID) error {
	payments, err := store.ListPaymentsByTransaction(ctx, txID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		amount := numericToDecimal(p.Amount)
		if err := reverseLedger(ctx, store, p.SeasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, p.ID); err != nil {
			return err
		}
		if err := applyPaymentDelta(ctx, store, p.CustomerID, p.SeasonID, amount.Neg()); err != nil {
			return err
		}
	}
	if err := store.RepointPaymentsForTransaction(ctx, database.RepointPaymentsForTransactionParams{
		TransactionID: txID,
		CustomerID:    customerID,
		SeasonID:      seasonID,
	}); err != nil {
		return fmt.Errorf("repoint payments: %w", err)
	}
	for _, p := range payments {
		amount := numericToDecimal(p.Amount)
		if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, p.ID); err != nil {
			return err
		}
		if err := applyPaymentDelta(ctx, store, customerID, seasonID, amount); err != nil {
			return err
		}
	}
	return nil
}

// priceItems validates and prices each line. The line total is quantity
// times unit price rounded to two places, and the transaction total is the
// exact sum of the stored line totals, so total_amount always equals the sum
// of its items.
func (s *TransactionService) priceItems(ctx context.Context, store TransactionStore, reqs []TransactionItemRequest) ([]processedTxItem, decimal.Decimal, error) {
	total := decimal.Zero
	var items []processedTxItem
	for i, item := range reqs {
		sackTypeID, err := uuid.Parse(item.SackTypeID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("item[%d]: sack_type_id: %w", i, ErrInvalidID)
		}
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil || !qty.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		sackType, err := store.GetSackType(ctx, sackTypeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, decimal.Zero, fmt.Errorf("item[%d]: %w", i, ErrSackTypeNotFound)
			}
			return nil, decimal.Zero, fmt.Errorf("item[%d]: get sack type: %w", i, err)
		}

		unitPrice := numericToDecimal(sackType.UnitPrice)
		if item.UnitPrice != "" {
			unitPrice, err = decimal.NewFromString(item.UnitPrice)
			if err != nil || unitPrice.IsNegative() {
				return nil, decimal.Zero, fmt.Errorf("item[%d]: %w", i, ErrInvalidUnitPrice)
			}
		}

		lineTotal := qty.Mul(unitPrice).Round(2)
		total = total.Add(lineTotal)

		items = append(items, processedTxItem{
			params: database.CreateTransactionItemParams{
				SackTypeID: sackTypeID,
				Quantity:   decimalToNumeric(qty),
				UnitPrice:  decimalToNumeric(unitPrice),
				TotalPrice: decimalToNumeric(lineTotal),
			},
		})
	}
	return items, total, nil
}
