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

// PaymentStore defines the DB methods needed by the payment service.
type PaymentStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (database.Transaction, error)
	SumPaymentsByTransaction(ctx context.Context, transactionID pgtype.UUID) (pgtype.Numeric, error)
	UpdateTransactionAmounts(ctx context.Context, arg database.UpdateTransactionAmountsParams) (database.Transaction, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (database.Payment, error)
	UpdatePayment(ctx context.Context, arg database.UpdatePaymentParams) (database.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	CreateLedgerEntry(ctx context.Context, arg database.CreateLedgerEntryParams) (database.LedgerEntry, error)
	ApplyCashBalanceDelta(ctx context.Context, arg database.ApplyCashBalanceDeltaParams) (database.CashBalance, error)
	ApplyCustomerBalanceDelta(ctx context.Context, arg database.ApplyCustomerBalanceDeltaParams) (database.CustomerBalance, error)
}

// NewPaymentStore creates a PaymentStore from a DBTX (pool or tx).
type NewPaymentStore func(db database.DBTX) PaymentStore

// CreatePaymentRequest is the validated input for recording a payment.
// TransactionID is optional; a payment without one reduces the customer's
// season balance without settling a specific sale.
type CreatePaymentRequest struct {
	CustomerID    string
	TransactionID string
	SeasonID      string
	PayDate       string // YYYY-MM-DD
	Amount        string
	Notes         string
	ReceivedBy    string
}

// UpdatePaymentRequest replaces a payment's fields.
type UpdatePaymentRequest struct {
	ID            uuid.UUID
	CustomerID    string
	TransactionID string
	SeasonID      string
	PayDate       string
	Amount        string
	Notes         string
	ReceivedBy    string
}

// PaymentResult is a payment with the linked transaction's recomputed
// amounts, when there is one.
type PaymentResult struct {
	Payment     database.Payment
	Transaction *database.Transaction
}

// PaymentService records customer payments and keeps the ledger, cash
// balance, customer balance, and any linked transaction's paid/due amounts
// consistent with them.
type PaymentService struct {
	pool     TxBeginner
	newStore NewPaymentStore
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(pool TxBeginner, newStore NewPaymentStore) *PaymentService {
	return &PaymentService{pool: pool, newStore: newStore}
}

// Create records a payment atomically: the payment row, its ledger entry,
// the cash and customer payment deltas, and — when linked — the
// transaction's recomputed paid/due/status all commit together.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResult, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	seasonID, err := parseID(req.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("season_id: %w", err)
	}
	payDate, err := parseDate(req.PayDate)
	if err != nil {
		return nil, fmt.Errorf("pay_date: %w", err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("amount: %w", ErrNonPositiveAmount)
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

	transactionID, linked, err := lockLinkedTransaction(ctx, store, req.TransactionID, customerID)
	if err != nil {
		return nil, err
	}

	payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
		CustomerID:    customerID,
		TransactionID: transactionID,
		SeasonID:      seasonID,
		PayDate:       payDate,
		Amount:        decimalToNumeric(amount),
		Notes:         textOrNull(req.Notes),
		ReceivedBy:    textOrNull(req.ReceivedBy),
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, payment.ID); err != nil {
		return nil, err
	}
	if err := applyPaymentDelta(ctx, store, customerID, seasonID, amount); err != nil {
		return nil, err
	}

	var updatedTx *database.Transaction
	if linked != nil {
		updatedTx, err = recomputeTransactionAmounts(ctx, store, *linked)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PaymentResult{Payment: payment, Transaction: updatedTx}, nil
}

// Update reverses the payment's old ledger entry and deltas, rewrites the
// row, and posts the new ones. Both the previously linked transaction and
// the newly linked one get their amounts recomputed.
func (s *PaymentService) Update(ctx context.Context, req UpdatePaymentRequest) (*PaymentResult, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	seasonID, err := parseID(req.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("season_id: %w", err)
	}
	payDate, err := parseDate(req.PayDate)
	if err != nil {
		return nil, fmt.Errorf("pay_date: %w", err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("amount: %w", ErrNonPositiveAmount)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := store.GetPaymentForUpdate(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
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

	var oldLinked *database.Transaction
	if old.TransactionID.Valid {
		t, err := store.GetTransactionForUpdate(ctx, old.TransactionID.Bytes)
		if err != nil {
			return nil, fmt.Errorf("get old linked transaction: %w", err)
		}
		oldLinked = &t
	}
	transactionID, newLinked, err := lockLinkedTransaction(ctx, store, req.TransactionID, customerID)
	if err != nil {
		return nil, err
	}

	oldAmount := numericToDecimal(old.Amount)
	if err := reverseLedger(ctx, store, old.SeasonID, oldAmount, enum.LedgerKindPayment, enum.SourceTypePayment, old.ID); err != nil {
		return nil, err
	}
	if err := applyPaymentDelta(ctx, store, old.CustomerID, old.SeasonID, oldAmount.Neg()); err != nil {
		return nil, err
	}

	payment, err := store.UpdatePayment(ctx, database.UpdatePaymentParams{
		ID:            old.ID,
		CustomerID:    customerID,
		TransactionID: transactionID,
		SeasonID:      seasonID,
		PayDate:       payDate,
		Amount:        decimalToNumeric(amount),
		Notes:         textOrNull(req.Notes),
		ReceivedBy:    textOrNull(req.ReceivedBy),
	})
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	if err := postLedger(ctx, store, seasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, payment.ID); err != nil {
		return nil, err
	}
	if err := applyPaymentDelta(ctx, store, customerID, seasonID, amount); err != nil {
		return nil, err
	}

	var updatedTx *database.Transaction
	if oldLinked != nil && (newLinked == nil || oldLinked.ID != newLinked.ID) {
		if _, err := recomputeTransactionAmounts(ctx, store, *oldLinked); err != nil {
			return nil, err
		}
	}
	if newLinked != nil {
		updatedTx, err = recomputeTransactionAmounts(ctx, store, *newLinked)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PaymentResult{Payment: payment, Transaction: updatedTx}, nil
}

// Delete removes a payment: compensating ledger entry, reversed payment
// delta, row deletion, and a recompute of the linked transaction if any.
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	p, err := store.GetPaymentForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("get payment: %w", err)
	}

	var linked *database.Transaction
	if p.TransactionID.Valid {
		t, err := store.GetTransactionForUpdate(ctx, p.TransactionID.Bytes)
		if err != nil {
			return fmt.Errorf("get linked transaction: %w", err)
		}
		linked = &t
	}

	amount := numericToDecimal(p.Amount)
	if err := reverseLedger(ctx, store, p.SeasonID, amount, enum.LedgerKindPayment, enum.SourceTypePayment, p.ID); err != nil {
		return err
	}
	if err := applyPaymentDelta(ctx, store, p.CustomerID, p.SeasonID, amount.Neg()); err != nil {
		return err
	}

	if err := store.DeletePayment(ctx, p.ID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if linked != nil {
		if _, err := recomputeTransactionAmounts(ctx, store, *linked); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// lockLinkedTransaction resolves an optional transaction reference: parses
// the id, locks the row, and enforces that it belongs to the paying
// customer.
func lockLinkedTransaction(ctx context.Context, store PaymentStore, rawID string, customerID uuid.UUID) (pgtype.UUID, *database.Transaction, error) {
	if rawID == "" {
		return pgtype.UUID{}, nil, nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return pgtype.UUID{}, nil, fmt.Errorf("transaction_id: %w", ErrInvalidID)
	}
	t, err := store.GetTransactionForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgtype.UUID{}, nil, ErrTransactionNotFound
		}
		return pgtype.UUID{}, nil, fmt.Errorf("get transaction: %w", err)
	}
	if t.CustomerID != customerID {
		return pgtype.UUID{}, nil, ErrCustomerMismatch
	}
	return pgtype.UUID{Bytes: id, Valid: true}, &t, nil
}

// recomputeTransactionAmounts re-derives a transaction's paid, due, and
// status from the current sum of its linked payments.
func recomputeTransactionAmounts(ctx context.Context, store PaymentStore, t database.Transaction) (*database.Transaction, error) {
	sum, err := store.SumPaymentsByTransaction(ctx, pgtype.UUID{Bytes: t.ID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	paid := numericToDecimal(sum)
	due := numericToDecimal(t.TotalAmount).Sub(paid)
	updated, err := store.UpdateTransactionAmounts(ctx, database.UpdateTransactionAmountsParams{
		ID:            t.ID,
		PaidAmount:    decimalToNumeric(paid),
		DueAmount:     decimalToNumeric(due),
		PaymentStatus: DerivePaymentStatus(paid, due),
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction amounts: %w", err)
	}
	return &updated, nil
}
