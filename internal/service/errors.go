package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors returned by the financial command services. Validation errors are
// returned before any mutation; the enclosing transaction is rolled back on
// every error path.
var (
	ErrEmptyItems          = errors.New("items are required")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidUnitPrice    = errors.New("unit_price must be >= 0")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNegativeAmount      = errors.New("amount must be >= 0")
	ErrNonPositiveAmount   = errors.New("amount must be > 0")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidSource       = errors.New("source is required")
	ErrInvalidDate         = errors.New("invalid date")
	ErrSeasonNotFound      = errors.New("season not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrSackTypeNotFound    = errors.New("sack type not found")
	ErrCategoryNotFound    = errors.New("expense category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrFundInputNotFound   = errors.New("fund input not found")
	ErrIncomeNotFound      = errors.New("additional income not found")
	ErrCustomerMismatch    = errors.New("payment transaction belongs to a different customer")
	ErrCategoryInUse       = errors.New("expense category is referenced by expenses")
	ErrBalanceMismatch     = errors.New("cash balance does not match ledger sum")
)

// IsRetryableConflict reports whether err is a serialization or deadlock
// failure. The whole command was rolled back; the caller can safely re-issue
// it verbatim.
func IsRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
