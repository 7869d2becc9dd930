package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
	"github.com/shopspring/decimal"
)

// CustomerBalanceStore defines the DB methods for the per-customer
// season balance projection.
type CustomerBalanceStore interface {
	ApplyCustomerBalanceDelta(ctx context.Context, arg database.ApplyCustomerBalanceDeltaParams) (database.CustomerBalance, error)
}

// applySaleDelta adds delta to the customer's total sales for the season.
// Pass a negative delta to reverse a sale. Must run inside the caller's
// transaction.
func applySaleDelta(ctx context.Context, store CustomerBalanceStore, customerID, seasonID uuid.UUID, delta decimal.Decimal) error {
	if _, err := store.ApplyCustomerBalanceDelta(ctx, database.ApplyCustomerBalanceDeltaParams{
		CustomerID:    customerID,
		SeasonID:      seasonID,
		TotalSales:    decimalToNumeric(delta),
		TotalPayments: decimalToNumeric(decimal.Zero),
	}); err != nil {
		return fmt.Errorf("apply sale delta: %w", err)
	}
	return nil
}

// applyPaymentDelta adds delta to the customer's total payments for the
// season. Pass a negative delta to reverse a payment.
func applyPaymentDelta(ctx context.Context, store CustomerBalanceStore, customerID, seasonID uuid.UUID, delta decimal.Decimal) error {
	if _, err := store.ApplyCustomerBalanceDelta(ctx, database.ApplyCustomerBalanceDeltaParams{
		CustomerID:    customerID,
		SeasonID:      seasonID,
		TotalSales:    decimalToNumeric(decimal.Zero),
		TotalPayments: decimalToNumeric(delta),
	}); err != nil {
		return fmt.Errorf("apply payment delta: %w", err)
	}
	return nil
}

// CustomerBalanceReadStore defines the DB methods for reading customer
// balances.
type CustomerBalanceReadStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetCustomerBalance(ctx context.Context, arg database.GetCustomerBalanceParams) (database.CustomerBalance, error)
	ListCustomerBalancesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.ListCustomerBalancesBySeasonRow, error)
}

// CustomerBalanceResult is a customer's financial position within a season.
// Balance is total sales minus total payments; a negative value means the
// customer holds credit, which AdvancePayment mirrors as a non-negative
// figure.
type CustomerBalanceResult struct {
	CustomerID     uuid.UUID
	SeasonID       uuid.UUID
	TotalSales     decimal.Decimal
	TotalPayments  decimal.Decimal
	Balance        decimal.Decimal
	AdvancePayment decimal.Decimal
}

// CustomerBalanceService reads the customer balance projection.
type CustomerBalanceService struct {
	store CustomerBalanceReadStore
}

// NewCustomerBalanceService creates a new CustomerBalanceService.
func NewCustomerBalanceService(store CustomerBalanceReadStore) *CustomerBalanceService {
	return &CustomerBalanceService{store: store}
}

// Get returns the customer's balance for the season. A customer with no
// activity in the season has no projection row and reads as all zeros.
func (s *CustomerBalanceService) Get(ctx context.Context, customerID, seasonID uuid.UUID) (*CustomerBalanceResult, error) {
	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if _, err := s.store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}

	cb, err := s.store.GetCustomerBalance(ctx, database.GetCustomerBalanceParams{
		CustomerID: customerID,
		SeasonID:   seasonID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &CustomerBalanceResult{CustomerID: customerID, SeasonID: seasonID}, nil
		}
		return nil, fmt.Errorf("get customer balance: %w", err)
	}
	return buildCustomerBalanceResult(cb.CustomerID, cb.SeasonID, numericToDecimal(cb.TotalSales), numericToDecimal(cb.TotalPayments)), nil
}

// CustomerBalanceListItem is one row of a season-wide balance listing.
type CustomerBalanceListItem struct {
	CustomerBalanceResult
	CustomerName string
}

// ListBySeason returns the balances of every customer with activity in the
// season.
func (s *CustomerBalanceService) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]CustomerBalanceListItem, error) {
	if _, err := s.store.GetSeason(ctx, seasonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}
	rows, err := s.store.ListCustomerBalancesBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list customer balances: %w", err)
	}
	items := make([]CustomerBalanceListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, CustomerBalanceListItem{
			CustomerBalanceResult: *buildCustomerBalanceResult(row.CustomerID, row.SeasonID,
				numericToDecimal(row.TotalSales), numericToDecimal(row.TotalPayments)),
			CustomerName: row.CustomerName,
		})
	}
	return items, nil
}

func buildCustomerBalanceResult(customerID, seasonID uuid.UUID, sales, payments decimal.Decimal) *CustomerBalanceResult {
	res := &CustomerBalanceResult{
		CustomerID:    customerID,
		SeasonID:      seasonID,
		TotalSales:    sales,
		TotalPayments: payments,
	}
	res.Balance = sales.Sub(payments)
	if res.Balance.IsNegative() {
		res.AdvancePayment = res.Balance.Neg()
	}
	return res
}
