package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/enum"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for business dates (no time component).
const dateLayout = "2006-01-02"

// DerivePaymentStatus computes a transaction's payment status from its paid
// and due amounts. An overpaid transaction (negative due) still counts as
// paid.
func DerivePaymentStatus(paid, due decimal.Decimal) string {
	if due.LessThanOrEqual(decimal.Zero) {
		return enum.PaymentStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return enum.PaymentStatusPartial
	}
	return enum.PaymentStatusDue
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// parseAmount parses a decimal money string. Empty string means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// parseDate parses a YYYY-MM-DD business date into a pgtype.Date.
func parseDate(s string) (pgtype.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return pgtype.Date{}, ErrInvalidDate
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

// parseID parses a required UUID field.
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// textOrNull wraps an optional string field for a nullable column.
func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
