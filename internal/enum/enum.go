package enum

// ── Payment status (CHECK constrained in DB) ──
// Re-derived from amounts after every mutation, never set directly.

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusDue     = "due"
)

// ── Ledger entry kinds (CHECK constrained in DB) ──

const (
	LedgerKindPayment          = "payment"
	LedgerKindFundInput        = "fund_input"
	LedgerKindAdditionalIncome = "additional_income"
	LedgerKindExpense          = "expense"
)

// ── Ledger source record types ──

const (
	SourceTypePayment          = "payment"
	SourceTypeFundInput        = "fund_input"
	SourceTypeAdditionalIncome = "additional_income"
	SourceTypeExpense          = "expense"
)

// ── User roles (CHECK constrained in DB) ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleStaff   = "STAFF"
)
