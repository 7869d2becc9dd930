package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/service"
)

// CashBalancer defines the service methods needed by balance handlers.
// Satisfied by *service.CashBalanceService.
type CashBalancer interface {
	Get(ctx context.Context, seasonID uuid.UUID) (*service.CashBalanceResult, error)
	Rebuild(ctx context.Context, seasonID uuid.UUID) (*service.RebuildResult, error)
	ListEntries(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error)
}

// CustomerBalancer defines the service methods for customer balance reads.
// Satisfied by *service.CustomerBalanceService.
type CustomerBalancer interface {
	Get(ctx context.Context, customerID, seasonID uuid.UUID) (*service.CustomerBalanceResult, error)
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]service.CustomerBalanceListItem, error)
}

// BalanceHandler handles cash balance, ledger, and customer balance reads.
type BalanceHandler struct {
	cash     CashBalancer
	customer CustomerBalancer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(cash CashBalancer, customer CustomerBalancer) *BalanceHandler {
	return &BalanceHandler{cash: cash, customer: customer}
}

// RegisterSeasonRoutes registers the season-scoped balance endpoints.
// Expected to be mounted inside the /seasons subrouter.
func (h *BalanceHandler) RegisterSeasonRoutes(r chi.Router) {
	r.Get("/{id}/cash-balance", h.GetCashBalance)
	r.Get("/{id}/ledger", h.ListLedger)
	r.Get("/{id}/customer-balances", h.ListCustomerBalances)
}

// --- Response types ---

type cashBalanceResponse struct {
	SeasonID    uuid.UUID `json:"season_id"`
	Amount      string    `json:"amount"`
	LastUpdated time.Time `json:"last_updated"`
}

type rebuildResponse struct {
	SeasonID uuid.UUID `json:"season_id"`
	Stored   string    `json:"stored"`
	Computed string    `json:"computed"`
	Mismatch bool      `json:"mismatch"`
}

type ledgerEntryResponse struct {
	ID           uuid.UUID `json:"id"`
	SeasonID     uuid.UUID `json:"season_id"`
	SignedAmount string    `json:"signed_amount"`
	Kind         string    `json:"kind"`
	SourceType   string    `json:"source_type"`
	SourceID     uuid.UUID `json:"source_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type customerBalanceResponse struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	SeasonID       uuid.UUID `json:"season_id"`
	CustomerName   string    `json:"customer_name,omitempty"`
	TotalSales     string    `json:"total_sales"`
	TotalPayments  string    `json:"total_payments"`
	Balance        string    `json:"balance"`
	AdvancePayment string    `json:"advance_payment"`
}

func toCustomerBalanceResponse(b *service.CustomerBalanceResult) customerBalanceResponse {
	return customerBalanceResponse{
		CustomerID:     b.CustomerID,
		SeasonID:       b.SeasonID,
		TotalSales:     b.TotalSales.StringFixed(2),
		TotalPayments:  b.TotalPayments.StringFixed(2),
		Balance:        b.Balance.StringFixed(2),
		AdvancePayment: b.AdvancePayment.StringFixed(2),
	}
}

// --- Handlers ---

// GetCashBalance handles GET /seasons/{id}/cash-balance.
func (h *BalanceHandler) GetCashBalance(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	result, err := h.cash.Get(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: get cash balance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cashBalanceResponse{
		SeasonID:    result.SeasonID,
		Amount:      result.Amount.StringFixed(2),
		LastUpdated: result.LastUpdated,
	})
}

// RebuildCashBalance handles POST /seasons/{id}/cash-balance/rebuild.
// Route-guarded to OWNER.
func (h *BalanceHandler) RebuildCashBalance(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	result, err := h.cash.Rebuild(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: rebuild cash balance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, rebuildResponse{
		SeasonID: result.SeasonID,
		Stored:   result.Stored.StringFixed(2),
		Computed: result.Computed.StringFixed(2),
		Mismatch: result.Mismatch,
	})
}

// ListLedger handles GET /seasons/{id}/ledger.
func (h *BalanceHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	entries, err := h.cash.ListEntries(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: list ledger entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]ledgerEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = ledgerEntryResponse{
			ID:           e.ID,
			SeasonID:     e.SeasonID,
			SignedAmount: numericToString(e.SignedAmount),
			Kind:         e.Kind,
			SourceType:   e.SourceType,
			SourceID:     e.SourceID,
			CreatedAt:    e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCustomerBalances handles GET /seasons/{id}/customer-balances.
func (h *BalanceHandler) ListCustomerBalances(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	items, err := h.customer.ListBySeason(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: list customer balances: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerBalanceResponse, len(items))
	for i, item := range items {
		r := toCustomerBalanceResponse(&item.CustomerBalanceResult)
		r.CustomerName = item.CustomerName
		resp[i] = r
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCustomerBalance handles GET /customers/{id}/balance?season_id=...
func (h *BalanceHandler) GetCustomerBalance(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	result, err := h.customer.Get(r.Context(), customerID, seasonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
		case errors.Is(err, service.ErrSeasonNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
		default:
			log.Printf("ERROR: get customer balance: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toCustomerBalanceResponse(result))
}
