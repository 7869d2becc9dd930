package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/handler"
	"github.com/millbook/api/internal/service"
	"github.com/shopspring/decimal"
)

type mockCashBalancer struct {
	getFn         func(ctx context.Context, seasonID uuid.UUID) (*service.CashBalanceResult, error)
	rebuildFn     func(ctx context.Context, seasonID uuid.UUID) (*service.RebuildResult, error)
	listEntriesFn func(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error)
}

func (m *mockCashBalancer) Get(ctx context.Context, seasonID uuid.UUID) (*service.CashBalanceResult, error) {
	return m.getFn(ctx, seasonID)
}

func (m *mockCashBalancer) Rebuild(ctx context.Context, seasonID uuid.UUID) (*service.RebuildResult, error) {
	return m.rebuildFn(ctx, seasonID)
}

func (m *mockCashBalancer) ListEntries(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error) {
	return m.listEntriesFn(ctx, seasonID)
}

type mockCustomerBalancer struct {
	getFn          func(ctx context.Context, customerID, seasonID uuid.UUID) (*service.CustomerBalanceResult, error)
	listBySeasonFn func(ctx context.Context, seasonID uuid.UUID) ([]service.CustomerBalanceListItem, error)
}

func (m *mockCustomerBalancer) Get(ctx context.Context, customerID, seasonID uuid.UUID) (*service.CustomerBalanceResult, error) {
	return m.getFn(ctx, customerID, seasonID)
}

func (m *mockCustomerBalancer) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]service.CustomerBalanceListItem, error) {
	return m.listBySeasonFn(ctx, seasonID)
}

func setupBalanceRouter(cash *mockCashBalancer, customer *mockCustomerBalancer) *chi.Mux {
	h := handler.NewBalanceHandler(cash, customer)
	r := chi.NewRouter()
	r.Route("/seasons", func(r chi.Router) {
		h.RegisterSeasonRoutes(r)
		r.Post("/{id}/cash-balance/rebuild", h.RebuildCashBalance)
	})
	r.Get("/customers/{id}/balance", h.GetCustomerBalance)
	return r
}

func TestGetCashBalance_Valid(t *testing.T) {
	seasonID := uuid.New()
	cash := &mockCashBalancer{
		getFn: func(ctx context.Context, id uuid.UUID) (*service.CashBalanceResult, error) {
			if id != seasonID {
				t.Errorf("season: got %v, want %v", id, seasonID)
			}
			return &service.CashBalanceResult{
				SeasonID:    seasonID,
				Amount:      decimal.RequireFromString("12500"),
				LastUpdated: time.Now(),
			}, nil
		},
	}
	router := setupBalanceRouter(cash, &mockCustomerBalancer{})

	rr := doRequest(t, router, "GET", "/seasons/"+seasonID.String()+"/cash-balance", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["amount"] != "12500.00" {
		t.Errorf("amount: got %v, want 12500.00", resp["amount"])
	}
}

func TestGetCashBalance_SeasonNotFound(t *testing.T) {
	cash := &mockCashBalancer{
		getFn: func(ctx context.Context, id uuid.UUID) (*service.CashBalanceResult, error) {
			return nil, service.ErrSeasonNotFound
		},
	}
	router := setupBalanceRouter(cash, &mockCustomerBalancer{})

	rr := doRequest(t, router, "GET", "/seasons/"+uuid.New().String()+"/cash-balance", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRebuildCashBalance_ReportsMismatch(t *testing.T) {
	seasonID := uuid.New()
	cash := &mockCashBalancer{
		rebuildFn: func(ctx context.Context, id uuid.UUID) (*service.RebuildResult, error) {
			return &service.RebuildResult{
				SeasonID: seasonID,
				Stored:   decimal.RequireFromString("13000"),
				Computed: decimal.RequireFromString("12500"),
				Mismatch: true,
			}, nil
		},
	}
	router := setupBalanceRouter(cash, &mockCustomerBalancer{})

	rr := doRequest(t, router, "POST", "/seasons/"+seasonID.String()+"/cash-balance/rebuild", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["stored"] != "13000.00" || resp["computed"] != "12500.00" {
		t.Errorf("amounts: got stored=%v computed=%v", resp["stored"], resp["computed"])
	}
	if resp["mismatch"] != true {
		t.Errorf("mismatch: got %v, want true", resp["mismatch"])
	}
}

func TestListLedger_ReturnsEntries(t *testing.T) {
	seasonID := uuid.New()
	cash := &mockCashBalancer{
		listEntriesFn: func(ctx context.Context, id uuid.UUID) ([]database.LedgerEntry, error) {
			return []database.LedgerEntry{
				{
					ID: uuid.New(), SeasonID: seasonID,
					SignedAmount: numericFromString("-2000.00"),
					Kind:         "expense", SourceType: "expense", SourceID: uuid.New(),
					CreatedAt: time.Now(),
				},
			}, nil
		},
	}
	router := setupBalanceRouter(cash, &mockCustomerBalancer{})

	rr := doRequest(t, router, "GET", "/seasons/"+seasonID.String()+"/ledger", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp))
	}
	if resp[0]["signed_amount"] != "-2000.00" {
		t.Errorf("signed_amount: got %v, want -2000.00", resp[0]["signed_amount"])
	}
	if resp[0]["kind"] != "expense" {
		t.Errorf("kind: got %v, want expense", resp[0]["kind"])
	}
}

func TestListCustomerBalances_IncludesNames(t *testing.T) {
	seasonID, customerID := uuid.New(), uuid.New()
	customer := &mockCustomerBalancer{
		listBySeasonFn: func(ctx context.Context, id uuid.UUID) ([]service.CustomerBalanceListItem, error) {
			return []service.CustomerBalanceListItem{
				{
					CustomerBalanceResult: service.CustomerBalanceResult{
						CustomerID:     customerID,
						SeasonID:       seasonID,
						TotalSales:     decimal.RequireFromString("2500"),
						TotalPayments:  decimal.RequireFromString("1000"),
						Balance:        decimal.RequireFromString("1500"),
						AdvancePayment: decimal.Zero,
					},
					CustomerName: "Karim Uddin",
				},
			}, nil
		},
	}
	router := setupBalanceRouter(&mockCashBalancer{}, customer)

	rr := doRequest(t, router, "GET", "/seasons/"+seasonID.String()+"/customer-balances", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(resp))
	}
	if resp[0]["customer_name"] != "Karim Uddin" {
		t.Errorf("customer_name: got %v, want Karim Uddin", resp[0]["customer_name"])
	}
	if resp[0]["balance"] != "1500.00" {
		t.Errorf("balance: got %v, want 1500.00", resp[0]["balance"])
	}
}

func TestGetCustomerBalance_AdvancePayment(t *testing.T) {
	seasonID, customerID := uuid.New(), uuid.New()
	customer := &mockCustomerBalancer{
		getFn: func(ctx context.Context, c, s uuid.UUID) (*service.CustomerBalanceResult, error) {
			return &service.CustomerBalanceResult{
				CustomerID:     customerID,
				SeasonID:       seasonID,
				TotalSales:     decimal.RequireFromString("1000"),
				TotalPayments:  decimal.RequireFromString("1400"),
				Balance:        decimal.RequireFromString("-400"),
				AdvancePayment: decimal.RequireFromString("400"),
			}, nil
		},
	}
	router := setupBalanceRouter(&mockCashBalancer{}, customer)

	rr := doRequest(t, router, "GET", "/customers/"+customerID.String()+"/balance?season_id="+seasonID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["balance"] != "-400.00" {
		t.Errorf("balance: got %v, want -400.00", resp["balance"])
	}
	if resp["advance_payment"] != "400.00" {
		t.Errorf("advance_payment: got %v, want 400.00", resp["advance_payment"])
	}
}

func TestGetCustomerBalance_RequiresSeason(t *testing.T) {
	router := setupBalanceRouter(&mockCashBalancer{}, &mockCustomerBalancer{})

	rr := doRequest(t, router, "GET", "/customers/"+uuid.New().String()+"/balance", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetCustomerBalance_CustomerNotFound(t *testing.T) {
	customer := &mockCustomerBalancer{
		getFn: func(ctx context.Context, c, s uuid.UUID) (*service.CustomerBalanceResult, error) {
			return nil, service.ErrCustomerNotFound
		},
	}
	router := setupBalanceRouter(&mockCashBalancer{}, customer)

	rr := doRequest(t, router, "GET", "/customers/"+uuid.New().String()+"/balance?season_id="+uuid.New().String(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
