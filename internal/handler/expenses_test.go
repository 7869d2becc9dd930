package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/handler"
	"github.com/millbook/api/internal/service"
)

type mockExpenseServicer struct {
	createFn func(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error)
	updateFn func(ctx context.Context, id uuid.UUID, req service.ExpenseRequest) (*database.Expense, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockExpenseServicer) Create(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error) {
	return m.createFn(ctx, req)
}

func (m *mockExpenseServicer) Update(ctx context.Context, id uuid.UUID, req service.ExpenseRequest) (*database.Expense, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockExpenseServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockExpenseReadStore struct {
	expenses map[uuid.UUID]database.Expense
}

func newMockExpenseReadStore() *mockExpenseReadStore {
	return &mockExpenseReadStore{expenses: make(map[uuid.UUID]database.Expense)}
}

func (m *mockExpenseReadStore) GetExpense(_ context.Context, id uuid.UUID) (database.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return database.Expense{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockExpenseReadStore) ListExpensesBySeason(_ context.Context, seasonID uuid.UUID) ([]database.Expense, error) {
	var result []database.Expense
	for _, e := range m.expenses {
		if e.SeasonID == seasonID {
			result = append(result, e)
		}
	}
	return result, nil
}

func setupExpenseRouter(svc handler.ExpenseServicer, store *mockExpenseReadStore, hub *mockHub) *chi.Mux {
	var b handler.LedgerBroadcaster
	if hub != nil {
		b = hub
	}
	h := handler.NewExpenseHandler(svc, store, b)
	r := chi.NewRouter()
	r.Route("/expenses", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterWriteRoutes(r)
	})
	return r
}

func sampleExpense(categoryID, seasonID uuid.UUID) database.Expense {
	return database.Expense{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		SeasonID:    seasonID,
		ExpenseDate: pgtype.Date{Time: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), Valid: true},
		Amount:      numericFromString("2000.00"),
		CreatedAt:   time.Now(),
	}
}

func TestExpenseCreate_Valid(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	expense := sampleExpense(categoryID, seasonID)
	svc := &mockExpenseServicer{
		createFn: func(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error) {
			if req.Amount != "2000" {
				t.Errorf("amount: got %s, want 2000", req.Amount)
			}
			return &expense, nil
		},
	}
	hub := &mockHub{}
	router := setupExpenseRouter(svc, newMockExpenseReadStore(), hub)

	rr := doRequest(t, router, "POST", "/expenses", map[string]interface{}{
		"category_id":  categoryID.String(),
		"season_id":    seasonID.String(),
		"expense_date": "2026-02-15",
		"amount":       "2000",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["amount"] != "2000.00" {
		t.Errorf("amount: got %v, want 2000.00", resp["amount"])
	}
	if len(hub.events) != 1 || hub.events[0].event.Type != "expense.created" {
		t.Fatalf("expected an expense.created broadcast, got %+v", hub.events)
	}
}

func TestExpenseCreate_CategoryNotFound(t *testing.T) {
	svc := &mockExpenseServicer{
		createFn: func(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error) {
			return nil, service.ErrCategoryNotFound
		},
	}
	router := setupExpenseRouter(svc, newMockExpenseReadStore(), nil)

	rr := doRequest(t, router, "POST", "/expenses", map[string]interface{}{
		"category_id":  uuid.New().String(),
		"season_id":    uuid.New().String(),
		"expense_date": "2026-02-15",
		"amount":       "2000",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestExpenseCreate_NegativeAmount(t *testing.T) {
	svc := &mockExpenseServicer{
		createFn: func(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error) {
			return nil, service.ErrNegativeAmount
		},
	}
	router := setupExpenseRouter(svc, newMockExpenseReadStore(), nil)

	rr := doRequest(t, router, "POST", "/expenses", map[string]interface{}{
		"category_id":  uuid.New().String(),
		"season_id":    uuid.New().String(),
		"expense_date": "2026-02-15",
		"amount":       "-50",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestExpenseList_RequiresSeason(t *testing.T) {
	router := setupExpenseRouter(&mockExpenseServicer{}, newMockExpenseReadStore(), nil)

	rr := doRequest(t, router, "GET", "/expenses", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestExpenseList_BySeason(t *testing.T) {
	seasonID := uuid.New()
	store := newMockExpenseReadStore()
	e1 := sampleExpense(uuid.New(), seasonID)
	e2 := sampleExpense(uuid.New(), uuid.New())
	store.expenses[e1.ID] = e1
	store.expenses[e2.ID] = e2
	router := setupExpenseRouter(&mockExpenseServicer{}, store, nil)

	rr := doRequest(t, router, "GET", "/expenses?season_id="+seasonID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(resp))
	}
}

func TestExpenseUpdate_Valid(t *testing.T) {
	categoryID, seasonID := uuid.New(), uuid.New()
	expense := sampleExpense(categoryID, seasonID)
	expense.Amount = numericFromString("1500.00")
	svc := &mockExpenseServicer{
		updateFn: func(ctx context.Context, id uuid.UUID, req service.ExpenseRequest) (*database.Expense, error) {
			if id != expense.ID {
				t.Errorf("id: got %v, want %v", id, expense.ID)
			}
			return &expense, nil
		},
	}
	router := setupExpenseRouter(svc, newMockExpenseReadStore(), nil)

	rr := doRequest(t, router, "PUT", "/expenses/"+expense.ID.String(), map[string]interface{}{
		"category_id":  categoryID.String(),
		"season_id":    seasonID.String(),
		"expense_date": "2026-02-15",
		"amount":       "1500",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["amount"] != "1500.00" {
		t.Errorf("amount: got %v, want 1500.00", resp["amount"])
	}
}

func TestExpenseDelete_BroadcastsToSeasonRoom(t *testing.T) {
	seasonID := uuid.New()
	store := newMockExpenseReadStore()
	expense := sampleExpense(uuid.New(), seasonID)
	store.expenses[expense.ID] = expense
	svc := &mockExpenseServicer{
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	hub := &mockHub{}
	router := setupExpenseRouter(svc, store, hub)

	rr := doRequest(t, router, "DELETE", "/expenses/"+expense.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if len(hub.events) != 1 || hub.events[0].event.Type != "expense.deleted" {
		t.Fatalf("expected an expense.deleted broadcast, got %+v", hub.events)
	}
	if hub.events[0].seasonID != seasonID {
		t.Errorf("event season: got %v, want %v", hub.events[0].seasonID, seasonID)
	}
}

func TestExpenseDelete_NotFound(t *testing.T) {
	router := setupExpenseRouter(&mockExpenseServicer{}, newMockExpenseReadStore(), nil)

	rr := doRequest(t, router, "DELETE", "/expenses/"+uuid.New().String(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
