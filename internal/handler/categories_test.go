package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/handler"
)

// --- Mock store ---

type mockCategoryStore struct {
	categories   map[uuid.UUID]database.ExpenseCategory
	expenseCount map[uuid.UUID]int64
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{
		categories:   make(map[uuid.UUID]database.ExpenseCategory),
		expenseCount: make(map[uuid.UUID]int64),
	}
}

func (m *mockCategoryStore) ListExpenseCategories(_ context.Context) ([]database.ExpenseCategory, error) {
	var result []database.ExpenseCategory
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCategoryStore) GetExpenseCategory(_ context.Context, id uuid.UUID) (database.ExpenseCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return database.ExpenseCategory{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCategoryStore) CreateExpenseCategory(_ context.Context, arg database.CreateExpenseCategoryParams) (database.ExpenseCategory, error) {
	c := database.ExpenseCategory{
		ID:          uuid.New(),
		Name:        arg.Name,
		Description: arg.Description,
		CreatedAt:   time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) UpdateExpenseCategory(_ context.Context, arg database.UpdateExpenseCategoryParams) (database.ExpenseCategory, error) {
	c, ok := m.categories[arg.ID]
	if !ok {
		return database.ExpenseCategory{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	c.Description = arg.Description
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) DeleteExpenseCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryStore) CountExpensesByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	return m.expenseCount[categoryID], nil
}

func setupCategoryRouter(store *mockCategoryStore) *chi.Mux {
	h := handler.NewExpenseCategoryHandler(store)
	r := chi.NewRouter()
	r.Route("/expense-categories", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCategoryCreate_Valid(t *testing.T) {
	store := newMockCategoryStore()
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "POST", "/expense-categories", map[string]interface{}{
		"name":        "Labor",
		"description": "Mill worker wages",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["name"] != "Labor" {
		t.Errorf("name: got %v, want Labor", resp["name"])
	}
	if len(store.categories) != 1 {
		t.Errorf("expected 1 stored category, got %d", len(store.categories))
	}
}

func TestCategoryCreate_MissingName(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "POST", "/expense-categories", map[string]interface{}{
		"description": "no name",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	router := setupCategoryRouter(newMockCategoryStore())

	rr := doRequest(t, router, "PUT", "/expense-categories/"+uuid.New().String(), map[string]interface{}{
		"name": "Fuel",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryDelete_Empty(t *testing.T) {
	store := newMockCategoryStore()
	id := uuid.New()
	store.categories[id] = database.ExpenseCategory{ID: id, Name: "Fuel", CreatedAt: time.Now()}
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/expense-categories/"+id.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, ok := store.categories[id]; ok {
		t.Error("expected the category to be deleted")
	}
}

func TestCategoryDelete_InUse(t *testing.T) {
	store := newMockCategoryStore()
	id := uuid.New()
	store.categories[id] = database.ExpenseCategory{ID: id, Name: "Fuel", CreatedAt: time.Now()}
	store.expenseCount[id] = 3
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/expense-categories/"+id.String(), nil)

	// Referenced categories stay; expenses keep a valid category.
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	if _, ok := store.categories[id]; !ok {
		t.Error("expected the category to survive")
	}
}
