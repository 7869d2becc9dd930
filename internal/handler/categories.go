package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
)

// ExpenseCategoryStore defines the database methods needed by expense
// category handlers. Satisfied by *database.Queries.
type ExpenseCategoryStore interface {
	ListExpenseCategories(ctx context.Context) ([]database.ExpenseCategory, error)
	GetExpenseCategory(ctx context.Context, id uuid.UUID) (database.ExpenseCategory, error)
	CreateExpenseCategory(ctx context.Context, arg database.CreateExpenseCategoryParams) (database.ExpenseCategory, error)
	UpdateExpenseCategory(ctx context.Context, arg database.UpdateExpenseCategoryParams) (database.ExpenseCategory, error)
	DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error
	CountExpensesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// ExpenseCategoryHandler handles expense category CRUD endpoints.
type ExpenseCategoryHandler struct {
	store ExpenseCategoryStore
}

// NewExpenseCategoryHandler creates a new ExpenseCategoryHandler.
func NewExpenseCategoryHandler(store ExpenseCategoryStore) *ExpenseCategoryHandler {
	return &ExpenseCategoryHandler{store: store}
}

// RegisterRoutes registers expense category endpoints on the given Chi router.
func (h *ExpenseCategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type expenseCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type expenseCategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExpenseCategoryResponse(c database.ExpenseCategory) expenseCategoryResponse {
	resp := expenseCategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.Description.Valid {
		resp.Description = &c.Description.String
	}
	return resp
}

// --- Handlers ---

// List returns all expense categories.
func (h *ExpenseCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListExpenseCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: list expense categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]expenseCategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toExpenseCategoryResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new expense category.
func (h *ExpenseCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	category, err := h.store.CreateExpenseCategory(r.Context(), database.CreateExpenseCategoryParams{
		Name:        req.Name,
		Description: optionalText(req.Description),
	})
	if err != nil {
		log.Printf("ERROR: create expense category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseCategoryResponse(category))
}

// Update modifies an existing expense category.
func (h *ExpenseCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	var req expenseCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	category, err := h.store.UpdateExpenseCategory(r.Context(), database.UpdateExpenseCategoryParams{
		ID:          id,
		Name:        req.Name,
		Description: optionalText(req.Description),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: update expense category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toExpenseCategoryResponse(category))
}

// Delete removes an expense category. Categories still referenced by
// expenses cannot be deleted.
func (h *ExpenseCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	if _, err := h.store.GetExpenseCategory(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: get expense category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	count, err := h.store.CountExpensesByCategory(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: count expenses by category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if count > 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "category is referenced by expenses"})
		return
	}

	if err := h.store.DeleteExpenseCategory(r.Context(), id); err != nil {
		log.Printf("ERROR: delete expense category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
