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
	"github.com/millbook/api/internal/service"
)

// ExpenseServicer defines the service methods needed by expense handlers.
// Satisfied by *service.ExpenseService.
type ExpenseServicer interface {
	Create(ctx context.Context, req service.ExpenseRequest) (*database.Expense, error)
	Update(ctx context.Context, id uuid.UUID, req service.ExpenseRequest) (*database.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseStore defines the database methods needed by expense read handlers.
type ExpenseStore interface {
	GetExpense(ctx context.Context, id uuid.UUID) (database.Expense, error)
	ListExpensesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.Expense, error)
}

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	svc   ExpenseServicer
	store ExpenseStore
	hub   LedgerBroadcaster
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc ExpenseServicer, store ExpenseStore, hub LedgerBroadcaster) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers expense endpoints on the given Chi router.
func (h *ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *ExpenseHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type expenseRequest struct {
	CategoryID  string `json:"category_id"`
	SeasonID    string `json:"season_id"`
	ExpenseDate string `json:"expense_date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type expenseResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	SeasonID    uuid.UUID `json:"season_id"`
	ExpenseDate string    `json:"expense_date"`
	Amount      string    `json:"amount"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExpenseResponse(e database.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		SeasonID:    e.SeasonID,
		ExpenseDate: dateString(e.ExpenseDate),
		Amount:      numericToString(e.Amount),
		CreatedAt:   e.CreatedAt,
	}
	if e.Description.Valid {
		resp.Description = &e.Description.String
	}
	return resp
}

// --- Handlers ---

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	expense, err := h.svc.Create(r.Context(), service.ExpenseRequest{
		CategoryID:  req.CategoryID,
		SeasonID:    req.SeasonID,
		ExpenseDate: req.ExpenseDate,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "create expense", err)
		return
	}

	resp := toExpenseResponse(*expense)
	broadcast(h.hub, resp.SeasonID, "expense.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /expenses?season_id=...
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	expenses, err := h.store.ListExpensesBySeason(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense ID"})
		return
	}

	expense, err := h.store.GetExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "expense not found"})
			return
		}
		log.Printf("ERROR: get expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

// Update handles PUT /expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense ID"})
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	expense, err := h.svc.Update(r.Context(), id, service.ExpenseRequest{
		CategoryID:  req.CategoryID,
		SeasonID:    req.SeasonID,
		ExpenseDate: req.ExpenseDate,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "update expense", err)
		return
	}

	resp := toExpenseResponse(*expense)
	broadcast(h.hub, resp.SeasonID, "expense.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense ID"})
		return
	}

	expense, err := h.store.GetExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "expense not found"})
			return
		}
		log.Printf("ERROR: get expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete expense", err)
		return
	}

	broadcast(h.hub, expense.SeasonID, "expense.deleted", map[string]uuid.UUID{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
