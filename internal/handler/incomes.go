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

// AdditionalIncomeServicer defines the service methods needed by additional
// income handlers. Satisfied by *service.AdditionalIncomeService.
type AdditionalIncomeServicer interface {
	Create(ctx context.Context, req service.AdditionalIncomeRequest) (*database.AdditionalIncome, error)
	Update(ctx context.Context, id uuid.UUID, req service.AdditionalIncomeRequest) (*database.AdditionalIncome, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdditionalIncomeStore defines the database methods needed by additional
// income read handlers.
type AdditionalIncomeStore interface {
	GetAdditionalIncome(ctx context.Context, id uuid.UUID) (database.AdditionalIncome, error)
	ListAdditionalIncomesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.AdditionalIncome, error)
}

// AdditionalIncomeHandler handles additional income endpoints.
type AdditionalIncomeHandler struct {
	svc   AdditionalIncomeServicer
	store AdditionalIncomeStore
	hub   LedgerBroadcaster
}

// NewAdditionalIncomeHandler creates a new AdditionalIncomeHandler.
func NewAdditionalIncomeHandler(svc AdditionalIncomeServicer, store AdditionalIncomeStore, hub LedgerBroadcaster) *AdditionalIncomeHandler {
	return &AdditionalIncomeHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers additional income endpoints on the given Chi router.
func (h *AdditionalIncomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *AdditionalIncomeHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type additionalIncomeRequest struct {
	IncomeSource string `json:"income_source"`
	SeasonID     string `json:"season_id"`
	IncomeDate   string `json:"income_date"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
}

type additionalIncomeResponse struct {
	ID           uuid.UUID `json:"id"`
	IncomeSource string    `json:"income_source"`
	SeasonID     uuid.UUID `json:"season_id"`
	IncomeDate   string    `json:"income_date"`
	Amount       string    `json:"amount"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAdditionalIncomeResponse(a database.AdditionalIncome) additionalIncomeResponse {
	resp := additionalIncomeResponse{
		ID:           a.ID,
		IncomeSource: a.IncomeSource,
		SeasonID:     a.SeasonID,
		IncomeDate:   dateString(a.IncomeDate),
		Amount:       numericToString(a.Amount),
		CreatedAt:    a.CreatedAt,
	}
	if a.Description.Valid {
		resp.Description = &a.Description.String
	}
	return resp
}

// --- Handlers ---

// Create handles POST /additional-incomes.
func (h *AdditionalIncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req additionalIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ai, err := h.svc.Create(r.Context(), service.AdditionalIncomeRequest{
		IncomeSource: req.IncomeSource,
		SeasonID:     req.SeasonID,
		IncomeDate:   req.IncomeDate,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, "create additional income", err)
		return
	}

	resp := toAdditionalIncomeResponse(*ai)
	broadcast(h.hub, resp.SeasonID, "additional_income.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /additional-incomes?season_id=...
func (h *AdditionalIncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	incomes, err := h.store.ListAdditionalIncomesBySeason(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list additional incomes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]additionalIncomeResponse, len(incomes))
	for i, a := range incomes {
		resp[i] = toAdditionalIncomeResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /additional-incomes/{id}.
func (h *AdditionalIncomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid income ID"})
		return
	}

	ai, err := h.store.GetAdditionalIncome(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "additional income not found"})
			return
		}
		log.Printf("ERROR: get additional income: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toAdditionalIncomeResponse(ai))
}

// Update handles PUT /additional-incomes/{id}.
func (h *AdditionalIncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid income ID"})
		return
	}

	var req additionalIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ai, err := h.svc.Update(r.Context(), id, service.AdditionalIncomeRequest{
		IncomeSource: req.IncomeSource,
		SeasonID:     req.SeasonID,
		IncomeDate:   req.IncomeDate,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, "update additional income", err)
		return
	}

	resp := toAdditionalIncomeResponse(*ai)
	broadcast(h.hub, resp.SeasonID, "additional_income.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /additional-incomes/{id}.
func (h *AdditionalIncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid income ID"})
		return
	}

	ai, err := h.store.GetAdditionalIncome(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "additional income not found"})
			return
		}
		log.Printf("ERROR: get additional income: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete additional income", err)
		return
	}

	broadcast(h.hub, ai.SeasonID, "additional_income.deleted", map[string]uuid.UUID{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
