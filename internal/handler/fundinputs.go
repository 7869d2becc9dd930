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

// FundInputServicer defines the service methods needed by fund input
// handlers. Satisfied by *service.FundInputService.
type FundInputServicer interface {
	Create(ctx context.Context, req service.FundInputRequest) (*database.FundInput, error)
	Update(ctx context.Context, id uuid.UUID, req service.FundInputRequest) (*database.FundInput, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FundInputStore defines the database methods needed by fund input read
// handlers.
type FundInputStore interface {
	GetFundInput(ctx context.Context, id uuid.UUID) (database.FundInput, error)
	ListFundInputsBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.FundInput, error)
}

// FundInputHandler handles fund input endpoints.
type FundInputHandler struct {
	svc   FundInputServicer
	store FundInputStore
	hub   LedgerBroadcaster
}

// NewFundInputHandler creates a new FundInputHandler.
func NewFundInputHandler(svc FundInputServicer, store FundInputStore, hub LedgerBroadcaster) *FundInputHandler {
	return &FundInputHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers fund input endpoints on the given Chi router.
func (h *FundInputHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *FundInputHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type fundInputRequest struct {
	Source      string `json:"source"`
	SeasonID    string `json:"season_id"`
	InputDate   string `json:"input_date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type fundInputResponse struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	SeasonID    uuid.UUID `json:"season_id"`
	InputDate   string    `json:"input_date"`
	Amount      string    `json:"amount"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFundInputResponse(f database.FundInput) fundInputResponse {
	resp := fundInputResponse{
		ID:        f.ID,
		Source:    f.Source,
		SeasonID:  f.SeasonID,
		InputDate: dateString(f.InputDate),
		Amount:    numericToString(f.Amount),
		CreatedAt: f.CreatedAt,
	}
	if f.Description.Valid {
		resp.Description = &f.Description.String
	}
	return resp
}

// --- Handlers ---

// Create handles POST /fund-inputs.
func (h *FundInputHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req fundInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fi, err := h.svc.Create(r.Context(), service.FundInputRequest{
		Source:      req.Source,
		SeasonID:    req.SeasonID,
		InputDate:   req.InputDate,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "create fund input", err)
		return
	}

	resp := toFundInputResponse(*fi)
	broadcast(h.hub, resp.SeasonID, "fund_input.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /fund-inputs?season_id=...
func (h *FundInputHandler) List(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	fundInputs, err := h.store.ListFundInputsBySeason(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list fund inputs: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]fundInputResponse, len(fundInputs))
	for i, f := range fundInputs {
		resp[i] = toFundInputResponse(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /fund-inputs/{id}.
func (h *FundInputHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fund input ID"})
		return
	}

	fi, err := h.store.GetFundInput(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "fund input not found"})
			return
		}
		log.Printf("ERROR: get fund input: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toFundInputResponse(fi))
}

// Update handles PUT /fund-inputs/{id}.
func (h *FundInputHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fund input ID"})
		return
	}

	var req fundInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fi, err := h.svc.Update(r.Context(), id, service.FundInputRequest{
		Source:      req.Source,
		SeasonID:    req.SeasonID,
		InputDate:   req.InputDate,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "update fund input", err)
		return
	}

	resp := toFundInputResponse(*fi)
	broadcast(h.hub, resp.SeasonID, "fund_input.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /fund-inputs/{id}.
func (h *FundInputHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fund input ID"})
		return
	}

	fi, err := h.store.GetFundInput(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "fund input not found"})
			return
		}
		log.Printf("ERROR: get fund input: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete fund input", err)
		return
	}

	broadcast(h.hub, fi.SeasonID, "fund_input.deleted", map[string]uuid.UUID{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
