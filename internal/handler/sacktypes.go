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
	"github.com/shopspring/decimal"
)

// SackTypeStore defines the database methods needed by sack type handlers.
type SackTypeStore interface {
	ListSackTypes(ctx context.Context) ([]database.SackType, error)
	GetSackType(ctx context.Context, id uuid.UUID) (database.SackType, error)
	CreateSackType(ctx context.Context, arg database.CreateSackTypeParams) (database.SackType, error)
	UpdateSackType(ctx context.Context, arg database.UpdateSackTypeParams) (database.SackType, error)
	SoftDeleteSackType(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// SackTypeHandler handles sack type CRUD endpoints. Price changes here never
// touch existing transaction items; each item keeps the price it was sold at.
type SackTypeHandler struct {
	store SackTypeStore
}

// NewSackTypeHandler creates a new SackTypeHandler.
func NewSackTypeHandler(store SackTypeStore) *SackTypeHandler {
	return &SackTypeHandler{store: store}
}

// RegisterRoutes registers sack type CRUD endpoints on the given Chi router.
func (h *SackTypeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type sackTypeRequest struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
}

type sackTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toSackTypeResponse(s database.SackType) sackTypeResponse {
	return sackTypeResponse{
		ID:        s.ID,
		Name:      s.Name,
		UnitPrice: numericToString(s.UnitPrice),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// parseUnitPrice validates a non-negative decimal price string.
func parseUnitPrice(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// --- Handlers ---

// List returns all active sack types.
func (h *SackTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	sackTypes, err := h.store.ListSackTypes(r.Context())
	if err != nil {
		log.Printf("ERROR: list sack types: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]sackTypeResponse, len(sackTypes))
	for i, s := range sackTypes {
		resp[i] = toSackTypeResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new sack type.
func (h *SackTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sackTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	price, ok := parseUnitPrice(req.UnitPrice)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be a non-negative decimal"})
		return
	}

	sackType, err := h.store.CreateSackType(r.Context(), database.CreateSackTypeParams{
		Name:      req.Name,
		UnitPrice: decimalToNumericParam(price),
	})
	if err != nil {
		log.Printf("ERROR: create sack type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSackTypeResponse(sackType))
}

// Get returns one active sack type by id.
func (h *SackTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sack type ID"})
		return
	}

	sackType, err := h.store.GetSackType(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sack type not found"})
			return
		}
		log.Printf("ERROR: get sack type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSackTypeResponse(sackType))
}

// Update modifies a sack type's name and price. Only future transactions see
// the new price.
func (h *SackTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sack type ID"})
		return
	}

	var req sackTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	price, ok := parseUnitPrice(req.UnitPrice)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be a non-negative decimal"})
		return
	}

	sackType, err := h.store.UpdateSackType(r.Context(), database.UpdateSackTypeParams{
		ID:        id,
		Name:      req.Name,
		UnitPrice: decimalToNumericParam(price),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sack type not found"})
			return
		}
		log.Printf("ERROR: update sack type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSackTypeResponse(sackType))
}

// Delete soft-deletes a sack type.
func (h *SackTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sack type ID"})
		return
	}

	if _, err := h.store.SoftDeleteSackType(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sack type not found"})
			return
		}
		log.Printf("ERROR: delete sack type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
