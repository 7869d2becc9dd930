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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/millbook/api/internal/database"
)

// CustomerStore defines the database methods needed by customer handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CustomerStore interface {
	ListCustomers(ctx context.Context, search pgtype.Text) ([]database.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	UpdateCustomer(ctx context.Context, arg database.UpdateCustomerParams) (database.Customer, error)
	SoftDeleteCustomer(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// CustomerHandler handles customer CRUD endpoints.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer CRUD endpoints on the given Chi router.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type customerRequest struct {
	Name     string `json:"name"`
	Area     string `json:"area"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Area      *string   `json:"area"`
	Phone     *string   `json:"phone"`
	PhotoURL  *string   `json:"photo_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(c database.Customer) customerResponse {
	resp := customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
	if c.Area.Valid {
		resp.Area = &c.Area.String
	}
	if c.Phone.Valid {
		resp.Phone = &c.Phone.String
	}
	if c.PhotoUrl.Valid {
		resp.PhotoURL = &c.PhotoUrl.String
	}
	return resp
}

// --- Handlers ---

// List returns all active customers, optionally filtered by a search term
// matched against name, phone, and area.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	search := pgtype.Text{}
	if s := r.URL.Query().Get("search"); s != "" {
		search = pgtype.Text{String: s, Valid: true}
	}

	customers, err := h.store.ListCustomers(r.Context(), search)
	if err != nil {
		log.Printf("ERROR: list customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	customer, err := h.store.CreateCustomer(r.Context(), database.CreateCustomerParams{
		Name:     req.Name,
		Area:     optionalText(req.Area),
		Phone:    optionalText(req.Phone),
		PhotoUrl: optionalText(req.PhotoURL),
	})
	if err != nil {
		log.Printf("ERROR: create customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// Get returns one active customer by id.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// Update modifies an existing customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	customer, err := h.store.UpdateCustomer(r.Context(), database.UpdateCustomerParams{
		ID:       id,
		Name:     req.Name,
		Area:     optionalText(req.Area),
		Phone:    optionalText(req.Phone),
		PhotoUrl: optionalText(req.PhotoURL),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: update customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// Delete soft-deletes a customer. Financial history keeps referencing the
// row; the customer just stops appearing in lists and new records.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	if _, err := h.store.SoftDeleteCustomer(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: delete customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// optionalText wraps an optional string field for a nullable column.
func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
