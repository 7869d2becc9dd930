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

// PaymentServicer defines the service methods needed by payment handlers.
// Satisfied by *service.PaymentService.
type PaymentServicer interface {
	Create(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error)
	Update(ctx context.Context, req service.UpdatePaymentRequest) (*service.PaymentResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentStore defines the database methods needed by payment read handlers.
type PaymentStore interface {
	GetPayment(ctx context.Context, id uuid.UUID) (database.Payment, error)
	ListPaymentsBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.Payment, error)
	ListPaymentsByCustomer(ctx context.Context, arg database.ListPaymentsByCustomerParams) ([]database.Payment, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	svc   PaymentServicer
	store PaymentStore
	hub   LedgerBroadcaster
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServicer, store PaymentStore, hub LedgerBroadcaster) *PaymentHandler {
	return &PaymentHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *PaymentHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type paymentRequest struct {
	CustomerID    string `json:"customer_id"`
	TransactionID string `json:"transaction_id"`
	SeasonID      string `json:"season_id"`
	PayDate       string `json:"pay_date"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes"`
	ReceivedBy    string `json:"received_by"`
}

type paymentResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	TransactionID *string   `json:"transaction_id"`
	SeasonID      uuid.UUID `json:"season_id"`
	PayDate       string    `json:"pay_date"`
	Amount        string    `json:"amount"`
	Notes         *string   `json:"notes"`
	ReceivedBy    *string   `json:"received_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// paymentDetailResponse extends paymentResponse with the linked
// transaction's recomputed amounts after a mutation.
type paymentDetailResponse struct {
	paymentResponse
	Transaction *transactionResponse `json:"transaction,omitempty"`
}

func toPaymentResponse(p database.Payment) paymentResponse {
	resp := paymentResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		SeasonID:   p.SeasonID,
		PayDate:    dateString(p.PayDate),
		Amount:     numericToString(p.Amount),
		CreatedAt:  p.CreatedAt,
	}
	if p.TransactionID.Valid {
		s := uuid.UUID(p.TransactionID.Bytes).String()
		resp.TransactionID = &s
	}
	if p.Notes.Valid {
		resp.Notes = &p.Notes.String
	}
	if p.ReceivedBy.Valid {
		resp.ReceivedBy = &p.ReceivedBy.String
	}
	return resp
}

func toPaymentDetailResponse(result *service.PaymentResult) paymentDetailResponse {
	resp := paymentDetailResponse{paymentResponse: toPaymentResponse(result.Payment)}
	if result.Transaction != nil {
		t := toTransactionResponse(*result.Transaction, nil)
		resp.Transaction = &t
	}
	return resp
}

// --- Handlers ---

// Create handles POST /payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Create(r.Context(), service.CreatePaymentRequest{
		CustomerID:    req.CustomerID,
		TransactionID: req.TransactionID,
		SeasonID:      req.SeasonID,
		PayDate:       req.PayDate,
		Amount:        req.Amount,
		Notes:         req.Notes,
		ReceivedBy:    req.ReceivedBy,
	})
	if err != nil {
		writeServiceError(w, "create payment", err)
		return
	}

	resp := toPaymentDetailResponse(result)
	broadcast(h.hub, resp.SeasonID, "payment.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /payments?season_id=...&customer_id=...
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	var payments []database.Payment
	if s := r.URL.Query().Get("customer_id"); s != "" {
		customerID, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		payments, err = h.store.ListPaymentsByCustomer(r.Context(), database.ListPaymentsByCustomerParams{
			CustomerID: customerID,
			SeasonID:   seasonID,
		})
		if err != nil {
			log.Printf("ERROR: list payments by customer: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	} else {
		payments, err = h.store.ListPaymentsBySeason(r.Context(), seasonID)
		if err != nil {
			log.Printf("ERROR: list payments: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /payments/{id}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	payment, err := h.store.GetPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "payment not found"})
			return
		}
		log.Printf("ERROR: get payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// Update handles PUT /payments/{id}.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Update(r.Context(), service.UpdatePaymentRequest{
		ID:            id,
		CustomerID:    req.CustomerID,
		TransactionID: req.TransactionID,
		SeasonID:      req.SeasonID,
		PayDate:       req.PayDate,
		Amount:        req.Amount,
		Notes:         req.Notes,
		ReceivedBy:    req.ReceivedBy,
	})
	if err != nil {
		writeServiceError(w, "update payment", err)
		return
	}

	resp := toPaymentDetailResponse(result)
	broadcast(h.hub, resp.SeasonID, "payment.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /payments/{id}.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	// Fetch first so we know which season room to notify.
	payment, err := h.store.GetPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "payment not found"})
			return
		}
		log.Printf("ERROR: get payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete payment", err)
		return
	}

	broadcast(h.hub, payment.SeasonID, "payment.deleted", map[string]uuid.UUID{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
