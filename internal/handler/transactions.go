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
	"github.com/millbook/api/internal/service"
	"github.com/millbook/api/internal/ws"
	"github.com/shopspring/decimal"
)

// LedgerBroadcaster pushes cash-movement events to season subscribers.
// Satisfied by *ws.Hub.
type LedgerBroadcaster interface {
	BroadcastToSeason(seasonID uuid.UUID, event ws.Event)
}

// TransactionServicer defines the service methods needed by transaction
// handlers. Satisfied by *service.TransactionService.
type TransactionServicer interface {
	Create(ctx context.Context, req service.CreateTransactionRequest) (*service.TransactionResult, error)
	Update(ctx context.Context, req service.UpdateTransactionRequest) (*service.TransactionResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionStore defines the database methods needed by transaction read
// handlers. Satisfied by *database.Queries.
type TransactionStore interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (database.Transaction, error)
	ListTransactionsBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.Transaction, error)
	ListTransactionsByCustomer(ctx context.Context, arg database.ListTransactionsByCustomerParams) ([]database.Transaction, error)
	ListTransactionItems(ctx context.Context, transactionID uuid.UUID) ([]database.TransactionItem, error)
	ListPaymentsByTransaction(ctx context.Context, transactionID pgtype.UUID) ([]database.Payment, error)
}

// TransactionHandler handles sale transaction endpoints.
type TransactionHandler struct {
	svc   TransactionServicer
	store TransactionStore
	hub   LedgerBroadcaster
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc TransactionServicer, store TransactionStore, hub LedgerBroadcaster) *TransactionHandler {
	return &TransactionHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers transaction endpoints on the given Chi router.
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *TransactionHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type transactionItemRequest struct {
	SackTypeID string `json:"sack_type_id"`
	Quantity   string `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
}

type createTransactionRequest struct {
	CustomerID string                   `json:"customer_id"`
	SeasonID   string                   `json:"season_id"`
	TxDate     string                   `json:"tx_date"`
	Items      []transactionItemRequest `json:"items"`
	PaidAmount string                   `json:"paid_amount"`
	Notes      string                   `json:"notes"`
	ReceivedBy string                   `json:"received_by"`
}

type updateTransactionRequest struct {
	CustomerID string                   `json:"customer_id"`
	SeasonID   string                   `json:"season_id"`
	TxDate     string                   `json:"tx_date"`
	Items      []transactionItemRequest `json:"items"`
	Notes      string                   `json:"notes"`
}

type transactionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	CustomerID    uuid.UUID                 `json:"customer_id"`
	SeasonID      uuid.UUID                 `json:"season_id"`
	TxDate        string                    `json:"tx_date"`
	TotalAmount   string                    `json:"total_amount"`
	PaidAmount    string                    `json:"paid_amount"`
	DueAmount     string                    `json:"due_amount"`
	PaymentStatus string                    `json:"payment_status"`
	Notes         *string                   `json:"notes"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Items         []transactionItemResponse `json:"items"`
}

type transactionItemResponse struct {
	ID         uuid.UUID `json:"id"`
	SackTypeID uuid.UUID `json:"sack_type_id"`
	Quantity   string    `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
}

// transactionDetailResponse extends transactionResponse with payments for
// the GET detail endpoint.
type transactionDetailResponse struct {
	transactionResponse
	Payments []paymentResponse `json:"payments"`
}

func toTransactionResponse(t database.Transaction, items []database.TransactionItem) transactionResponse {
	resp := transactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		SeasonID:      t.SeasonID,
		TxDate:        dateString(t.TxDate),
		TotalAmount:   numericToString(t.TotalAmount),
		PaidAmount:    numericToString(t.PaidAmount),
		DueAmount:     numericToString(t.DueAmount),
		PaymentStatus: t.PaymentStatus,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Notes.Valid {
		resp.Notes = &t.Notes.String
	}
	resp.Items = make([]transactionItemResponse, len(items))
	for i, item := range items {
		resp.Items[i] = transactionItemResponse{
			ID:         item.ID,
			SackTypeID: item.SackTypeID,
			Quantity:   numericToString(item.Quantity),
			UnitPrice:  numericToString(item.UnitPrice),
			TotalPrice: numericToString(item.TotalPrice),
		}
	}
	return resp
}

// --- Handlers ---

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	items := make([]service.TransactionItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.TransactionItemRequest{
			SackTypeID: item.SackTypeID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	result, err := h.svc.Create(r.Context(), service.CreateTransactionRequest{
		CustomerID: req.CustomerID,
		SeasonID:   req.SeasonID,
		TxDate:     req.TxDate,
		Items:      items,
		PaidAmount: req.PaidAmount,
		Notes:      req.Notes,
		ReceivedBy: req.ReceivedBy,
	})
	if err != nil {
		writeServiceError(w, "create transaction", err)
		return
	}

	resp := toTransactionResponse(result.Transaction, result.Items)
	broadcast(h.hub, resp.SeasonID, "transaction.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /transactions?season_id=...&customer_id=...
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "season_id is required"})
		return
	}

	var transactions []database.Transaction
	if s := r.URL.Query().Get("customer_id"); s != "" {
		customerID, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		transactions, err = h.store.ListTransactionsByCustomer(r.Context(), database.ListTransactionsByCustomerParams{
			CustomerID: customerID,
			SeasonID:   seasonID,
		})
		if err != nil {
			log.Printf("ERROR: list transactions by customer: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	} else {
		transactions, err = h.store.ListTransactionsBySeason(r.Context(), seasonID)
		if err != nil {
			log.Printf("ERROR: list transactions: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	resp := make([]transactionResponse, len(transactions))
	for i, t := range transactions {
		resp[i] = toTransactionResponse(t, nil)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction ID"})
		return
	}

	transaction, err := h.store.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
			return
		}
		log.Printf("ERROR: get transaction: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListTransactionItems(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list transaction items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	payments, err := h.store.ListPaymentsByTransaction(r.Context(), pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	paymentResps := make([]paymentResponse, len(payments))
	for i, p := range payments {
		paymentResps[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, transactionDetailResponse{
		transactionResponse: toTransactionResponse(transaction, items),
		Payments:            paymentResps,
	})
}

// Update handles PUT /transactions/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction ID"})
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.TransactionItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.TransactionItemRequest{
			SackTypeID: item.SackTypeID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	result, err := h.svc.Update(r.Context(), service.UpdateTransactionRequest{
		ID:         id,
		CustomerID: req.CustomerID,
		SeasonID:   req.SeasonID,
		TxDate:     req.TxDate,
		Items:      items,
		Notes:      req.Notes,
	})
	if err != nil {
		writeServiceError(w, "update transaction", err)
		return
	}

	resp := toTransactionResponse(result.Transaction, result.Items)
	broadcast(h.hub, resp.SeasonID, "transaction.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction ID"})
		return
	}

	// Fetch first so we know which season room to notify.
	transaction, err := h.store.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
			return
		}
		log.Printf("ERROR: get transaction: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete transaction", err)
		return
	}

	broadcast(h.hub, transaction.SeasonID, "transaction.deleted", map[string]uuid.UUID{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// writeServiceError maps service-layer errors onto HTTP responses:
// validation sentinels become 400, missing records 404, retryable
// serialization conflicts 409.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFoundError(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case service.IsRetryableConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "concurrent update, please retry"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isNotFoundError(err error) bool {
	return errors.Is(err, service.ErrSeasonNotFound) ||
		errors.Is(err, service.ErrCustomerNotFound) ||
		errors.Is(err, service.ErrSackTypeNotFound) ||
		errors.Is(err, service.ErrCategoryNotFound) ||
		errors.Is(err, service.ErrTransactionNotFound) ||
		errors.Is(err, service.ErrPaymentNotFound) ||
		errors.Is(err, service.ErrExpenseNotFound) ||
		errors.Is(err, service.ErrFundInputNotFound) ||
		errors.Is(err, service.ErrIncomeNotFound)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidUnitPrice) ||
		errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrNegativeAmount) ||
		errors.Is(err, service.ErrNonPositiveAmount) ||
		errors.Is(err, service.ErrInvalidID) ||
		errors.Is(err, service.ErrInvalidSource) ||
		errors.Is(err, service.ErrInvalidDate) ||
		errors.Is(err, service.ErrCustomerMismatch)
}

// broadcast pushes an event to a season room; no-op when no hub is wired.
func broadcast(hub LedgerBroadcaster, seasonID uuid.UUID, eventType string, payload interface{}) {
	if hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal ws event %s: %v", eventType, err)
		return
	}
	hub.BroadcastToSeason(seasonID, ws.Event{Type: eventType, Payload: data})
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func decimalToNumericParam(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
