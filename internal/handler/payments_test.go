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

type mockPaymentServicer struct {
	createFn func(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error)
	updateFn func(ctx context.Context, req service.UpdatePaymentRequest) (*service.PaymentResult, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPaymentServicer) Create(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error) {
	return m.createFn(ctx, req)
}

func (m *mockPaymentServicer) Update(ctx context.Context, req service.UpdatePaymentRequest) (*service.PaymentResult, error) {
	return m.updateFn(ctx, req)
}

func (m *mockPaymentServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockPaymentReadStore struct {
	payments map[uuid.UUID]database.Payment
}

func newMockPaymentReadStore() *mockPaymentReadStore {
	return &mockPaymentReadStore{payments: make(map[uuid.UUID]database.Payment)}
}

func (m *mockPaymentReadStore) GetPayment(_ context.Context, id uuid.UUID) (database.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return database.Payment{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPaymentReadStore) ListPaymentsBySeason(_ context.Context, seasonID uuid.UUID) ([]database.Payment, error) {
	var result []database.Payment
	for _, p := range m.payments {
		if p.SeasonID == seasonID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPaymentReadStore) ListPaymentsByCustomer(_ context.Context, arg database.ListPaymentsByCustomerParams) ([]database.Payment, error) {
	var result []database.Payment
	for _, p := range m.payments {
		if p.SeasonID == arg.SeasonID && p.CustomerID == arg.CustomerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func setupPaymentRouter(svc handler.PaymentServicer, store *mockPaymentReadStore, hub *mockHub) *chi.Mux {
	var b handler.LedgerBroadcaster
	if hub != nil {
		b = hub
	}
	h := handler.NewPaymentHandler(svc, store, b)
	r := chi.NewRouter()
	r.Route("/payments", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterWriteRoutes(r)
	})
	return r
}

func samplePayment(customerID, seasonID uuid.UUID) database.Payment {
	return database.Payment{
		ID:         uuid.New(),
		CustomerID: customerID,
		SeasonID:   seasonID,
		PayDate:    pgtype.Date{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		Amount:     numericFromString("1000.00"),
		CreatedAt:  time.Now(),
	}
}

func TestPaymentCreate_Standalone(t *testing.T) {
	customerID, seasonID := uuid.New(), uuid.New()
	payment := samplePayment(customerID, seasonID)
	svc := &mockPaymentServicer{
		createFn: func(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error) {
			if req.TransactionID != "" {
				t.Errorf("transaction_id should be empty, got %s", req.TransactionID)
			}
			return &service.PaymentResult{Payment: payment}, nil
		},
	}
	hub := &mockHub{}
	router := setupPaymentRouter(svc, newMockPaymentReadStore(), hub)

	rr := doRequest(t, router, "POST", "/payments", map[string]interface{}{
		"customer_id": customerID.String(),
		"season_id":   seasonID.String(),
		"pay_date":    "2026-03-01",
		"amount":      "1000",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["amount"] != "1000.00" {
		t.Errorf("amount: got %v, want 1000.00", resp["amount"])
	}
	if resp["transaction_id"] != nil {
		t.Errorf("transaction_id: got %v, want null", resp["transaction_id"])
	}
	if _, ok := resp["transaction"]; ok {
		t.Error("transaction should be omitted for a standalone payment")
	}
	if len(hub.events) != 1 || hub.events[0].event.Type != "payment.created" {
		t.Fatalf("expected a payment.created broadcast, got %+v", hub.events)
	}
}

func TestPaymentCreate_LinkedReturnsTransaction(t *testing.T) {
	customerID, seasonID := uuid.New(), uuid.New()
	tr := sampleTransaction(customerID, seasonID)
	tr.PaidAmount = numericFromString("2500.00")
	tr.DueAmount = numericFromString("0.00")
	tr.PaymentStatus = "paid"
	payment := samplePayment(customerID, seasonID)
	payment.TransactionID = pgtype.UUID{Bytes: tr.ID, Valid: true}
	svc := &mockPaymentServicer{
		createFn: func(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error) {
			return &service.PaymentResult{Payment: payment, Transaction: &tr}, nil
		},
	}
	router := setupPaymentRouter(svc, newMockPaymentReadStore(), nil)

	rr := doRequest(t, router, "POST", "/payments", map[string]interface{}{
		"customer_id":    customerID.String(),
		"transaction_id": tr.ID.String(),
		"season_id":      seasonID.String(),
		"pay_date":       "2026-03-01",
		"amount":         "1500",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	linked, ok := resp["transaction"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected the recomputed transaction in the response, got %v", resp["transaction"])
	}
	if linked["due_amount"] != "0.00" {
		t.Errorf("due_amount: got %v, want 0.00", linked["due_amount"])
	}
	if linked["payment_status"] != "paid" {
		t.Errorf("payment_status: got %v, want paid", linked["payment_status"])
	}
}

func TestPaymentCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"zero amount", service.ErrNonPositiveAmount, http.StatusBadRequest},
		{"customer mismatch", service.ErrCustomerMismatch, http.StatusBadRequest},
		{"transaction missing", service.ErrTransactionNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPaymentServicer{
				createFn: func(ctx context.Context, req service.CreatePaymentRequest) (*service.PaymentResult, error) {
					return nil, tt.err
				},
			}
			router := setupPaymentRouter(svc, newMockPaymentReadStore(), nil)

			rr := doRequest(t, router, "POST", "/payments", map[string]interface{}{
				"customer_id": uuid.New().String(),
				"season_id":   uuid.New().String(),
				"pay_date":    "2026-03-01",
				"amount":      "0",
			})

			if rr.Code != tt.code {
				t.Errorf("status: got %d, want %d", rr.Code, tt.code)
			}
		})
	}
}

func TestPaymentList_RequiresSeason(t *testing.T) {
	router := setupPaymentRouter(&mockPaymentServicer{}, newMockPaymentReadStore(), nil)

	rr := doRequest(t, router, "GET", "/payments", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPaymentList_FiltersByCustomer(t *testing.T) {
	customerID, seasonID := uuid.New(), uuid.New()
	store := newMockPaymentReadStore()
	p1 := samplePayment(customerID, seasonID)
	p2 := samplePayment(uuid.New(), seasonID)
	store.payments[p1.ID] = p1
	store.payments[p2.ID] = p2
	router := setupPaymentRouter(&mockPaymentServicer{}, store, nil)

	rr := doRequest(t, router, "GET", "/payments?season_id="+seasonID.String()+"&customer_id="+customerID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(resp))
	}
}

func TestPaymentGet_NotFound(t *testing.T) {
	router := setupPaymentRouter(&mockPaymentServicer{}, newMockPaymentReadStore(), nil)

	rr := doRequest(t, router, "GET", "/payments/"+uuid.New().String(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestPaymentUpdate_Valid(t *testing.T) {
	customerID, seasonID := uuid.New(), uuid.New()
	payment := samplePayment(customerID, seasonID)
	payment.Amount = numericFromString("600.00")
	svc := &mockPaymentServicer{
		updateFn: func(ctx context.Context, req service.UpdatePaymentRequest) (*service.PaymentResult, error) {
			if req.ID != payment.ID {
				t.Errorf("id: got %v, want %v", req.ID, payment.ID)
			}
			return &service.PaymentResult{Payment: payment}, nil
		},
	}
	router := setupPaymentRouter(svc, newMockPaymentReadStore(), nil)

	rr := doRequest(t, router, "PUT", "/payments/"+payment.ID.String(), map[string]interface{}{
		"customer_id": customerID.String(),
		"season_id":   seasonID.String(),
		"pay_date":    "2026-03-01",
		"amount":      "600",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["amount"] != "600.00" {
		t.Errorf("amount: got %v, want 600.00", resp["amount"])
	}
}

func TestPaymentDelete_BroadcastsToSeasonRoom(t *testing.T) {
	customerID, seasonID := uuid.New(), uuid.New()
	store := newMockPaymentReadStore()
	payment := samplePayment(customerID, seasonID)
	store.payments[payment.ID] = payment
	svc := &mockPaymentServicer{
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	hub := &mockHub{}
	router := setupPaymentRouter(svc, store, hub)

	rr := doRequest(t, router, "DELETE", "/payments/"+payment.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if len(hub.events) != 1 || hub.events[0].event.Type != "payment.deleted" {
		t.Fatalf("expected a payment.deleted broadcast, got %+v", hub.events)
	}
	if hub.events[0].seasonID != seasonID {
		t.Errorf("event season: got %v, want %v", hub.events[0].seasonID, seasonID)
	}
}

func TestPaymentDelete_NotFound(t *testing.T) {
	router := setupPaymentRouter(&mockPaymentServicer{}, newMockPaymentReadStore(), nil)

	rr := doRequest(t, router, "DELETE", "/payments/"+uuid.New().String(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
