package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/millbook/api/internal/config"
	"github.com/millbook/api/internal/database"
	"github.com/millbook/api/internal/handler"
	mw "github.com/millbook/api/internal/middleware"
	"github.com/millbook/api/internal/service"
	"github.com/millbook/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Reads are open to any authenticated user; financial mutations require
// OWNER or MANAGER; ledger repair and user registration are OWNER only.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/seasons/{id}/ledger", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Services own their transactions; each gets a factory that binds a
	// query set to whatever DBTX (pool or tx) the service hands it.
	seasonService := service.NewSeasonService(pool, func(db database.DBTX) service.SeasonStore {
		return database.New(db)
	})
	transactionService := service.NewTransactionService(pool, func(db database.DBTX) service.TransactionStore {
		return database.New(db)
	})
	paymentService := service.NewPaymentService(pool, func(db database.DBTX) service.PaymentStore {
		return database.New(db)
	})
	expenseService := service.NewExpenseService(pool, func(db database.DBTX) service.ExpenseStore {
		return database.New(db)
	})
	fundInputService := service.NewFundInputService(pool, func(db database.DBTX) service.FundInputStore {
		return database.New(db)
	})
	incomeService := service.NewAdditionalIncomeService(pool, func(db database.DBTX) service.AdditionalIncomeStore {
		return database.New(db)
	})
	cashBalanceService := service.NewCashBalanceService(pool, queries, func(db database.DBTX) service.CashBalanceStore {
		return database.New(db)
	})
	customerBalanceService := service.NewCustomerBalanceService(queries)

	seasonHandler := handler.NewSeasonHandler(seasonService, queries)
	customerHandler := handler.NewCustomerHandler(queries)
	sackTypeHandler := handler.NewSackTypeHandler(queries)
	categoryHandler := handler.NewExpenseCategoryHandler(queries)
	transactionHandler := handler.NewTransactionHandler(transactionService, queries, hub)
	paymentHandler := handler.NewPaymentHandler(paymentService, queries, hub)
	expenseHandler := handler.NewExpenseHandler(expenseService, queries, hub)
	fundInputHandler := handler.NewFundInputHandler(fundInputService, queries, hub)
	incomeHandler := handler.NewAdditionalIncomeHandler(incomeService, queries, hub)
	balanceHandler := handler.NewBalanceHandler(cashBalanceService, customerBalanceService)
	reportsHandler := handler.NewReportsHandler(queries)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Owner-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole("OWNER"))
			authHandler.RegisterProtectedRoutes(r)
		})

		// Seasons: reads open to all roles, plus the season-scoped
		// balance, ledger, and report views
		r.Route("/seasons", func(r chi.Router) {
			seasonHandler.RegisterRoutes(r)
			balanceHandler.RegisterSeasonRoutes(r)
			reportsHandler.RegisterRoutes(r)
			r.With(mw.RequireRole("OWNER")).
				Post("/{id}/cash-balance/rebuild", balanceHandler.RebuildCashBalance)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("OWNER", "MANAGER"))
				seasonHandler.RegisterWriteRoutes(r)
			})
		})

		// Master data
		r.Route("/customers", func(r chi.Router) {
			customerHandler.RegisterRoutes(r)
			r.Get("/{id}/balance", balanceHandler.GetCustomerBalance)
		})
		r.Route("/sack-types", sackTypeHandler.RegisterRoutes)
		r.Route("/expense-categories", categoryHandler.RegisterRoutes)

		// Financial records: reads open, mutations OWNER/MANAGER.
		// Every mutation below posts through the season ledger.
		financial := func(path string, read, write func(chi.Router)) {
			r.Route(path, func(r chi.Router) {
				read(r)
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole("OWNER", "MANAGER"))
					write(r)
				})
			})
		}
		financial("/transactions", transactionHandler.RegisterRoutes, transactionHandler.RegisterWriteRoutes)
		financial("/payments", paymentHandler.RegisterRoutes, paymentHandler.RegisterWriteRoutes)
		financial("/expenses", expenseHandler.RegisterRoutes, expenseHandler.RegisterWriteRoutes)
		financial("/fund-inputs", fundInputHandler.RegisterRoutes, fundInputHandler.RegisterWriteRoutes)
		financial("/additional-incomes", incomeHandler.RegisterRoutes, incomeHandler.RegisterWriteRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
