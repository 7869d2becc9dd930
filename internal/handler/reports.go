package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
	"github.com/xuri/excelize/v2"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetSeasonSummary(ctx context.Context, seasonID uuid.UUID) (database.GetSeasonSummaryRow, error)
	ListSeasonDues(ctx context.Context, seasonID uuid.UUID) ([]database.ListSeasonDuesRow, error)
	GetCashBalance(ctx context.Context, seasonID uuid.UUID) (database.CashBalance, error)
	ListLedgerEntriesBySeason(ctx context.Context, seasonID uuid.UUID) ([]database.LedgerEntry, error)
}

// ReportsHandler handles season report endpoints.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers season-scoped report endpoints.
// Expected to be mounted inside the /seasons subrouter.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}/summary", h.Summary)
	r.Get("/{id}/report.xlsx", h.ExportXLSX)
}

// --- Response types ---

type seasonSummaryResponse struct {
	SeasonID               uuid.UUID        `json:"season_id"`
	SeasonName             string           `json:"season_name"`
	TotalSales             string           `json:"total_sales"`
	TransactionCount       int64            `json:"transaction_count"`
	TotalPayments          string           `json:"total_payments"`
	TotalExpenses          string           `json:"total_expenses"`
	TotalFundInputs        string           `json:"total_fund_inputs"`
	TotalAdditionalIncomes string           `json:"total_additional_incomes"`
	CashBalance            string           `json:"cash_balance"`
	Dues                   []seasonDueEntry `json:"dues"`
}

type seasonDueEntry struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Area         *string   `json:"area"`
	Phone        *string   `json:"phone"`
	Balance      string    `json:"balance"`
}

// --- Handlers ---

// Summary returns the season's aggregate totals, cash balance, and the list
// of customers who still owe.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	season, err := h.store.GetSeason(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: get season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	summary, err := h.store.GetSeasonSummary(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: get season summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	cash := "0.00"
	cb, err := h.store.GetCashBalance(r.Context(), seasonID)
	if err == nil {
		cash = numericToString(cb.Amount)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: get cash balance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	dues, err := h.store.ListSeasonDues(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list season dues: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := seasonSummaryResponse{
		SeasonID:               season.ID,
		SeasonName:             season.Name,
		TotalSales:             numericToString(summary.TotalSales),
		TransactionCount:       summary.TransactionCount,
		TotalPayments:          numericToString(summary.TotalPayments),
		TotalExpenses:          numericToString(summary.TotalExpenses),
		TotalFundInputs:        numericToString(summary.TotalFundInputs),
		TotalAdditionalIncomes: numericToString(summary.TotalAdditionalIncomes),
		CashBalance:            cash,
		Dues:                   make([]seasonDueEntry, len(dues)),
	}
	for i, d := range dues {
		entry := seasonDueEntry{
			CustomerID:   d.CustomerID,
			CustomerName: d.CustomerName,
			Balance:      numericToString(d.Balance),
		}
		if d.Area.Valid {
			entry.Area = &d.Area.String
		}
		if d.Phone.Valid {
			entry.Phone = &d.Phone.String
		}
		resp.Dues[i] = entry
	}

	writeJSON(w, http.StatusOK, resp)
}

// ExportXLSX writes the season's financial statement as an Excel workbook:
// a summary sheet, the dues list, and the full ledger.
func (h *ReportsHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	season, err := h.store.GetSeason(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: get season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	summary, err := h.store.GetSeasonSummary(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: get season summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	cash := "0.00"
	cb, err := h.store.GetCashBalance(r.Context(), seasonID)
	if err == nil {
		cash = numericToString(cb.Amount)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: get cash balance: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	dues, err := h.store.ListSeasonDues(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list season dues: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	entries, err := h.store.ListLedgerEntriesBySeason(r.Context(), seasonID)
	if err != nil {
		log.Printf("ERROR: list ledger entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := buildSummarySheet(f, season, summary, cash); err != nil {
		log.Printf("ERROR: build summary sheet: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	buildDuesSheet(f, dues)
	buildLedgerSheet(f, entries)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("season_%s_%s.xlsx", season.Name, time.Now().Format("20060102"))))

	if err := f.Write(w); err != nil {
		log.Printf("ERROR: write xlsx: %v", err)
	}
}

// --- Sheet builders ---

func buildSummarySheet(f *excelize.File, season database.Season, summary database.GetSeasonSummaryRow, cash string) error {
	const sheet = "Summary"
	// Rename the default sheet so the workbook has no empty "Sheet1".
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Season", season.Name},
		{"Start Date", dateString(season.StartDate)},
		{"End Date", dateString(season.EndDate)},
		{},
		{"Total Sales", numericToString(summary.TotalSales)},
		{"Transactions", summary.TransactionCount},
		{"Total Payments", numericToString(summary.TotalPayments)},
		{"Total Expenses", numericToString(summary.TotalExpenses)},
		{"Total Fund Inputs", numericToString(summary.TotalFundInputs)},
		{"Total Additional Incomes", numericToString(summary.TotalAdditionalIncomes)},
		{"Cash Balance", cash},
	}
	for i, row := range rows {
		for j, v := range row {
			cell := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(sheet, cell, v) //nolint:errcheck
		}
	}
	f.SetColWidth(sheet, "A", "A", 26) //nolint:errcheck
	f.SetColWidth(sheet, "B", "B", 18) //nolint:errcheck
	return nil
}

func buildDuesSheet(f *excelize.File, dues []database.ListSeasonDuesRow) {
	const sheet = "Dues"
	if _, err := f.NewSheet(sheet); err != nil {
		return
	}

	headers := []string{"Customer", "Area", "Phone", "Total Sales", "Total Payments", "Balance"}
	for i, hdr := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, hdr) //nolint:errcheck
	}

	for idx, d := range dues {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.CustomerName)                   //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.Area.String)                    //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.Phone.String)                   //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), numericToString(d.TotalSales))    //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), numericToString(d.TotalPayments)) //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), numericToString(d.Balance))       //nolint:errcheck
	}

	f.SetColWidth(sheet, "A", "A", 24) //nolint:errcheck
	f.SetColWidth(sheet, "B", "C", 16) //nolint:errcheck
	f.SetColWidth(sheet, "D", "F", 16) //nolint:errcheck
}

func buildLedgerSheet(f *excelize.File, entries []database.LedgerEntry) {
	const sheet = "Ledger"
	if _, err := f.NewSheet(sheet); err != nil {
		return
	}

	headers := []string{"Date", "Kind", "Source", "Amount"}
	for i, hdr := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, hdr) //nolint:errcheck
	}

	for idx, e := range entries {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.CreatedAt.Format("2006-01-02 15:04")) //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.Kind)                                 //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.SourceType)                           //nolint:errcheck
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), numericToString(e.SignedAmount))        //nolint:errcheck
	}

	f.SetColWidth(sheet, "A", "A", 18) //nolint:errcheck
	f.SetColWidth(sheet, "B", "C", 20) //nolint:errcheck
	f.SetColWidth(sheet, "D", "D", 14) //nolint:errcheck
}
