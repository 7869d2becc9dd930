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
)

// SeasonServicer defines the service methods needed by season handlers.
type SeasonServicer interface {
	Activate(ctx context.Context, id uuid.UUID) (*database.Season, error)
}

// SeasonStore defines the database methods needed by season handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SeasonStore interface {
	ListSeasons(ctx context.Context) ([]database.Season, error)
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	GetCurrentSeason(ctx context.Context) (database.Season, error)
	CreateSeason(ctx context.Context, arg database.CreateSeasonParams) (database.Season, error)
}

// SeasonHandler handles season endpoints.
type SeasonHandler struct {
	svc   SeasonServicer
	store SeasonStore
}

// NewSeasonHandler creates a new SeasonHandler.
func NewSeasonHandler(svc SeasonServicer, store SeasonStore) *SeasonHandler {
	return &SeasonHandler{svc: svc, store: store}
}

// RegisterRoutes registers season endpoints on the given Chi router.
func (h *SeasonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/current", h.GetCurrent)
	r.Get("/{id}", h.Get)
}

// RegisterWriteRoutes registers the mutating endpoints. The router guards
// these with the OWNER/MANAGER role check.
func (h *SeasonHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Post("/{id}/activate", h.Activate)
}

// --- Request / Response types ---

type createSeasonRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type seasonResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
	CreatedAt time.Time `json:"created_at"`
}

func toSeasonResponse(s database.Season) seasonResponse {
	resp := seasonResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: dateString(s.StartDate),
		IsCurrent: s.IsCurrent,
		CreatedAt: s.CreatedAt,
	}
	if s.EndDate.Valid {
		d := dateString(s.EndDate)
		resp.EndDate = &d
	}
	return resp
}

// --- Handlers ---

// List returns all seasons, newest first.
func (h *SeasonHandler) List(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.store.ListSeasons(r.Context())
	if err != nil {
		log.Printf("ERROR: list seasons: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]seasonResponse, len(seasons))
	for i, s := range seasons {
		resp[i] = toSeasonResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new season. The season starts inactive; use the activate
// endpoint to make it current.
func (h *SeasonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	start, err := parseDateParam(req.StartDate)
	if err != nil || !start.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date, use YYYY-MM-DD"})
		return
	}
	end, err := parseDateParam(req.EndDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date, use YYYY-MM-DD"})
		return
	}

	season, err := h.store.CreateSeason(r.Context(), database.CreateSeasonParams{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: create season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSeasonResponse(season))
}

// Get returns one season by id.
func (h *SeasonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	season, err := h.store.GetSeason(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: get season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSeasonResponse(season))
}

// GetCurrent returns the season currently marked as active.
func (h *SeasonHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	season, err := h.store.GetCurrentSeason(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no current season"})
			return
		}
		log.Printf("ERROR: get current season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSeasonResponse(season))
}

// Activate marks a season as the current one.
func (h *SeasonHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season ID"})
		return
	}

	season, err := h.svc.Activate(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "season not found"})
			return
		}
		log.Printf("ERROR: activate season: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSeasonResponse(*season))
}

// --- Helpers ---

// dateString formats a pgtype.Date as YYYY-MM-DD; zero value for null.
func dateString(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// parseDateParam parses an optional YYYY-MM-DD string.
func parseDateParam(s string) (pgtype.Date, error) {
	if s == "" {
		return pgtype.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return pgtype.Date{}, err
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}
