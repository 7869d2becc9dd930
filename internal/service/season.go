package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/millbook/api/internal/database"
)

// SeasonStore defines the DB methods needed by the season service.
type SeasonStore interface {
	GetSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
	ClearCurrentSeason(ctx context.Context) error
	SetCurrentSeason(ctx context.Context, id uuid.UUID) (database.Season, error)
}

// NewSeasonStore creates a SeasonStore from a DBTX (pool or tx).
type NewSeasonStore func(db database.DBTX) SeasonStore

// SeasonService switches the shop's current season. A partial unique index
// on seasons(is_current) backs the at-most-one-current invariant; the
// clear-then-set runs in one transaction so it never trips that index.
type SeasonService struct {
	pool     TxBeginner
	newStore NewSeasonStore
}

// NewSeasonService creates a new SeasonService.
func NewSeasonService(pool TxBeginner, newStore NewSeasonStore) *SeasonService {
	return &SeasonService{pool: pool, newStore: newStore}
}

// Activate marks the season as current, demoting whichever season held the
// flag before.
func (s *SeasonService) Activate(ctx context.Context, id uuid.UUID) (*database.Season, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetSeason(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("get season: %w", err)
	}
	if err := store.ClearCurrentSeason(ctx); err != nil {
		return nil, fmt.Errorf("clear current season: %w", err)
	}
	season, err := store.SetCurrentSeason(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set current season: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &season, nil
}
