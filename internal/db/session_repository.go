package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository хранит границы сессий (матчей).
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository создаёт новый SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Start регистрирует начало сессии. Повторный Start с тем же ID игнорируется.
func (r *SessionRepository) Start(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, started_at) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("starting session %s: %w", id, err)
	}
	return nil
}

// End фиксирует конец сессии и число тиков.
func (r *SessionRepository) End(ctx context.Context, id string, at time.Time, ticks uint64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sessions SET ended_at = $2, ticks = $3 WHERE id = $1`,
		id, at, int64(ticks),
	)
	if err != nil {
		return fmt.Errorf("ending session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ending session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}
