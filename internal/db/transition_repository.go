package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/togglebot/internal/journal"
	"github.com/udisondev/togglebot/internal/toggle"
)

// ErrSessionNotFound is returned when a session row is missing.
var ErrSessionNotFound = errors.New("session not found")

// TransitionRepository журналирует переходы toggle-контроллеров.
// Реализует journal.Recorder.
type TransitionRepository struct {
	db *pgxpool.Pool
}

// NewTransitionRepository создаёт новый TransitionRepository.
func NewTransitionRepository(db *pgxpool.Pool) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// Record сохраняет один переход.
func (r *TransitionRepository) Record(ctx context.Context, tr journal.Transition) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transitions (session_id, script, action, metric, threshold, at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tr.SessionID, tr.Script, int16(tr.Action), tr.Metric, tr.Threshold, tr.At,
	)
	if err != nil {
		return fmt.Errorf("recording %s transition for session %s: %w", tr.Action, tr.SessionID, err)
	}
	return nil
}

// Recent возвращает последние limit переходов, новые первыми.
func (r *TransitionRepository) Recent(ctx context.Context, limit int) ([]journal.Transition, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT session_id, script, action, metric, threshold, at
		 FROM transitions
		 ORDER BY at DESC, id DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	out := make([]journal.Transition, 0, limit)
	for rows.Next() {
		var (
			tr     journal.Transition
			action int16
		)
		if err := rows.Scan(&tr.SessionID, &tr.Script, &action, &tr.Metric, &tr.Threshold, &tr.At); err != nil {
			return nil, fmt.Errorf("scanning transition row: %w", err)
		}
		tr.Action = toggle.Action(action)
		out = append(out, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transition rows: %w", err)
	}
	return out, nil
}
