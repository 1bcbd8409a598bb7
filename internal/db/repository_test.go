package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/togglebot/internal/journal"
	"github.com/udisondev/togglebot/internal/toggle"
)

func TestSessionRepository_StartEnd(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(pool)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Start(ctx, "sess-1", start))
	require.NoError(t, repo.Start(ctx, "sess-1", start), "restart is idempotent")
	require.NoError(t, repo.End(ctx, "sess-1", start.Add(time.Minute), 600))

	var ticks int64
	var ended time.Time
	err := pool.QueryRow(ctx, `SELECT ticks, ended_at FROM sessions WHERE id = $1`, "sess-1").Scan(&ticks, &ended)
	require.NoError(t, err)
	assert.Equal(t, int64(600), ticks)
	assert.True(t, ended.Equal(start.Add(time.Minute)))

	err = repo.End(ctx, "missing", start, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTransitionRepository_RecordRecent(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	sessions := NewSessionRepository(pool)
	repo := NewTransitionRepository(pool)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, sessions.Start(ctx, "sess-2", at))

	var r journal.Recorder = repo
	require.NoError(t, r.Record(ctx, journal.Transition{
		SessionID: "sess-2", Script: "armlet", Action: toggle.ActionActivate,
		Metric: 480, Threshold: 500, At: at,
	}))
	require.NoError(t, r.Record(ctx, journal.Transition{
		SessionID: "sess-2", Script: "armlet", Action: toggle.ActionDeactivate,
		Metric: 520, Threshold: 500, At: at.Add(2 * time.Second),
	}))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, toggle.ActionDeactivate, got[0].Action, "newest first")
	assert.Equal(t, 520.0, got[0].Metric)
	assert.Equal(t, toggle.ActionActivate, got[1].Action)
	assert.Equal(t, "sess-2", got[1].SessionID)

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTransitionRepository_UnknownSession(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTransitionRepository(pool)

	err := repo.Record(context.Background(), journal.Transition{
		SessionID: "nope", Script: "armlet", Action: toggle.ActionActivate, At: time.Now(),
	})
	assert.Error(t, err, "foreign key violation")
}

func TestNew_PoolSettings(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	d, err := New(ctx, testDSN)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, int32(maxConns), d.Pool().Config().MaxConns)

	var app string
	require.NoError(t, d.Pool().QueryRow(ctx, "SELECT current_setting('application_name')").Scan(&app))
	assert.Equal(t, "togglebot", app)
}

func TestNew_BadDSN(t *testing.T) {
	_, err := New(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	setupTestDB(t)

	version, err := RunMigrations(context.Background(), testDSN)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}
