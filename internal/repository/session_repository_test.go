package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Freeeeeet/practice_calendar/internal/app"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestPool подключается к TEST_DB_DSN и накатывает миграции; без переменной тест пропускается
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))
	require.NoError(t, migrator.Close())

	return pool
}

func cleanup(t *testing.T, pool *pgxpool.Pool, psychologistID string) {
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM sessions WHERE psychologist_id = $1`, psychologistID)
		_, _ = pool.Exec(ctx, `DELETE FROM relationships WHERE psychologist_id = $1`, psychologistID)
	})
}

func TestSessionRepositoryCRUD(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSessionRepository(pool)
	ctx := context.Background()
	psy := uuid.NewString()
	cleanup(t, pool, psy)

	s := &model.Session{
		ID: uuid.NewString(), PsychologistID: psy, PatientID: "p1", PatientName: "Анна",
		Date: "2024-06-03", StartTime: "09:00", EndTime: "10:00",
		Status: model.SessionStatusScheduled, Type: model.SessionTypeOnline, Price: 3000, PercentPsych: 70,
	}
	require.NoError(t, repo.Create(ctx, s))
	assert.NotNil(t, s.CreatedAt)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Анна", got.PatientName)
	assert.Equal(t, model.SessionStatusScheduled, got.Status)
	assert.Empty(t, got.Tags)

	s.StartTime, s.EndTime = "11:00", "12:30"
	updated, err := repo.Update(ctx, s)
	require.NoError(t, err)
	assert.True(t, updated)

	list, err := repo.List(ctx, psy, "2024-06-03", "2024-06-09")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "12:30", list[0].EndTime)

	deleted, err := repo.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	missing, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateReplacingSlot(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSessionRepository(pool)
	ctx := context.Background()
	psy := uuid.NewString()
	cleanup(t, pool, psy)

	slot := model.Session{
		ID: uuid.NewString(), PsychologistID: psy,
		Date: "2024-06-04", StartTime: "15:00", EndTime: "16:00", Status: model.SessionStatusAvailable,
	}
	n, err := repo.CreateBatch(ctx, []model.Session{slot})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	session := &model.Session{
		ID: uuid.NewString(), PsychologistID: psy, PatientID: "p1",
		Date: slot.Date, StartTime: slot.StartTime, EndTime: slot.EndTime, Status: model.SessionStatusScheduled,
	}
	require.NoError(t, repo.CreateReplacingSlot(ctx, session, slot.ID))

	list, err := repo.List(ctx, psy, "2024-06-04", "2024-06-04")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, session.ID, list[0].ID)

	again := &model.Session{
		ID: uuid.NewString(), PsychologistID: psy, PatientID: "p2",
		Date: slot.Date, StartTime: slot.StartTime, EndTime: slot.EndTime, Status: model.SessionStatusScheduled,
	}
	assert.ErrorIs(t, repo.CreateReplacingSlot(ctx, again, slot.ID), ErrSlotNotAvailable)

	stray, err := repo.GetByID(ctx, again.ID)
	require.NoError(t, err)
	assert.Nil(t, stray)
}

func TestRelationshipRepository(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRelationshipRepository(pool)
	ctx := context.Background()
	psy := uuid.NewString()
	cleanup(t, pool, psy)

	require.NoError(t, repo.Create(ctx, &model.Relationship{
		ID: uuid.NewString(), PsychologistID: psy, PatientID: "p1", PatientName: "Анна", DefaultPrice: 3000, PercentPsych: 70, Active: true,
	}))
	require.NoError(t, repo.Create(ctx, &model.Relationship{
		ID: uuid.NewString(), PsychologistID: psy, PatientID: "p2", PatientName: "Борис", Active: false,
	}))

	rels, err := repo.ListByPsychologist(ctx, psy)
	require.NoError(t, err)
	assert.Len(t, rels, 2)

	active, err := repo.GetActive(ctx, psy, "p1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 3000.0, active.DefaultPrice)

	inactive, err := repo.GetActive(ctx, psy, "p2")
	require.NoError(t, err)
	assert.Nil(t, inactive)
}
