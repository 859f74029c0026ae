package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotNotAvailable - слот для замены не найден или уже занят
var ErrSlotNotAvailable = errors.New("availability slot not found")

const sessionColumns = `id, psychologist_id, patient_id, patient_name, date, start_time, end_time,
	starts_at, ends_at, status, type, price, percent_psych, paid, notes, meet_link, tags, created_at`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// List возвращает сессии психолога в диапазоне дат включительно
func (r *SessionRepository) List(ctx context.Context, psychologistID, startDate, endDate string) ([]model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE psychologist_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date, start_time
	`

	rows, err := r.Query(ctx, query, psychologistID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &s, nil
}

// Create создаёт сессию
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	if err := insertSession(ctx, r.Pool(), s); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// CreateReplacingSlot создаёт сессию и удаляет свободный слот slotID в одной транзакции
func (r *SessionRepository) CreateReplacingSlot(ctx context.Context, s *model.Session, slotID string) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		deleted, err := base.ExecAffectedTx(ctx, tx,
			`DELETE FROM sessions WHERE id = $1 AND psychologist_id = $2 AND status = $3`,
			slotID, s.PsychologistID, model.SessionStatusAvailable,
		)
		if err != nil {
			return fmt.Errorf("delete slot: %w", err)
		}
		if deleted == 0 {
			return ErrSlotNotAvailable
		}

		if err := insertSession(ctx, tx, s); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
}

// Update перезаписывает все изменяемые поля сессии
func (r *SessionRepository) Update(ctx context.Context, s *model.Session) (bool, error) {
	query := `
		UPDATE sessions
		SET patient_id = $2, patient_name = $3, date = $4, start_time = $5, end_time = $6,
		    starts_at = $7, ends_at = $8, status = $9, type = $10, price = $11,
		    percent_psych = $12, paid = $13, notes = $14, meet_link = $15, tags = $16,
		    updated_at = NOW()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query,
		s.ID,
		s.PatientID,
		s.PatientName,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.StartsAt,
		s.EndsAt,
		s.Status,
		s.Type,
		s.Price,
		s.PercentPsych,
		s.Paid,
		s.Notes,
		s.MeetLink,
		tagsOrEmpty(s.Tags),
	)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return affected > 0, nil
}

// CreateBatch вставляет слоты одной операцией COPY
func (r *SessionRepository) CreateBatch(ctx context.Context, slots []model.Session) (int, error) {
	columns := []string{
		"id", "psychologist_id", "patient_id", "patient_name", "date", "start_time", "end_time",
		"starts_at", "ends_at", "status", "type", "price", "percent_psych", "paid", "notes", "meet_link", "tags",
	}

	n, err := r.Pool().CopyFrom(ctx, pgx.Identifier{"sessions"}, columns,
		pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
			s := slots[i]
			return []any{
				s.ID, s.PsychologistID, s.PatientID, s.PatientName, s.Date, s.StartTime, s.EndTime,
				s.StartsAt, s.EndsAt, string(s.Status), string(s.Type), s.Price, s.PercentPsych, s.Paid,
				s.Notes, s.MeetLink, tagsOrEmpty(s.Tags),
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy slots: %w", err)
	}

	return int(n), nil
}

func insertSession(ctx context.Context, q base.Querier, s *model.Session) error {
	query := `
		INSERT INTO sessions (id, psychologist_id, patient_id, patient_name, date, start_time, end_time,
		                      starts_at, ends_at, status, type, price, percent_psych, paid, notes, meet_link, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`

	return q.QueryRow(ctx, query,
		s.ID,
		s.PsychologistID,
		s.PatientID,
		s.PatientName,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.StartsAt,
		s.EndsAt,
		s.Status,
		s.Type,
		s.Price,
		s.PercentPsych,
		s.Paid,
		s.Notes,
		s.MeetLink,
		tagsOrEmpty(s.Tags),
	).Scan(&s.CreatedAt)
}

func scanSession(row pgx.Row) (model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID,
		&s.PsychologistID,
		&s.PatientID,
		&s.PatientName,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.StartsAt,
		&s.EndsAt,
		&s.Status,
		&s.Type,
		&s.Price,
		&s.PercentPsych,
		&s.Paid,
		&s.Notes,
		&s.MeetLink,
		&s.Tags,
		&s.CreatedAt,
	)
	return s, err
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
