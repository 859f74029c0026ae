package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/Freeeeeet/practice_calendar/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RelationshipRepository struct {
	*base.Repository
}

func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт связь психолога с пациентом
func (r *RelationshipRepository) Create(ctx context.Context, rel *model.Relationship) error {
	query := `
		INSERT INTO relationships (id, psychologist_id, patient_id, patient_name, default_price, percent_psych, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.ExecAffected(ctx, query,
		rel.ID,
		rel.PsychologistID,
		rel.PatientID,
		rel.PatientName,
		rel.DefaultPrice,
		rel.PercentPsych,
		rel.Active,
	)
	if err != nil {
		return fmt.Errorf("create relationship: %w", err)
	}

	return nil
}

// ListByPsychologist возвращает все связи психолога
func (r *RelationshipRepository) ListByPsychologist(ctx context.Context, psychologistID string) ([]model.Relationship, error) {
	query := `
		SELECT id, psychologist_id, patient_id, patient_name, default_price, percent_psych, active
		FROM relationships
		WHERE psychologist_id = $1
		ORDER BY patient_name
	`

	rows, err := r.Query(ctx, query, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	rels := make([]model.Relationship, 0)
	for rows.Next() {
		var rel model.Relationship
		err := rows.Scan(
			&rel.ID,
			&rel.PsychologistID,
			&rel.PatientID,
			&rel.PatientName,
			&rel.DefaultPrice,
			&rel.PercentPsych,
			&rel.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relationships: %w", err)
	}

	return rels, nil
}

// GetActive возвращает активную связь психолога с пациентом или nil
func (r *RelationshipRepository) GetActive(ctx context.Context, psychologistID, patientID string) (*model.Relationship, error) {
	query := `
		SELECT id, psychologist_id, patient_id, patient_name, default_price, percent_psych, active
		FROM relationships
		WHERE psychologist_id = $1 AND patient_id = $2 AND active
	`

	var rel model.Relationship
	err := r.QueryRow(ctx, query, psychologistID, patientID).Scan(
		&rel.ID,
		&rel.PsychologistID,
		&rel.PatientID,
		&rel.PatientName,
		&rel.DefaultPrice,
		&rel.PercentPsych,
		&rel.Active,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active relationship: %w", err)
	}

	return &rel, nil
}
