package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FormRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Form, error)
	CreateSubmission(ctx context.Context, submission *domain.Submission) error
}

type PGFormRepository struct {
	db DB
}

func NewFormRepository(db DB) FormRepository {
	return &PGFormRepository{db: db}
}

func (r *PGFormRepository) GetByID(ctx context.Context, id string) (*domain.Form, error) {
	var (
		f      domain.Form
		fields []byte
	)
	err := r.db.QueryRow(ctx, `SELECT id, title, fields, submit_button_label, confirmation_text, created_at, updated_at
		FROM forms WHERE id = $1`, id).
		Scan(&f.ID, &f.Title, &fields, &f.SubmitButtonLabel, &f.ConfirmationText, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFormNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(fields, &f.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode form fields: %w", err)
	}
	return &f, nil
}

func (r *PGFormRepository) CreateSubmission(ctx context.Context, s *domain.Submission) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	return r.db.QueryRow(ctx, `INSERT INTO form_submissions (id, form_id, submission_data)
		VALUES ($1, $2, $3)
		RETURNING created_at`, s.ID, s.FormID, data).
		Scan(&s.CreatedAt)
}

var _ FormRepository = (*PGFormRepository)(nil)
