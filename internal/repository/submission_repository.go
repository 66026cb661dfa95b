package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// SubmissionRepository persists assignment submissions. One row per
// (gebruiker_id, les_id); resubmitting replaces the content in place and
// resets the grading state.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const indieningColumns = `id, gebruiker_id, les_id, teks_antwoord, leer_url,
	leernaam, status, punt, maksimum_punte, terugvoer, ingedien_op, gemerk_op`

func scanIndiening(row pgx.Row) (*model.Indiening, error) {
	s := &model.Indiening{}
	err := row.Scan(
		&s.ID, &s.GebruikerID, &s.LesID, &s.TeksAntwoord, &s.LeerURL,
		&s.Leernaam, &s.Status, &s.Punt, &s.MaksimumPunte, &s.Terugvoer,
		&s.IngedienOp, &s.GemerkOp,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByUserAndLesson returns the submission for a (user, lesson) pair, or
// nil when the user has not submitted.
func (r *SubmissionRepository) GetByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Indiening, error) {
	s, err := scanIndiening(r.pool.QueryRow(ctx,
		`SELECT `+indieningColumns+`
		 FROM lms_submissions
		 WHERE gebruiker_id = $1 AND les_id = $2`, gebruikerID, lesID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// Upsert writes a submission. A resubmission keeps the row identity and
// any earlier feedback, but the grading state goes back to 'ingedien'
// and the mark is cleared, since the new content has not been graded.
func (r *SubmissionRepository) Upsert(ctx context.Context, s *model.Indiening) (*model.Indiening, error) {
	return scanIndiening(r.pool.QueryRow(ctx,
		`INSERT INTO lms_submissions
		     (gebruiker_id, les_id, teks_antwoord, leer_url, leernaam,
		      status, maksimum_punte, ingedien_op)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (gebruiker_id, les_id) DO UPDATE
		 SET teks_antwoord = EXCLUDED.teks_antwoord,
		     leer_url      = EXCLUDED.leer_url,
		     leernaam      = EXCLUDED.leernaam,
		     status        = EXCLUDED.status,
		     punt          = NULL,
		     gemerk_op     = NULL,
		     ingedien_op   = NOW()
		 RETURNING `+indieningColumns,
		s.GebruikerID, s.LesID, s.TeksAntwoord, s.LeerURL, s.Leernaam,
		model.IndieningIngedien, s.MaksimumPunte))
}
