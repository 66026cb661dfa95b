package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// QuizAttemptRepository persists graded quiz attempts. Attempts are
// append-only; a retake inserts a new row.
type QuizAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewQuizAttemptRepository creates a new QuizAttemptRepository.
func NewQuizAttemptRepository(pool *pgxpool.Pool) *QuizAttemptRepository {
	return &QuizAttemptRepository{pool: pool}
}

// Insert stores a graded attempt and fills in its ID and timestamp.
func (r *QuizAttemptRepository) Insert(ctx context.Context, a *model.QuizAttempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lms_quiz_attempts
		     (gebruiker_id, les_id, antwoorde, telling, maksimum_punte, persentasie, geslaag)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, voltooi_op`,
		a.GebruikerID, a.LesID, a.Antwoorde, a.Telling, a.MaksimumPunte,
		a.Persentasie, a.Geslaag,
	).Scan(&a.ID, &a.VoltooiOp)
}

// LatestByUserAndLesson returns the most recent attempt for a (user,
// lesson) pair, or nil when the user has never attempted the quiz.
func (r *QuizAttemptRepository) LatestByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.QuizAttempt, error) {
	a := &model.QuizAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, gebruiker_id, les_id, antwoorde, telling, maksimum_punte,
		        persentasie, geslaag, voltooi_op
		 FROM lms_quiz_attempts
		 WHERE gebruiker_id = $1 AND les_id = $2
		 ORDER BY voltooi_op DESC
		 LIMIT 1`, gebruikerID, lesID,
	).Scan(
		&a.ID, &a.GebruikerID, &a.LesID, &a.Antwoorde, &a.Telling,
		&a.MaksimumPunte, &a.Persentasie, &a.Geslaag, &a.VoltooiOp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
