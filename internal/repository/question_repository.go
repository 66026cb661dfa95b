package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// QuestionRepository handles quiz question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByLesson retrieves a lesson's questions in display order, including
// the correct answers. Callers serving the player must strip them.
func (r *QuestionRepository) ListByLesson(ctx context.Context, lesID uuid.UUID) ([]model.Vraag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, les_id, vraag_teks, vraag_tipe, COALESCE(opsies, 'null'::jsonb),
		        COALESCE(korrekte_antwoord, ''), punte, volgorde
		 FROM lms_questions
		 WHERE les_id = $1
		 ORDER BY volgorde ASC`, lesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vrae []model.Vraag
	for rows.Next() {
		var v model.Vraag
		if err := rows.Scan(&v.ID, &v.LesID, &v.VraagTeks, &v.VraagTipe,
			&v.Opsies, &v.KorrekteAntwoord, &v.Punte, &v.Volgorde); err != nil {
			return nil, err
		}
		vrae = append(vrae, v)
	}
	return vrae, rows.Err()
}
