package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// ErrGrantExists is returned by InsertGrant when a credit entry for the
// same (predikant, kursus, jaar) already exists.
var ErrGrantExists = errors.New("vbo grant already exists")

// CredentialRepository persists VBO credit entries. The unique index on
// (predikant_id, kursus_id, jaar) is the hard idempotency boundary; the
// service's pre-check only avoids the common-case round trip.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

const vboColumns = `id, predikant_id, kursus_id, jaar, krediete, status,
	is_outomaties, aktiwiteit_titel, notas, goedgekeur_op, created_at`

func scanVBO(row pgx.Row) (*model.VBOIndiening, error) {
	v := &model.VBOIndiening{}
	err := row.Scan(
		&v.ID, &v.PredikantID, &v.KursusID, &v.Jaar, &v.Krediete, &v.Status,
		&v.IsOutomaties, &v.AktiwiteitTitel, &v.Notas, &v.GoedgekeurOp,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// FindGrant returns the credit entry for (predikant, kursus, jaar), or nil
// when none exists.
func (r *CredentialRepository) FindGrant(ctx context.Context, predikantID, kursusID uuid.UUID, jaar int) (*model.VBOIndiening, error) {
	v, err := scanVBO(r.pool.QueryRow(ctx,
		`SELECT `+vboColumns+`
		 FROM vbo_indienings
		 WHERE predikant_id = $1 AND kursus_id = $2 AND jaar = $3`,
		predikantID, kursusID, jaar))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// InsertGrant inserts an automatic credit entry. When a concurrent insert
// won the race the conflict is swallowed by the database and ErrGrantExists
// is returned so callers treat it as already granted.
func (r *CredentialRepository) InsertGrant(ctx context.Context, v *model.VBOIndiening) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO vbo_indienings
		     (predikant_id, kursus_id, jaar, krediete, status, is_outomaties,
		      aktiwiteit_titel, notas, goedgekeur_op)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (predikant_id, kursus_id, jaar) DO NOTHING`,
		v.PredikantID, v.KursusID, v.Jaar, v.Krediete, v.Status,
		v.IsOutomaties, v.AktiwiteitTitel, v.Notas)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGrantExists
	}
	return nil
}

// ListByPredikant returns all credit entries for a minister, newest first.
func (r *CredentialRepository) ListByPredikant(ctx context.Context, predikantID uuid.UUID) ([]model.VBOIndiening, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vboColumns+`
		 FROM vbo_indienings
		 WHERE predikant_id = $1
		 ORDER BY created_at DESC`, predikantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.VBOIndiening
	for rows.Next() {
		v, err := scanVBO(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *v)
	}
	return entries, rows.Err()
}

// ListRecent returns the most recent credit entries across all ministers,
// newest first, capped at limit.
func (r *CredentialRepository) ListRecent(ctx context.Context, limit int) ([]model.VBOIndiening, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vboColumns+`
		 FROM vbo_indienings
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.VBOIndiening
	for rows.Next() {
		v, err := scanVBO(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *v)
	}
	return entries, rows.Err()
}

// SummaryByYear aggregates a minister's approved credits per year.
func (r *CredentialRepository) SummaryByYear(ctx context.Context, predikantID uuid.UUID) ([]model.VBOJaarOpsomming, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT jaar, COALESCE(SUM(krediete), 0), COUNT(*)
		 FROM vbo_indienings
		 WHERE predikant_id = $1 AND status = $2
		 GROUP BY jaar
		 ORDER BY jaar DESC`, predikantID, model.VBOStatusGoedgekeur)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.VBOJaarOpsomming
	for rows.Next() {
		var s model.VBOJaarOpsomming
		if err := rows.Scan(&s.Jaar, &s.TotaleKrediete, &s.Indienings); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
