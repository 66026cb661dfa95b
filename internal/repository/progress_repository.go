package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// ProgressRepository handles per-user, per-lesson progress records.
// Every write is an upsert keyed on (gebruiker_id, les_id); insert-then-check
// is never used, so at most one row can exist per key.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

const vorderingColumns = `id, gebruiker_id, kursus_id, les_id, status,
	toets_geslaag, video_posisie, video_duur, last_accessed_at,
	voltooi_datum, updated_at`

func scanVordering(row pgx.Row) (*model.Vordering, error) {
	v := &model.Vordering{}
	err := row.Scan(
		&v.ID, &v.GebruikerID, &v.KursusID, &v.LesID, &v.Status,
		&v.ToetsGeslaag, &v.VideoPosisie, &v.VideoDuur, &v.LastAccessedAt,
		&v.VoltooiDatum, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetByUserAndLesson retrieves the progress record for a (user, lesson)
// pair, or nil when none exists yet.
func (r *ProgressRepository) GetByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.Vordering, error) {
	v, err := scanVordering(r.pool.QueryRow(ctx,
		`SELECT `+vorderingColumns+`
		 FROM lms_vordering
		 WHERE gebruiker_id = $1 AND les_id = $2`, gebruikerID, lesID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// ListByUserAndCourse retrieves all progress records for a user within a course.
func (r *ProgressRepository) ListByUserAndCourse(ctx context.Context, gebruikerID, kursusID uuid.UUID) ([]model.Vordering, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vorderingColumns+`
		 FROM lms_vordering
		 WHERE gebruiker_id = $1 AND kursus_id = $2`, gebruikerID, kursusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Vordering
	for rows.Next() {
		v, err := scanVordering(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *v)
	}
	return records, rows.Err()
}

// TouchAccess records that the user opened a lesson: creates the record in
// 'begin' status if absent, otherwise only bumps last_accessed_at. The
// status of an existing record is never changed here.
func (r *ProgressRepository) TouchAccess(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO lms_vordering (gebruiker_id, kursus_id, les_id, status, last_accessed_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 ON CONFLICT (gebruiker_id, les_id) DO UPDATE
		 SET last_accessed_at = NOW(), updated_at = NOW()`,
		gebruikerID, kursusID, lesID, model.VorderingBegin)
	return err
}

// SaveCheckpoint upserts a single video playback position. A record that
// already reached 'voltooi' is left untouched so a checkpoint racing a
// completion cannot downgrade it.
func (r *ProgressRepository) SaveCheckpoint(ctx context.Context, cp model.VideoCheckpoint) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO lms_vordering
		     (gebruiker_id, kursus_id, les_id, status, video_posisie, video_duur, last_accessed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 ON CONFLICT (gebruiker_id, les_id) DO UPDATE
		 SET status        = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.status ELSE EXCLUDED.status END,
		     video_posisie = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.video_posisie ELSE EXCLUDED.video_posisie END,
		     video_duur    = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.video_duur ELSE EXCLUDED.video_duur END,
		     last_accessed_at = NOW(),
		     updated_at       = NOW()`,
		cp.GebruikerID, cp.KursusID, cp.LesID, model.VorderingInProgres, cp.Posisie, cp.Duur)
	return err
}

// BatchSaveCheckpoints upserts many checkpoints in one statement via
// UNNEST. The slice must not contain two entries for the same
// (gebruiker_id, les_id) key; the worker deduplicates before calling.
func (r *ProgressRepository) BatchSaveCheckpoints(ctx context.Context, cps []model.VideoCheckpoint) error {
	if len(cps) == 0 {
		return nil
	}

	gebruikerIDs := make([]uuid.UUID, len(cps))
	kursusIDs := make([]uuid.UUID, len(cps))
	lesIDs := make([]uuid.UUID, len(cps))
	posisies := make([]int, len(cps))
	dure := make([]int, len(cps))
	for i, cp := range cps {
		gebruikerIDs[i] = cp.GebruikerID
		kursusIDs[i] = cp.KursusID
		lesIDs[i] = cp.LesID
		posisies[i] = cp.Posisie
		dure[i] = cp.Duur
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO lms_vordering
		     (gebruiker_id, kursus_id, les_id, status, video_posisie, video_duur, last_accessed_at, updated_at)
		 SELECT g, k, l, $6, p, d, NOW(), NOW()
		 FROM UNNEST($1::uuid[], $2::uuid[], $3::uuid[], $4::int[], $5::int[]) AS t(g, k, l, p, d)
		 ON CONFLICT (gebruiker_id, les_id) DO UPDATE
		 SET status        = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.status ELSE EXCLUDED.status END,
		     video_posisie = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.video_posisie ELSE EXCLUDED.video_posisie END,
		     video_duur    = CASE WHEN lms_vordering.status = 'voltooi' THEN lms_vordering.video_duur ELSE EXCLUDED.video_duur END,
		     last_accessed_at = NOW(),
		     updated_at       = NOW()`,
		gebruikerIDs, kursusIDs, lesIDs, posisies, dure, model.VorderingInProgres)
	return err
}

// MarkComplete upserts the record into 'voltooi' status. The completion
// timestamp is set once and kept on repeat calls, and video position is
// never moved backwards, so a stale checkpoint arriving later cannot
// undo a completion.
func (r *ProgressRepository) MarkComplete(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID, toetsGeslaag *bool, videoDuur int) (*model.Vordering, error) {
	return scanVordering(r.pool.QueryRow(ctx,
		`INSERT INTO lms_vordering
		     (gebruiker_id, kursus_id, les_id, status, toets_geslaag,
		      video_posisie, video_duur, voltooi_datum, last_accessed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6, NOW(), NOW(), NOW())
		 ON CONFLICT (gebruiker_id, les_id) DO UPDATE
		 SET status          = $4,
		     toets_geslaag   = COALESCE(EXCLUDED.toets_geslaag, lms_vordering.toets_geslaag),
		     video_posisie   = GREATEST(lms_vordering.video_posisie, EXCLUDED.video_posisie),
		     video_duur      = GREATEST(lms_vordering.video_duur, EXCLUDED.video_duur),
		     voltooi_datum   = COALESCE(lms_vordering.voltooi_datum, EXCLUDED.voltooi_datum),
		     last_accessed_at = NOW(),
		     updated_at      = NOW()
		 RETURNING `+vorderingColumns,
		gebruikerID, kursusID, lesID, model.VorderingVoltooi, toetsGeslaag, videoDuur))
}
