package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// CourseRepository handles course, module and lesson data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const kursusColumns = `id, titel, COALESCE(beskrywing, ''), is_gratis, prys,
	is_vbo_geskik, vbo_krediete, duur_minute, is_gepubliseer, is_aktief,
	created_at, updated_at`

func scanKursus(row pgx.Row) (*model.Kursus, error) {
	k := &model.Kursus{}
	err := row.Scan(
		&k.ID, &k.Titel, &k.Beskrywing, &k.IsGratis, &k.Prys,
		&k.IsVBOGeskik, &k.VBOKrediete, &k.DuurMinute, &k.IsGepubliseer,
		&k.IsAktief, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// GetByID retrieves a course record without its content tree, or nil when
// no such course exists.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Kursus, error) {
	k, err := scanKursus(r.pool.QueryRow(ctx,
		`SELECT `+kursusColumns+` FROM lms_kursusse WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return k, err
}

// ListPublished retrieves all published, active courses for the catalog.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]model.Kursus, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+kursusColumns+`
		 FROM lms_kursusse
		 WHERE is_gepubliseer AND is_aktief
		 ORDER BY titel ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kursusse []model.Kursus
	for rows.Next() {
		k, err := scanKursus(rows)
		if err != nil {
			return nil, err
		}
		kursusse = append(kursusse, *k)
	}
	return kursusse, rows.Err()
}

// GetWithContent retrieves a course with its active modules and lessons,
// both ordered by volgorde. This is the tree the player navigates.
func (r *CourseRepository) GetWithContent(ctx context.Context, id uuid.UUID) (*model.Kursus, error) {
	kursus, err := r.GetByID(ctx, id)
	if err != nil || kursus == nil {
		return nil, err
	}

	modRows, err := r.pool.Query(ctx,
		`SELECT id, kursus_id, titel, volgorde, is_aktief
		 FROM lms_modules
		 WHERE kursus_id = $1 AND is_aktief
		 ORDER BY volgorde ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer modRows.Close()

	moduleIndex := make(map[uuid.UUID]int)
	for modRows.Next() {
		var m model.Module
		if err := modRows.Scan(&m.ID, &m.KursusID, &m.Titel, &m.Volgorde, &m.IsAktief); err != nil {
			return nil, err
		}
		moduleIndex[m.ID] = len(kursus.Modules)
		kursus.Modules = append(kursus.Modules, m)
	}
	if err := modRows.Err(); err != nil {
		return nil, err
	}

	lesRows, err := r.pool.Query(ctx,
		`SELECT l.id, l.module_id, l.kursus_id, l.titel, l.tipe,
		        COALESCE(l.inhoud, ''), COALESCE(l.video_url, ''),
		        l.duur_minute, l.volgorde, l.is_aktief,
		        l.slaag_persentasie, COALESCE(l.maksimum_punte, 0)
		 FROM lms_lesse l
		 JOIN lms_modules m ON l.module_id = m.id
		 WHERE l.kursus_id = $1 AND l.is_aktief AND m.is_aktief
		 ORDER BY m.volgorde ASC, l.volgorde ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer lesRows.Close()

	for lesRows.Next() {
		les, err := scanLes(lesRows)
		if err != nil {
			return nil, err
		}
		idx, ok := moduleIndex[les.ModuleID]
		if !ok {
			continue
		}
		kursus.Modules[idx].Lesse = append(kursus.Modules[idx].Lesse, *les)
	}
	return kursus, lesRows.Err()
}

// SetPublished flips a course's publish flag.
func (r *CourseRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE lms_kursusse SET is_gepubliseer = $1, updated_at = NOW() WHERE id = $2`,
		published, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// scanLes builds the typed lesson union from the flat row.
func scanLes(row pgx.Row) (*model.Les, error) {
	var (
		les              model.Les
		inhoud, videoURL string
		slaagPersentasie float64
		maksimumPunte    int
	)
	err := row.Scan(
		&les.ID, &les.ModuleID, &les.KursusID, &les.Titel, &les.Tipe,
		&inhoud, &videoURL, &les.DuurMinute, &les.Volgorde, &les.IsAktief,
		&slaagPersentasie, &maksimumPunte,
	)
	if err != nil {
		return nil, err
	}

	switch les.Tipe {
	case model.LesTipeVideo:
		les.Detail = model.VideoDetail{VideoURL: videoURL, Inhoud: inhoud}
	case model.LesTipeToets:
		les.Detail = model.ToetsDetail{SlaagPersentasie: slaagPersentasie}
	case model.LesTipeEksamen:
		les.Detail = model.ToetsDetail{SlaagPersentasie: slaagPersentasie, IsEksamen: true}
	case model.LesTipeOpdrag:
		les.Detail = model.OpdragDetail{Inhoud: inhoud, MaksimumPunte: maksimumPunte}
	default:
		les.Detail = model.TeksDetail{Inhoud: inhoud}
	}
	return &les, nil
}
