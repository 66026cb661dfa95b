package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// CertificateRepository persists certificates that the external rendering
// service reported as issued.
type CertificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository creates a new CertificateRepository.
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

// Insert stores an issued certificate and fills in its ID.
func (r *CertificateRepository) Insert(ctx context.Context, s *model.Sertifikaat) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lms_sertifikate
		     (gebruiker_id, kursus_id, sertifikaat_nommer, sertifikaat_url, uitgereik_op, is_geldig)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		s.GebruikerID, s.KursusID, s.SertifikaatNommer, s.SertifikaatURL,
		s.UitgereikOp, s.IsGeldig,
	).Scan(&s.ID)
}

// ListByUser returns a user's certificates, newest first.
func (r *CertificateRepository) ListByUser(ctx context.Context, gebruikerID uuid.UUID) ([]model.Sertifikaat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, gebruiker_id, kursus_id, sertifikaat_nommer,
		        sertifikaat_url, uitgereik_op, is_geldig
		 FROM lms_sertifikate
		 WHERE gebruiker_id = $1
		 ORDER BY uitgereik_op DESC`, gebruikerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []model.Sertifikaat
	for rows.Next() {
		var s model.Sertifikaat
		if err := rows.Scan(
			&s.ID, &s.GebruikerID, &s.KursusID, &s.SertifikaatNommer,
			&s.SertifikaatURL, &s.UitgereikOp, &s.IsGeldig,
		); err != nil {
			return nil, err
		}
		certs = append(certs, s)
	}
	return certs, rows.Err()
}
