package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerkportaal/lms-backend/internal/model"
)

// UserRepository handles portal user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by UUID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Gebruiker, error) {
	g := &model.Gebruiker{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, naam, van, epos, wagwoord_hash, rol, is_aktief, created_at
		 FROM gebruikers
		 WHERE id = $1`, id,
	).Scan(&g.ID, &g.Naam, &g.Van, &g.Epos, &g.WagwoordHash, &g.Rol, &g.IsAktief, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetByEpos retrieves a user by email address.
func (r *UserRepository) GetByEpos(ctx context.Context, epos string) (*model.Gebruiker, error) {
	g := &model.Gebruiker{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, naam, van, epos, wagwoord_hash, rol, is_aktief, created_at
		 FROM gebruikers
		 WHERE LOWER(epos) = LOWER($1)`, epos,
	).Scan(&g.ID, &g.Naam, &g.Van, &g.Epos, &g.WagwoordHash, &g.Rol, &g.IsAktief, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, g *model.Gebruiker) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO gebruikers (naam, van, epos, wagwoord_hash, rol, is_aktief)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		g.Naam, g.Van, g.Epos, g.WagwoordHash, g.Rol, g.IsAktief,
	).Scan(&g.ID, &g.CreatedAt)
}
