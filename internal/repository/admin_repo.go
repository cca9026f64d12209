package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learngate/internal/models"
)

type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) Create(ctx context.Context, a *models.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	a.ID = uuid.New()

	return r.pool.QueryRow(ctx, query, a.ID, a.Email, a.PasswordHash).Scan(&a.CreatedAt)
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	a := &models.Admin{}
	query := `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	a := &models.Admin{}
	query := `SELECT id, email, password_hash, created_at FROM admins WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count)
	return count, err
}
