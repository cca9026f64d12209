package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learngate/internal/models"
)

type StudentRepo struct {
	pool *pgxpool.Pool
}

func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

func (r *StudentRepo) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (id, name, email, password_hash, pin_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	s.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		s.ID, s.Name, s.Email, s.PasswordHash, s.PINHash,
	).Scan(&s.CreatedAt)
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, name, email, password_hash, pin_hash, is_blocked, created_at
		FROM students WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.PINHash, &s.IsBlocked, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, name, email, password_hash, pin_hash, is_blocked, created_at
		FROM students WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.PINHash, &s.IsBlocked, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE students SET password_hash = $1 WHERE id = $2", passwordHash, id)
	return err
}

func (r *StudentRepo) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	_, err := r.pool.Exec(ctx, "UPDATE students SET is_blocked = $1 WHERE id = $2", blocked, id)
	return err
}

func (r *StudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, password_hash, pin_hash, is_blocked, created_at
		FROM students ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.PINHash, &s.IsBlocked, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

func (r *StudentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	return count, err
}
