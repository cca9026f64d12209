package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learngate/internal/models"
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, name, password)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING created_at`

	c.ID = uuid.New()

	return r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Password).Scan(&c.CreatedAt)
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{}
	var password sql.NullString

	query := `SELECT id, name, password, created_at FROM categories WHERE name = $1`
	err := r.pool.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &password, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	c.Password = password.String
	return c, nil
}

func (r *CategoryRepo) SetPassword(ctx context.Context, name, password string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE categories SET password = NULLIF($1, '') WHERE name = $2", password, name)
	return err
}

// ProtectedNames filters the given category names down to those with a
// password set.
func (r *CategoryRepo) ProtectedNames(ctx context.Context, names []string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name FROM categories WHERE name = ANY($1) AND COALESCE(password, '') <> ''`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	protected := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		protected = append(protected, name)
	}

	return protected, rows.Err()
}
