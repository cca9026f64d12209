package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learngate/internal/models"
)

type ResourceRepo struct {
	pool *pgxpool.Pool
}

func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

func (r *ResourceRepo) Create(ctx context.Context, res *models.Resource) error {
	query := `
		INSERT INTO resources (id, title, description, type, url, category, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	res.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		res.ID, res.Title, res.Description, res.Type, res.URL, res.Category, res.PageCount,
	).Scan(&res.CreatedAt)
}

func (r *ResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	res := &models.Resource{}
	query := `SELECT id, title, description, type, url, category, page_count, created_at
		FROM resources WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Title, &res.Description, &res.Type, &res.URL, &res.Category, &res.PageCount, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ResourceRepo) Update(ctx context.Context, res *models.Resource) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE resources SET title = $1, description = $2, type = $3, url = $4, category = $5, page_count = $6
		WHERE id = $7`,
		res.Title, res.Description, res.Type, res.URL, res.Category, res.PageCount, res.ID,
	)
	return err
}

func (r *ResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM resources WHERE id = $1", id)
	return err
}

func (r *ResourceRepo) List(ctx context.Context) ([]*models.Resource, error) {
	return r.list(ctx, `SELECT id, title, description, type, url, category, page_count, created_at
		FROM resources ORDER BY created_at DESC`)
}

func (r *ResourceRepo) ListByCategory(ctx context.Context, category string) ([]*models.Resource, error) {
	return r.list(ctx, `SELECT id, title, description, type, url, category, page_count, created_at
		FROM resources WHERE category = $1 ORDER BY created_at DESC`, category)
}

func (r *ResourceRepo) Recent(ctx context.Context, limit int) ([]*models.Resource, error) {
	return r.list(ctx, `SELECT id, title, description, type, url, category, page_count, created_at
		FROM resources ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *ResourceRepo) list(ctx context.Context, query string, args ...any) ([]*models.Resource, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		res := &models.Resource{}
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.Type, &res.URL, &res.Category, &res.PageCount, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}

	return resources, rows.Err()
}

// DistinctCategories returns every category label at least one resource
// references, whether or not a categories row exists for it.
func (r *ResourceRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT category FROM resources")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *ResourceRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM resources").Scan(&count)
	return count, err
}
