package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.NewString()
	query := `INSERT INTO categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt); err != nil {
		return mapError("create category", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c := &domain.Category{}
	query := `SELECT id, name, description, created_at FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, getError("category", id, err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, mapError("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name=$1, description=$2 WHERE id=$3`, c.Name, c.Description, c.ID)
	if err != nil {
		return mapError("update category", err)
	}
	return checkAffected(res, "category", c.ID)
}

// Delete relies on ON DELETE SET NULL to detach products.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	return checkAffected(res, "category", id)
}
