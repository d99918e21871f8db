package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `SELECT p.id, p.code, p.name, p.description, p.category_id, COALESCE(c.name, ''),
	p.unit_price, p.quantity, p.min_stock, p.is_rentable, p.created_at
	FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row rowScanner) (domain.InventoryItem, error) {
	var (
		item       domain.InventoryItem
		categoryID sql.NullString
	)
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Description, &categoryID, &item.CategoryName,
		&item.UnitPrice, &item.Quantity, &item.MinStock, &item.IsRentable, &item.CreatedAt)
	if err != nil {
		return item, err
	}
	if categoryID.Valid {
		item.CategoryID = &categoryID.String
	}
	item.Derive()
	return item, nil
}

// writeError gives code and category failures product-specific messages.
func writeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return domain.NewConflictError("a product with this code already exists")
		case foreignKeyViolation:
			return domain.NewValidationError("category_id", "category does not exist")
		}
	}
	return mapError(op, err)
}

func (r *productRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	item.ID = uuid.NewString()
	query := `INSERT INTO products (id, code, name, description, category_id, unit_price, quantity, min_stock, is_rentable, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, item.ID, item.Code, item.Name, item.Description, item.CategoryID,
		item.UnitPrice, item.Quantity, item.MinStock, item.IsRentable, item.CreatedAt)
	if err != nil {
		return writeError("create product", err)
	}
	item.Derive()
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, getError("product", id, err)
	}
	return &item, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	logger.DatabaseCall("SELECT", "products JOIN categories")
	rows, err := r.db.QueryContext(ctx, productSelect+` ORDER BY p.name`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("list products", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}
	logger.DatabaseResult("SELECT", int64(len(items)), nil)
	return items, nil
}

func (r *productRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	query := `UPDATE products SET code=$1, name=$2, description=$3, category_id=$4, unit_price=$5,
	          quantity=$6, min_stock=$7, is_rentable=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, item.Code, item.Name, item.Description, item.CategoryID,
		item.UnitPrice, item.Quantity, item.MinStock, item.IsRentable, item.ID)
	if err != nil {
		return writeError("update product", err)
	}
	if err := checkAffected(res, "product", item.ID); err != nil {
		return err
	}
	item.Derive()
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	return checkAffected(res, "product", id)
}
