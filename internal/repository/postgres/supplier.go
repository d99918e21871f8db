package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/repository"
)

type supplierRepository struct {
	db *sql.DB
}

func NewSupplierRepository(db *sql.DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, name, email, phone, address, document, created_at`

func scanSupplier(row rowScanner) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.Document, &s.CreatedAt)
	return s, err
}

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	s.ID = uuid.NewString()
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Email, s.Phone, s.Address, s.Document, s.CreatedAt); err != nil {
		return mapError("create supplier", err)
	}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, getError("supplier", id, err)
	}
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list suppliers", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, mapError("list suppliers", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list suppliers", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	query := `UPDATE suppliers SET name=$1, email=$2, phone=$3, address=$4, document=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Email, s.Phone, s.Address, s.Document, s.ID)
	if err != nil {
		return mapError("update supplier", err)
	}
	return checkAffected(res, "supplier", s.ID)
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return mapError("delete supplier", err)
	}
	return checkAffected(res, "supplier", id)
}

func (r *supplierRepository) CountOpenRentals(ctx context.Context, supplierID string) (int, error) {
	query := `SELECT COUNT(*) FROM rentals WHERE supplier_id = $1 AND status IN ('pending', 'active')`
	var n int
	if err := r.db.QueryRowContext(ctx, query, supplierID).Scan(&n); err != nil {
		return 0, mapError("count supplier rentals", err)
	}
	return n, nil
}
