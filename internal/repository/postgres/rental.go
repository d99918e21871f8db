package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalSelect = `SELECT r.id, r.supplier_id, COALESCE(s.name, ''), COALESCE(s.email, ''), COALESCE(s.phone, ''),
	r.equipment_name, r.equipment_type, r.quantity, r.start_date, r.end_date, r.rental_period,
	r.daily_rate, r.total_amount, r.status, r.notes, r.created_at, r.updated_at
	FROM rentals r LEFT JOIN suppliers s ON s.id = r.supplier_id`

func scanRental(row rowScanner) (domain.Rental, error) {
	var rt domain.Rental
	err := row.Scan(&rt.ID, &rt.SupplierID, &rt.SupplierName, &rt.SupplierEmail, &rt.SupplierPhone,
		&rt.EquipmentName, &rt.EquipmentType, &rt.Quantity, &rt.StartDate, &rt.EndDate, &rt.RentalPeriod,
		&rt.DailyRate, &rt.TotalAmount, &rt.Status, &rt.Notes, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	rt.ID = uuid.NewString()
	query := `INSERT INTO rentals (id, supplier_id, equipment_name, equipment_type, quantity, start_date, end_date,
	          rental_period, daily_rate, total_amount, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	logger.DatabaseCall("INSERT", "rentals", "rentalID", rt.ID)
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.SupplierID, rt.EquipmentName, rt.EquipmentType, rt.Quantity,
		rt.StartDate, rt.EndDate, rt.RentalPeriod, rt.DailyRate, rt.TotalAmount, rt.Status, rt.Notes,
		rt.CreatedAt, rt.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	if err != nil {
		return mapError("create rental", err)
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, rentalSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, getError("rental", id, err)
	}
	return &rt, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	return r.query(ctx, "list rentals", rentalSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.query(ctx, "list rentals", rentalSelect+` WHERE r.status = $1 ORDER BY r.created_at DESC, r.id DESC`, status)
}

func (r *rentalRepository) ListOverdue(ctx context.Context, today domain.Date) ([]domain.Rental, error) {
	query := rentalSelect + ` WHERE r.status = $1 AND r.end_date < $2 ORDER BY r.end_date ASC`
	return r.query(ctx, "list overdue rentals", query, domain.RentalStatusActive, today)
}

func (r *rentalRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Rental, error) {
	logger.DatabaseCall("SELECT", "rentals JOIN suppliers", "op", op)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "op", op)
		return nil, mapError(op, err)
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		rentals = append(rentals, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	logger.DatabaseResult("SELECT", int64(len(rentals)), nil, "op", op)
	return rentals, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET supplier_id=$1, equipment_name=$2, equipment_type=$3, quantity=$4, start_date=$5,
	          end_date=$6, rental_period=$7, daily_rate=$8, total_amount=$9, status=$10, notes=$11, updated_at=$12
	          WHERE id=$13`
	res, err := r.db.ExecContext(ctx, query, rt.SupplierID, rt.EquipmentName, rt.EquipmentType, rt.Quantity,
		rt.StartDate, rt.EndDate, rt.RentalPeriod, rt.DailyRate, rt.TotalAmount, rt.Status, rt.Notes,
		rt.UpdatedAt, rt.ID)
	if err != nil {
		return mapError("update rental", err)
	}
	return checkAffected(res, "rental", rt.ID)
}

func (r *rentalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return mapError("delete rental", err)
	}
	return checkAffected(res, "rental", id)
}
