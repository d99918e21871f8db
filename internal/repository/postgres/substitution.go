package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

type substitutionRepository struct {
	db *sql.DB
}

func NewSubstitutionRepository(db *sql.DB) repository.SubstitutionRepository {
	return &substitutionRepository{db: db}
}

const substitutionSelect = `SELECT es.id, es.rental_id, es.sequence, es.old_equipment_name, es.new_equipment_name,
	es.substitution_date, es.reason, es.supplier_responsible, es.renter_notes, es.supplier_notes,
	es.responsibility_shift, es.additional_costs, es.delivery_photos, es.receipt_photos, es.created_at,
	COALESCE(r.supplier_id, ''), COALESCE(s.name, ''), COALESCE(r.equipment_name, '')
	FROM equipment_substitutions es
	LEFT JOIN rentals r ON r.id = es.rental_id
	LEFT JOIN suppliers s ON s.id = r.supplier_id`

func scanSubstitution(row rowScanner) (domain.EquipmentSubstitution, error) {
	var sub domain.EquipmentSubstitution
	err := row.Scan(&sub.ID, &sub.RentalID, &sub.Sequence, &sub.OldEquipmentName, &sub.NewEquipmentName,
		&sub.SubstitutionDate, &sub.Reason, &sub.SupplierResponsible, &sub.RenterNotes, &sub.SupplierNotes,
		&sub.ResponsibilityShift, &sub.AdditionalCosts, pq.Array(&sub.DeliveryPhotos), pq.Array(&sub.ReceiptPhotos),
		&sub.CreatedAt, &sub.SupplierID, &sub.SupplierName, &sub.RentalEquipmentName)
	return sub, err
}

// Append locks the parent rental row so concurrent appends for the same rental queue
// behind each other; UNIQUE (rental_id, sequence) backs this up.
func (r *substitutionRepository) Append(ctx context.Context, sub *domain.EquipmentSubstitution) error {
	logger.DatabaseCall("INSERT", "equipment_substitutions", "rentalID", sub.RentalID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("record substitution", err)
	}
	defer tx.Rollback()

	var rentalID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM rentals WHERE id = $1 FOR UPDATE`, sub.RentalID).Scan(&rentalID)
	if err != nil {
		return getError("rental", sub.RentalID, err)
	}

	var seq int32
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) + 1 FROM equipment_substitutions WHERE rental_id = $1`, sub.RentalID).Scan(&seq)
	if err != nil {
		return mapError("record substitution", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO equipment_substitutions (id, rental_id, sequence, old_equipment_name, new_equipment_name,
	          substitution_date, reason, supplier_responsible, renter_notes, supplier_notes, responsibility_shift,
	          additional_costs, delivery_photos, receipt_photos, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = tx.ExecContext(ctx, query, id, sub.RentalID, seq, sub.OldEquipmentName, sub.NewEquipmentName,
		sub.SubstitutionDate, sub.Reason, sub.SupplierResponsible, sub.RenterNotes, sub.SupplierNotes,
		sub.ResponsibilityShift, sub.AdditionalCosts, pq.Array(orEmpty(sub.DeliveryPhotos)), pq.Array(orEmpty(sub.ReceiptPhotos)),
		sub.CreatedAt)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "rentalID", sub.RentalID)
		return mapError("record substitution", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("record substitution", err)
	}

	sub.ID = id
	sub.Sequence = seq
	logger.DatabaseResult("INSERT", 1, nil, "rentalID", sub.RentalID, "sequence", seq)
	return nil
}

func (r *substitutionRepository) ListByRental(ctx context.Context, rentalID string) ([]domain.EquipmentSubstitution, error) {
	query := substitutionSelect + ` WHERE es.rental_id = $1 ORDER BY es.substitution_date ASC, es.sequence ASC`
	return r.query(ctx, query, rentalID)
}

func (r *substitutionRepository) List(ctx context.Context, filter domain.SubstitutionFilter) ([]domain.EquipmentSubstitution, error) {
	query := substitutionSelect + ` WHERE 1=1`
	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SupplierName != "" {
		query += ` AND s.name ILIKE ` + next(likePattern(filter.SupplierName))
	}
	if filter.Reason != "" {
		query += ` AND es.reason = ` + next(filter.Reason)
	}
	if filter.From != nil {
		query += ` AND es.substitution_date >= ` + next(*filter.From)
	}
	if filter.To != nil {
		query += ` AND es.substitution_date <= ` + next(*filter.To)
	}
	if filter.ResponsibilityShiftOnly {
		query += ` AND es.responsibility_shift = TRUE`
	}
	query += ` ORDER BY es.position ASC`

	return r.query(ctx, query, args...)
}

func (r *substitutionRepository) query(ctx context.Context, query string, args ...any) ([]domain.EquipmentSubstitution, error) {
	logger.DatabaseCall("SELECT", "equipment_substitutions")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, mapError("list substitutions", err)
	}
	defer rows.Close()

	subs := []domain.EquipmentSubstitution{}
	for rows.Next() {
		sub, err := scanSubstitution(rows)
		if err != nil {
			return nil, mapError("list substitutions", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list substitutions", err)
	}
	logger.DatabaseResult("SELECT", int64(len(subs)), nil)
	return subs, nil
}

// orEmpty keeps nil slices from being written as NULL into NOT NULL array columns.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
