package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-tracker-backend/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var rentalCols = []string{"id", "supplier_id", "supplier_name", "supplier_email", "supplier_phone",
	"equipment_name", "equipment_type", "quantity", "start_date", "end_date", "rental_period",
	"daily_rate", "total_amount", "status", "notes", "created_at", "updated_at"}

var substitutionCols = []string{"id", "rental_id", "sequence", "old_equipment_name", "new_equipment_name",
	"substitution_date", "reason", "supplier_responsible", "renter_notes", "supplier_notes",
	"responsibility_shift", "additional_costs", "delivery_photos", "receipt_photos", "created_at",
	"supplier_id", "supplier_name", "rental_equipment_name"}

func TestSupplierRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSupplierRepository(db)
	ctx := context.Background()

	t.Run("Create Assigns ID", func(t *testing.T) {
		s := &domain.Supplier{Name: "Acme", Email: "ops@acme.com", CreatedAt: time.Now()}
		mock.ExpectExec("INSERT INTO suppliers").
			WithArgs(sqlmock.AnyArg(), "Acme", "ops@acme.com", "", "", "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, s))
		assert.Len(t, s.ID, 36)
	})

	t.Run("GetByID Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM suppliers WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Update Unknown", func(t *testing.T) {
		mock.ExpectExec("UPDATE suppliers SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &domain.Supplier{ID: "nope", Name: "x", Email: "x@y.z"})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("CountOpenRentals", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals WHERE supplier_id = \\$1 AND status IN").
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		n, err := repo.CountOpenRentals(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Errors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("Duplicate Code", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "products_code_key"})

		err := repo.Create(ctx, &domain.InventoryItem{Code: "EXC-1", Name: "Bucket"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("Unknown Category", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnError(&pq.Error{Code: foreignKeyViolation})

		err := repo.Create(ctx, &domain.InventoryItem{Code: "EXC-2", Name: "Bucket"})
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, domain.ErrValidation, de.Kind)
		assert.Equal(t, "category_id", de.Field)
	})

	t.Run("Driver Failure Is Generic", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products p LEFT JOIN categories c").
			WillReturnError(errors.New("connection refused"))

		_, err := repo.List(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrStorage))
		assert.NotContains(t, err.Error(), "connection refused")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListDerivesLowStock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM products p LEFT JOIN categories c ON c.id = p.category_id ORDER BY p.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "category_id", "category_name",
			"unit_price", "quantity", "min_stock", "is_rentable", "created_at"}).
			AddRow("p1", "A", "Auger", "", nil, "", "10.00", 5, 5, true, now).
			AddRow("p2", "B", "Breaker", "", "c1", "Demolition", "25.50", 9, 2, false, now))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsLowStock)
	assert.Nil(t, items[0].CategoryID)
	assert.False(t, items[1].IsLowStock)
	require.NotNil(t, items[1].CategoryID)
	assert.Equal(t, "c1", *items[1].CategoryID)
	assert.True(t, decimal.RequireFromString("25.5").Equal(items[1].UnitPrice))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListOverdue(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentalRepository(db)
	today := domain.MustParseDate("2024-01-15")
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM rentals r LEFT JOIN suppliers s ON s.id = r.supplier_id WHERE r.status = \\$1 AND r.end_date < \\$2 ORDER BY r.end_date ASC").
		WithArgs("active", "2024-01-15").
		WillReturnRows(sqlmock.NewRows(rentalCols).
			AddRow("r1", "s1", "Acme", "ops@acme.com", "", "Crane", "", 1,
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				"daily", "100.00", "900.00", "active", "", now, now))

	rentals, err := repo.ListOverdue(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, "Acme", rentals[0].SupplierName)
	assert.Equal(t, "2024-01-10", rentals[0].EndDate.String())
	assert.Equal(t, domain.RentalStatusActive, rentals[0].Status)
	assert.True(t, decimal.NewFromInt(900).Equal(rentals[0].TotalAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM rentals r LEFT JOIN suppliers s ON s.id = r.supplier_id ORDER BY r.created_at DESC, r.id DESC").
		WillReturnRows(sqlmock.NewRows(rentalCols))
	mock.ExpectQuery("WHERE r.status = \\$1 ORDER BY r.created_at DESC, r.id DESC").
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(rentalCols))

	_, err := repo.List(context.Background())
	require.NoError(t, err)
	_, err = repo.ListByStatus(context.Background(), domain.RentalStatusPending)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentalRepository(db)

	mock.ExpectExec("DELETE FROM rentals WHERE id = \\$1").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM rentals WHERE id = \\$1").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "r1"))
	assert.True(t, errors.Is(repo.Delete(context.Background(), "r1"), domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepository_Append(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSubstitutionRepository(db)
	ctx := context.Background()

	t.Run("Assigns Next Sequence", func(t *testing.T) {
		sub := &domain.EquipmentSubstitution{
			RentalID:            "r1",
			OldEquipmentName:    "Pump A",
			NewEquipmentName:    "Pump B",
			SubstitutionDate:    time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
			Reason:              domain.ReasonDefect,
			SupplierResponsible: "Maria",
		}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) \\+ 1 FROM equipment_substitutions WHERE rental_id = \\$1").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(3))
		mock.ExpectExec("INSERT INTO equipment_substitutions").
			WithArgs(sqlmock.AnyArg(), "r1", 3, "Pump A", "Pump B", sqlmock.AnyArg(), "defect", "Maria", "", "",
				false, nil, "{}", "{}", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Append(ctx, sub))
		assert.Equal(t, int32(3), sub.Sequence)
		assert.NotEmpty(t, sub.ID)
	})

	t.Run("Unknown Rental", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM rentals WHERE id = \\$1 FOR UPDATE").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Append(ctx, &domain.EquipmentSubstitution{RentalID: "ghost"})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Sequence Race Surfaces As Conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
		mock.ExpectExec("INSERT INTO equipment_substitutions").
			WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "equipment_substitutions_rental_id_sequence_key"})
		mock.ExpectRollback()

		err := repo.Append(ctx, &domain.EquipmentSubstitution{RentalID: "r1"})
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepository_ListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSubstitutionRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	filter := domain.SubstitutionFilter{
		SupplierName:            "50%_off",
		Reason:                  domain.ReasonDamage,
		From:                    &from,
		To:                      &to,
		ResponsibilityShiftOnly: true,
	}

	mock.ExpectQuery("WHERE 1=1 AND s.name ILIKE \\$1 AND es.reason = \\$2 AND es.substitution_date >= \\$3 AND es.substitution_date <= \\$4 AND es.responsibility_shift = TRUE ORDER BY es.position ASC").
		WithArgs(`%50\%\_off%`, "damage", from, to).
		WillReturnRows(sqlmock.NewRows(substitutionCols).
			AddRow("e1", "r1", 1, "Pump A", "Pump B", from, "damage", "Maria", "", "", true, "35.00",
				"{a.jpg,b.jpg}", "{}", from, "s1", "50%_off Rentals", "Pump A"))

	subs, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, subs[0].DeliveryPhotos)
	assert.Empty(t, subs[0].ReceiptPhotos)
	assert.True(t, subs[0].AdditionalCosts.Valid)
	assert.Equal(t, "50%_off Rentals", subs[0].SupplierName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepository_ListNoFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSubstitutionRepository(db)

	mock.ExpectQuery("WHERE 1=1 ORDER BY es.position ASC").
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(substitutionCols))

	subs, err := repo.List(context.Background(), domain.SubstitutionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS suppliers").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.Contains(t, schema, "UNIQUE (rental_id, sequence)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern("acme"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
