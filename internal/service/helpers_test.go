package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/repository"
	"rental-tracker-backend/internal/repository/memory"
)

func fixedClock(s string) Clock {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ClockFunc(func() time.Time { return t })
}

type fixture struct {
	store         *repository.Store
	suppliers     *SupplierService
	rentals       *RentalService
	substitutions *SubstitutionService
	inventory     *InventoryService
	dashboard     *DashboardService
}

func newFixture(t *testing.T, now string) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := fixedClock(now)
	rentals := NewRentalService(store.Rentals, store.Suppliers, domain.PermissivePolicy{}, clock)
	inventory := NewInventoryService(store.Products, store.Categories, clock)
	return &fixture{
		store:         store,
		suppliers:     NewSupplierService(store.Suppliers, clock),
		rentals:       rentals,
		substitutions: NewSubstitutionService(store.Rentals, store.Substitutions, nil, clock),
		inventory:     inventory,
		dashboard:     NewDashboardService(rentals, inventory),
	}
}

func (f *fixture) supplier(t *testing.T, name string) *domain.Supplier {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), domain.SupplierDraft{Name: name, Email: "ops@example.com"})
	require.NoError(t, err)
	return s
}

func rentalDraft(supplierID, start, end string, status domain.RentalStatus, total int64) domain.RentalDraft {
	return domain.RentalDraft{
		SupplierID:    supplierID,
		EquipmentName: "Excavator",
		StartDate:     domain.MustParseDate(start),
		EndDate:       domain.MustParseDate(end),
		DailyRate:     decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(total),
		Status:        status,
	}
}

// mockRentalRepo lets tests inject storage failures.
type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) Create(ctx context.Context, r *domain.Rental) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) List(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) ListOverdue(ctx context.Context, today domain.Date) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) Update(ctx context.Context, r *domain.Rental) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRentalRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
