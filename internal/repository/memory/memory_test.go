package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-tracker-backend/internal/domain"
)

func seedRental(t *testing.T, store interface {
	Create(context.Context, *domain.Rental) error
}, supplierID, end string, status domain.RentalStatus, created time.Time) *domain.Rental {
	t.Helper()
	rt := &domain.Rental{
		SupplierID:    supplierID,
		EquipmentName: "Crane " + end,
		Quantity:      1,
		StartDate:     domain.MustParseDate("2024-01-01"),
		EndDate:       domain.MustParseDate(end),
		Status:        status,
		CreatedAt:     created,
	}
	require.NoError(t, store.Create(context.Background(), rt))
	return rt
}

func TestRentalRepository_Ordering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	sup := &domain.Supplier{Name: "Acme", Email: "ops@acme.com"}
	require.NoError(t, store.Suppliers.Create(ctx, sup))

	a := seedRental(t, store.Rentals, sup.ID, "2024-01-12", domain.RentalStatusActive, base)
	b := seedRental(t, store.Rentals, sup.ID, "2024-01-05", domain.RentalStatusActive, base.Add(time.Hour))
	c := seedRental(t, store.Rentals, sup.ID, "2024-01-20", domain.RentalStatusActive, base.Add(2*time.Hour))
	seedRental(t, store.Rentals, sup.ID, "2024-01-03", domain.RentalStatusCompleted, base.Add(3*time.Hour))

	all, err := store.Rentals.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, c.ID, all[1].ID, "newest first")
	assert.Equal(t, a.ID, all[3].ID)
	assert.Equal(t, "Acme", all[0].SupplierName)

	overdue, err := store.Rentals.ListOverdue(ctx, domain.MustParseDate("2024-01-15"))
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, b.ID, overdue[0].ID, "end_date ascending")
	assert.Equal(t, a.ID, overdue[1].ID)

	active, err := store.Rentals.ListByStatus(ctx, domain.RentalStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	n, err := store.Suppliers.CountOpenRentals(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRentalRepository_SameCreatedAtNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	first := seedRental(t, store.Rentals, "s1", "2024-01-10", domain.RentalStatusActive, created)
	second := seedRental(t, store.Rentals, "s1", "2024-01-11", domain.RentalStatusActive, created)

	all, err := store.Rentals.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	active, err := store.Rentals.ListByStatus(ctx, domain.RentalStatusActive)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestRentalRepository_ReadsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	rt := seedRental(t, store.Rentals, "s1", "2024-01-10", domain.RentalStatusPending, time.Now())

	got, err := store.Rentals.GetByID(ctx, rt.ID)
	require.NoError(t, err)
	got.EquipmentName = "mutated"

	again, err := store.Rentals.GetByID(ctx, rt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crane 2024-01-10", again.EquipmentName)

	assert.True(t, errors.Is(store.Rentals.Delete(ctx, "nope"), domain.ErrNotFound))
	assert.True(t, errors.Is(store.Rentals.Update(ctx, &domain.Rental{ID: "nope"}), domain.ErrNotFound))
}

func TestProductRepository_Constraints(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	cat := &domain.Category{Name: "Lifting"}
	require.NoError(t, store.Categories.Create(ctx, cat))

	catID := cat.ID
	p := &domain.InventoryItem{Code: "HST-1", Name: "Hoist", CategoryID: &catID, Quantity: 2, MinStock: 3}
	require.NoError(t, store.Products.Create(ctx, p))
	assert.Equal(t, "Lifting", p.CategoryName)
	assert.True(t, p.IsLowStock)

	err := store.Products.Create(ctx, &domain.InventoryItem{Code: "HST-1", Name: "Other"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	ghost := "ghost"
	err = store.Products.Create(ctx, &domain.InventoryItem{Code: "HST-2", Name: "Other", CategoryID: &ghost})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	require.NoError(t, store.Categories.Delete(ctx, cat.ID))
	got, err := store.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "deleting a category detaches its products")
	assert.Empty(t, got.CategoryName)
}

func TestProductRepository_ListByName(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i, name := range []string{"drill", "Auger", "compactor"} {
		require.NoError(t, store.Products.Create(ctx, &domain.InventoryItem{Code: string(rune('a' + i)), Name: name}))
	}
	items, err := store.Products.List(ctx)
	require.NoError(t, err)
	names := []string{items[0].Name, items[1].Name, items[2].Name}
	assert.Equal(t, []string{"Auger", "compactor", "drill"}, names)
}

func TestSubstitutionRepository_ConcurrentAppend(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	rt := seedRental(t, store.Rentals, "s1", "2024-01-10", domain.RentalStatusActive, time.Now())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := &domain.EquipmentSubstitution{RentalID: rt.ID, Reason: domain.ReasonWear, SubstitutionDate: time.Now()}
			assert.NoError(t, store.Substitutions.Append(ctx, sub))
		}()
	}
	wg.Wait()

	subs, err := store.Substitutions.ListByRental(ctx, rt.ID)
	require.NoError(t, err)
	require.Len(t, subs, n)

	seqs := make([]int, 0, n)
	for _, s := range subs {
		seqs = append(seqs, int(s.Sequence))
	}
	sort.Ints(seqs)
	for i, s := range seqs {
		assert.Equal(t, i+1, s)
	}
}

func TestSubstitutionRepository_JoinAndFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	sup := &domain.Supplier{Name: "Acme Heavy", Email: "a@acme.com"}
	require.NoError(t, store.Suppliers.Create(ctx, sup))
	rt := seedRental(t, store.Rentals, sup.ID, "2024-01-10", domain.RentalStatusActive, time.Now())

	day := func(d int) time.Time { return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC) }
	for _, s := range []domain.EquipmentSubstitution{
		{RentalID: rt.ID, Reason: domain.ReasonDefect, SubstitutionDate: day(8)},
		{RentalID: rt.ID, Reason: domain.ReasonDamage, SubstitutionDate: day(3), ResponsibilityShift: true},
	} {
		s := s
		require.NoError(t, store.Substitutions.Append(ctx, &s))
	}

	err := store.Substitutions.Append(ctx, &domain.EquipmentSubstitution{RentalID: "ghost"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	byRental, err := store.Substitutions.ListByRental(ctx, rt.ID)
	require.NoError(t, err)
	require.Len(t, byRental, 2)
	assert.Equal(t, int32(2), byRental[0].Sequence, "ordered by date, then sequence")
	assert.Equal(t, "Acme Heavy", byRental[0].SupplierName)
	assert.NotNil(t, byRental[0].DeliveryPhotos)

	all, err := store.Substitutions.List(ctx, domain.SubstitutionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int32(1), all[0].Sequence, "insertion order")

	shifted, err := store.Substitutions.List(ctx, domain.SubstitutionFilter{SupplierName: "acme", ResponsibilityShiftOnly: true})
	require.NoError(t, err)
	require.Len(t, shifted, 1)
	assert.Equal(t, domain.ReasonDamage, shifted[0].Reason)

	// Substitutions outlive their rental.
	require.NoError(t, store.Rentals.Delete(ctx, rt.ID))
	all, err = store.Substitutions.List(ctx, domain.SubstitutionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, all[0].SupplierName)
}
