package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-tracker-backend/internal/domain"
)

func TestSupplierService_DeleteGuard(t *testing.T) {
	f := newFixture(t, "2024-01-15T10:00:00Z")
	ctx := context.Background()
	acme := f.supplier(t, "Acme")

	r, err := f.rentals.Create(ctx, rentalDraft(acme.ID, "2024-01-01", "2024-01-10", domain.RentalStatusActive, 1))
	require.NoError(t, err)

	err = f.suppliers.Delete(ctx, acme.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	draft := rentalDraft(acme.ID, "2024-01-01", "2024-01-10", domain.RentalStatusCompleted, 1)
	_, err = f.rentals.Update(ctx, r.ID, draft)
	require.NoError(t, err)
	require.NoError(t, f.suppliers.Delete(ctx, acme.ID))

	// The closed rental survives with its dangling reference.
	kept, err := f.rentals.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, kept.SupplierID)
	assert.Empty(t, kept.SupplierName)

	// Updating it without changing supplier still works.
	draft.Notes = "returned late"
	_, err = f.rentals.Update(ctx, r.ID, draft)
	assert.NoError(t, err)

	assert.True(t, errors.Is(f.suppliers.Delete(ctx, acme.ID), domain.ErrNotFound))
}

func TestSupplierService_Validation(t *testing.T) {
	f := newFixture(t, "2024-01-15T10:00:00Z")
	_, err := f.suppliers.Create(context.Background(), domain.SupplierDraft{Name: "Acme", Email: "nope"})
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "email", de.Field)
}

func TestSupplierService_UpdateAndList(t *testing.T) {
	f := newFixture(t, "2024-01-15T10:00:00Z")
	ctx := context.Background()
	acme := f.supplier(t, "Acme")

	updated, err := f.suppliers.Update(ctx, acme.ID, domain.SupplierDraft{Name: "Acme Ltd", Email: "hq@acme.com", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, acme.CreatedAt, updated.CreatedAt)

	list, err := f.suppliers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "555", list[0].Phone)
}
