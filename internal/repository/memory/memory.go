// Package memory is an in-process Store used for local development and service tests.
// Every read hands out copies, so callers never alias stored records.
package memory

import (
	"slices"
	"sync"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/repository"
)

type db struct {
	mu sync.RWMutex

	suppliers  map[string]storedSupplier
	categories map[string]storedCategory
	products   map[string]storedProduct
	rentals    map[string]storedRental
	// Substitutions are append-only, so a slice keeps insertion order.
	substitutions []domain.EquipmentSubstitution

	// seq orders inserts across all tables for deterministic tie-breaks.
	seq int64
}

// NewStore returns an empty in-memory store.
func NewStore() *repository.Store {
	d := &db{
		suppliers:  make(map[string]storedSupplier),
		categories: make(map[string]storedCategory),
		products:   make(map[string]storedProduct),
		rentals:    make(map[string]storedRental),
	}
	return &repository.Store{
		Suppliers:     &supplierRepository{db: d},
		Categories:    &categoryRepository{db: d},
		Products:      &productRepository{db: d},
		Rentals:       &rentalRepository{db: d},
		Substitutions: &substitutionRepository{db: d},
	}
}

func (d *db) nextSeq() int64 {
	d.seq++
	return d.seq
}

// sortedValues returns the map values ordered by cmp, falling back to insertion order.
func sortedValues[T any](m map[string]T, insertSeq func(T) int64, cmp func(a, b T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		return int(insertSeq(a) - insertSeq(b))
	})
	return out
}
