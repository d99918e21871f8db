package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
)

type storedSupplier struct {
	domain.Supplier
	seq int64
}

type supplierRepository struct {
	db *db
}

func (r *supplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s.ID = uuid.NewString()
	r.db.suppliers[s.ID] = storedSupplier{Supplier: *s, seq: r.db.nextSeq()}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, domain.NewNotFoundError("supplier", id)
	}
	out := s.Supplier
	return &out, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stored := sortedValues(r.db.suppliers,
		func(s storedSupplier) int64 { return -s.seq },
		func(a, b storedSupplier) int { return b.CreatedAt.Compare(a.CreatedAt) })
	out := make([]domain.Supplier, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.Supplier)
	}
	return out, nil
}

func (r *supplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.suppliers[s.ID]
	if !ok {
		return domain.NewNotFoundError("supplier", s.ID)
	}
	s.CreatedAt = existing.CreatedAt
	existing.Supplier = *s
	r.db.suppliers[s.ID] = existing
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.suppliers[id]; !ok {
		return domain.NewNotFoundError("supplier", id)
	}
	delete(r.db.suppliers, id)
	return nil
}

func (r *supplierRepository) CountOpenRentals(ctx context.Context, supplierID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, rt := range r.db.rentals {
		if rt.SupplierID == supplierID && !rt.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

// compareFold orders names case-insensitively, the way a default Postgres collation
// roughly does.
func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
