package memory

import (
	"cmp"
	"context"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
)

type storedRental struct {
	domain.Rental
	seq int64
}

type rentalRepository struct {
	db *db
}

// view joins supplier contact details. Caller holds the lock.
func (r *rentalRepository) view(rt storedRental) domain.Rental {
	out := rt.Rental
	s := r.db.suppliers[rt.SupplierID]
	out.SupplierName = s.Name
	out.SupplierEmail = s.Email
	out.SupplierPhone = s.Phone
	return out
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rt.ID = uuid.NewString()
	stored := storedRental{Rental: *rt, seq: r.db.nextSeq()}
	r.db.rentals[rt.ID] = stored
	*rt = r.view(stored)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rt, ok := r.db.rentals[id]
	if !ok {
		return nil, domain.NewNotFoundError("rental", id)
	}
	out := r.view(rt)
	return &out, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	return r.list(func(domain.Rental) bool { return true }, newestFirst), nil
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(func(rt domain.Rental) bool { return rt.Status == status }, newestFirst), nil
}

func (r *rentalRepository) ListOverdue(ctx context.Context, today domain.Date) ([]domain.Rental, error) {
	return r.list(func(rt domain.Rental) bool { return rt.IsOverdue(today) }, byEndDate), nil
}

// newestFirst breaks created_at ties by insertion, later first.
func newestFirst(a, b storedRental) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.seq, a.seq)
}

func byEndDate(a, b storedRental) int { return a.EndDate.Compare(b.EndDate.Time) }

func (r *rentalRepository) list(keep func(domain.Rental) bool, order func(a, b storedRental) int) []domain.Rental {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stored := sortedValues(r.db.rentals, func(rt storedRental) int64 { return rt.seq }, order)
	out := []domain.Rental{}
	for _, rt := range stored {
		if keep(rt.Rental) {
			out = append(out, r.view(rt))
		}
	}
	return out
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.rentals[rt.ID]
	if !ok {
		return domain.NewNotFoundError("rental", rt.ID)
	}
	rt.CreatedAt = existing.CreatedAt
	existing.Rental = *rt
	r.db.rentals[rt.ID] = existing
	*rt = r.view(existing)
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.rentals[id]; !ok {
		return domain.NewNotFoundError("rental", id)
	}
	delete(r.db.rentals, id)
	return nil
}
