package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
)

type substitutionRepository struct {
	db *db
}

// Append computes the sequence under the store's write lock, so the count it reads
// cannot change before the record lands.
func (r *substitutionRepository) Append(ctx context.Context, sub *domain.EquipmentSubstitution) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.rentals[sub.RentalID]; !ok {
		return domain.NewNotFoundError("rental", sub.RentalID)
	}

	var count int32
	for _, s := range r.db.substitutions {
		if s.RentalID == sub.RentalID {
			count++
		}
	}
	sub.ID = uuid.NewString()
	sub.Sequence = count + 1

	stored := *sub
	stored.DeliveryPhotos = slices.Clone(sub.DeliveryPhotos)
	stored.ReceiptPhotos = slices.Clone(sub.ReceiptPhotos)
	r.db.substitutions = append(r.db.substitutions, stored)
	return nil
}

// view joins the rental and supplier context. Caller holds the lock.
func (r *substitutionRepository) view(s domain.EquipmentSubstitution) domain.EquipmentSubstitution {
	out := s
	out.DeliveryPhotos = orEmpty(slices.Clone(s.DeliveryPhotos))
	out.ReceiptPhotos = orEmpty(slices.Clone(s.ReceiptPhotos))
	if rt, ok := r.db.rentals[s.RentalID]; ok {
		out.SupplierID = rt.SupplierID
		out.RentalEquipmentName = rt.EquipmentName
		out.SupplierName = r.db.suppliers[rt.SupplierID].Name
	}
	return out
}

func (r *substitutionRepository) ListByRental(ctx context.Context, rentalID string) ([]domain.EquipmentSubstitution, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []domain.EquipmentSubstitution{}
	for _, s := range r.db.substitutions {
		if s.RentalID == rentalID {
			out = append(out, r.view(s))
		}
	}
	slices.SortStableFunc(out, func(a, b domain.EquipmentSubstitution) int {
		if c := a.SubstitutionDate.Compare(b.SubstitutionDate); c != 0 {
			return c
		}
		return int(a.Sequence - b.Sequence)
	})
	return out, nil
}

func (r *substitutionRepository) List(ctx context.Context, filter domain.SubstitutionFilter) ([]domain.EquipmentSubstitution, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []domain.EquipmentSubstitution{}
	for _, s := range r.db.substitutions {
		v := r.view(s)
		if filter.Matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
