package service

import (
	"context"
	"errors"
	"log/slog"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

// RentalService owns the rental lifecycle. Overdue is computed on read and never stored.
type RentalService struct {
	rentals   repository.RentalRepository
	suppliers repository.SupplierRepository
	policy    domain.TransitionPolicy
	clock     Clock
	log       *slog.Logger
}

func NewRentalService(
	rentals repository.RentalRepository,
	suppliers repository.SupplierRepository,
	policy domain.TransitionPolicy,
	clock Clock,
) *RentalService {
	if policy == nil {
		policy = domain.PermissivePolicy{}
	}
	return &RentalService{
		rentals:   rentals,
		suppliers: suppliers,
		policy:    policy,
		clock:     clock,
		log:       logger.WithComponent("rentals"),
	}
}

func (s *RentalService) Create(ctx context.Context, draft domain.RentalDraft) (*domain.Rental, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSupplier(ctx, draft.SupplierID); err != nil {
		return nil, err
	}

	rental := &domain.Rental{}
	draft.Apply(rental)
	if err := s.policy.Check("", rental.Status); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	rental.CreatedAt = now
	rental.UpdatedAt = now

	if err := s.rentals.Create(ctx, rental); err != nil {
		logFailure(ctx, s.log, "create rental", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "rental created", "rental_id", rental.ID, "supplier_id", rental.SupplierID, "status", rental.Status)
	return s.Get(ctx, rental.ID)
}

// Update replaces every caller-owned field. An omitted status resets to pending.
func (s *RentalService) Update(ctx context.Context, id string, draft domain.RentalDraft) (*domain.Rental, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// A supplier deleted after booking stays referenced; only a new reference must resolve.
	if draft.SupplierID != existing.SupplierID {
		if err := s.requireSupplier(ctx, draft.SupplierID); err != nil {
			return nil, err
		}
	}

	updated := *existing
	draft.Apply(&updated)
	if err := s.policy.Check(existing.Status, updated.Status); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.clock.Now()

	if err := s.rentals.Update(ctx, &updated); err != nil {
		logFailure(ctx, s.log, "update rental", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "rental updated", "rental_id", id, "from_status", existing.Status, "to_status", updated.Status)
	return s.Get(ctx, id)
}

func (s *RentalService) Delete(ctx context.Context, id string) error {
	if err := s.rentals.Delete(ctx, id); err != nil {
		logFailure(ctx, s.log, "delete rental", err)
		return err
	}
	s.log.InfoContext(ctx, "rental deleted", "rental_id", id)
	return nil
}

func (s *RentalService) Get(ctx context.Context, id string) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.log, "get rental", err)
		return nil, err
	}
	return rental, nil
}

// List returns every rental, newest first.
func (s *RentalService) List(ctx context.Context) ([]domain.Rental, error) {
	rentals, err := s.rentals.List(ctx)
	if err != nil {
		logFailure(ctx, s.log, "list rentals", err)
		return nil, err
	}
	return rentals, nil
}

func (s *RentalService) ListActive(ctx context.Context) ([]domain.Rental, error) {
	rentals, err := s.rentals.ListByStatus(ctx, domain.RentalStatusActive)
	if err != nil {
		logFailure(ctx, s.log, "list active rentals", err)
		return nil, err
	}
	return rentals, nil
}

// ListOverdue returns active rentals whose end date is before today, end date ascending.
func (s *RentalService) ListOverdue(ctx context.Context) ([]domain.Rental, error) {
	rentals, err := s.rentals.ListOverdue(ctx, Today(s.clock))
	if err != nil {
		logFailure(ctx, s.log, "list overdue rentals", err)
		return nil, err
	}
	return rentals, nil
}

func (s *RentalService) requireSupplier(ctx context.Context, id string) error {
	_, err := s.suppliers.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("supplier_id", "supplier does not exist")
	}
	if err != nil {
		logFailure(ctx, s.log, "load supplier", err)
	}
	return err
}
