package service

import (
	"context"
	"fmt"
	"log/slog"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

type SupplierService struct {
	suppliers repository.SupplierRepository
	clock     Clock
	log       *slog.Logger
}

func NewSupplierService(suppliers repository.SupplierRepository, clock Clock) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		clock:     clock,
		log:       logger.WithComponent("suppliers"),
	}
}

func (s *SupplierService) Create(ctx context.Context, draft domain.SupplierDraft) (*domain.Supplier, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	sup := &domain.Supplier{CreatedAt: s.clock.Now()}
	draft.Apply(sup)
	if err := s.suppliers.Create(ctx, sup); err != nil {
		logFailure(ctx, s.log, "create supplier", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "supplier created", "supplier_id", sup.ID)
	return sup, nil
}

func (s *SupplierService) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.log, "get supplier", err)
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) List(ctx context.Context) ([]domain.Supplier, error) {
	sups, err := s.suppliers.List(ctx)
	if err != nil {
		logFailure(ctx, s.log, "list suppliers", err)
		return nil, err
	}
	return sups, nil
}

func (s *SupplierService) Update(ctx context.Context, id string, draft domain.SupplierDraft) (*domain.Supplier, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	sup := &domain.Supplier{ID: id}
	draft.Apply(sup)
	if err := s.suppliers.Update(ctx, sup); err != nil {
		logFailure(ctx, s.log, "update supplier", err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while the supplier still has pending or active rentals.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	open, err := s.suppliers.CountOpenRentals(ctx, id)
	if err != nil {
		logFailure(ctx, s.log, "delete supplier", err)
		return err
	}
	if open > 0 {
		return domain.NewConflictError(fmt.Sprintf("supplier has %d open rentals", open))
	}
	if err := s.suppliers.Delete(ctx, id); err != nil {
		logFailure(ctx, s.log, "delete supplier", err)
		return err
	}
	s.log.InfoContext(ctx, "supplier deleted", "supplier_id", id)
	return nil
}
