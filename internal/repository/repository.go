package repository

import (
	"context"

	"rental-tracker-backend/internal/domain"
)

// Implementations return *domain.Error values: NotFound for unknown ids, Conflict for
// uniqueness violations and Storage for everything the backend itself failed at.

type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	// List returns newest first.
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id string) error
	// CountOpenRentals counts pending and active rentals referencing the supplier.
	CountOpenRentals(ctx context.Context, supplierID string) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	// List returns categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	// Delete detaches the category's products instead of removing them.
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	// List returns every item ordered by name, category name joined in.
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id string) error
}

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// List returns newest created first, supplier contact joined in.
	List(ctx context.Context) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	// ListOverdue returns active rentals with end_date before today, end_date ascending.
	ListOverdue(ctx context.Context, today domain.Date) ([]domain.Rental, error)
	Update(ctx context.Context, r *domain.Rental) error
	Delete(ctx context.Context, id string) error
}

type SubstitutionRepository interface {
	// Append assigns ID and Sequence atomically with respect to other appends for the
	// same rental. NotFound when the rental does not exist.
	Append(ctx context.Context, sub *domain.EquipmentSubstitution) error
	// ListByRental orders by substitution_date then sequence.
	ListByRental(ctx context.Context, rentalID string) ([]domain.EquipmentSubstitution, error)
	// List applies filter over every record, in insertion order, supplier context joined in.
	List(ctx context.Context, filter domain.SubstitutionFilter) ([]domain.EquipmentSubstitution, error)
}

// Store bundles the repositories one backend provides.
type Store struct {
	Suppliers     SupplierRepository
	Categories    CategoryRepository
	Products      ProductRepository
	Rentals       RentalRepository
	Substitutions SubstitutionRepository
}
