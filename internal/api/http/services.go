package http

import (
	"context"

	"rental-tracker-backend/internal/domain"
)

// The handlers depend on these narrow views of the service layer.

type RentalService interface {
	Create(ctx context.Context, draft domain.RentalDraft) (*domain.Rental, error)
	Get(ctx context.Context, id string) (*domain.Rental, error)
	List(ctx context.Context) ([]domain.Rental, error)
	ListActive(ctx context.Context) ([]domain.Rental, error)
	ListOverdue(ctx context.Context) ([]domain.Rental, error)
	Update(ctx context.Context, id string, draft domain.RentalDraft) (*domain.Rental, error)
	Delete(ctx context.Context, id string) error
}

type SubstitutionService interface {
	Record(ctx context.Context, rentalID string, draft domain.SubstitutionDraft) (*domain.EquipmentSubstitution, error)
	ListByRental(ctx context.Context, rentalID string) ([]domain.EquipmentSubstitution, error)
	ListAll(ctx context.Context, filter domain.SubstitutionFilter) ([]domain.EquipmentSubstitution, error)
	Summary(ctx context.Context, filter domain.SubstitutionFilter) (domain.SubstitutionSummary, error)
}

type SupplierService interface {
	Create(ctx context.Context, draft domain.SupplierDraft) (*domain.Supplier, error)
	Get(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, id string, draft domain.SupplierDraft) (*domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

type InventoryService interface {
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.InventoryItem, error)
	GetProduct(ctx context.Context, id string) (*domain.InventoryItem, error)
	ListProducts(ctx context.Context) ([]domain.InventoryItem, error)
	UpdateProduct(ctx context.Context, id string, draft domain.ProductDraft) (*domain.InventoryItem, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type DashboardService interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// Services bundles everything the router serves.
type Services struct {
	Rentals       RentalService
	Substitutions SubstitutionService
	Suppliers     SupplierService
	Inventory     InventoryService
	Dashboard     DashboardService
}
