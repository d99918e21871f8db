package service

import (
	"context"
	"log/slog"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

// InventoryService manages products and categories and answers stock questions.
type InventoryService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	clock      Clock
	log        *slog.Logger
}

func NewInventoryService(products repository.ProductRepository, categories repository.CategoryRepository, clock Clock) *InventoryService {
	return &InventoryService{
		products:   products,
		categories: categories,
		clock:      clock,
		log:        logger.WithComponent("inventory"),
	}
}

// ListLowStock returns every item at or below its minimum, ordered by name.
func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	low := []domain.InventoryItem{}
	for _, item := range items {
		if domain.IsLowStock(item) {
			low = append(low, item)
		}
	}
	return low, nil
}

// AggregateStock sums units across all items, rentable or not.
func (s *InventoryService) AggregateStock(ctx context.Context) (domain.StockAggregate, error) {
	items, err := s.ListProducts(ctx)
	if err != nil {
		return domain.StockAggregate{}, err
	}
	var agg domain.StockAggregate
	for _, item := range items {
		agg.TotalUnits += int64(item.Quantity)
		if domain.IsLowStock(item) {
			agg.LowStockCount++
		}
	}
	return agg, nil
}

func (s *InventoryService) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.InventoryItem, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	item := &domain.InventoryItem{CreatedAt: s.clock.Now()}
	draft.Apply(item)
	if err := s.products.Create(ctx, item); err != nil {
		logFailure(ctx, s.log, "create product", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "product created", "product_id", item.ID, "code", item.Code)
	return s.GetProduct(ctx, item.ID)
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := s.products.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.log, "get product", err)
		return nil, err
	}
	return item, nil
}

// ListProducts returns the full inventory ordered by name.
func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.products.List(ctx)
	if err != nil {
		logFailure(ctx, s.log, "list products", err)
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, id string, draft domain.ProductDraft) (*domain.InventoryItem, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	item := &domain.InventoryItem{ID: id}
	draft.Apply(item)
	if err := s.products.Update(ctx, item); err != nil {
		logFailure(ctx, s.log, "update product", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "product updated", "product_id", id)
	return s.GetProduct(ctx, id)
}

func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		logFailure(ctx, s.log, "delete product", err)
		return err
	}
	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *InventoryService) CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	c := &domain.Category{Name: draft.Name, Description: draft.Description, CreatedAt: s.clock.Now()}
	if err := s.categories.Create(ctx, c); err != nil {
		logFailure(ctx, s.log, "create category", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "category created", "category_id", c.ID)
	return c, nil
}

func (s *InventoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.log, "get category", err)
		return nil, err
	}
	return c, nil
}

func (s *InventoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		logFailure(ctx, s.log, "list categories", err)
		return nil, err
	}
	return cats, nil
}

func (s *InventoryService) UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, Name: draft.Name, Description: draft.Description}
	if err := s.categories.Update(ctx, c); err != nil {
		logFailure(ctx, s.log, "update category", err)
		return nil, err
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category; its products stay, uncategorised.
func (s *InventoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		logFailure(ctx, s.log, "delete category", err)
		return err
	}
	s.log.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}
