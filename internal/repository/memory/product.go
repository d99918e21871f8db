package memory

import (
	"context"

	"github.com/google/uuid"

	"rental-tracker-backend/internal/domain"
)

type storedCategory struct {
	domain.Category
	seq int64
}

type storedProduct struct {
	domain.InventoryItem
	seq int64
}

type categoryRepository struct {
	db *db
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c.ID = uuid.NewString()
	r.db.categories[c.ID] = storedCategory{Category: *c, seq: r.db.nextSeq()}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.categories[id]
	if !ok {
		return nil, domain.NewNotFoundError("category", id)
	}
	out := c.Category
	return &out, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stored := sortedValues(r.db.categories,
		func(c storedCategory) int64 { return c.seq },
		func(a, b storedCategory) int { return compareFold(a.Name, b.Name) })
	out := make([]domain.Category, 0, len(stored))
	for _, c := range stored {
		out = append(out, c.Category)
	}
	return out, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.categories[c.ID]
	if !ok {
		return domain.NewNotFoundError("category", c.ID)
	}
	c.CreatedAt = existing.CreatedAt
	existing.Category = *c
	r.db.categories[c.ID] = existing
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[id]; !ok {
		return domain.NewNotFoundError("category", id)
	}
	delete(r.db.categories, id)
	for pid, p := range r.db.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.db.products[pid] = p
		}
	}
	return nil
}

type productRepository struct {
	db *db
}

// checkProduct enforces the same constraints the postgres schema does. Caller holds the lock.
func (r *productRepository) checkProduct(item *domain.InventoryItem) error {
	for _, p := range r.db.products {
		if p.ID != item.ID && p.Code == item.Code {
			return domain.NewConflictError("a product with this code already exists")
		}
	}
	if item.CategoryID != nil {
		if _, ok := r.db.categories[*item.CategoryID]; !ok {
			return domain.NewValidationError("category_id", "category does not exist")
		}
	}
	return nil
}

// view joins the category name and derived flags onto a stored product. Caller holds the lock.
func (r *productRepository) view(p storedProduct) domain.InventoryItem {
	item := p.InventoryItem
	item.CategoryID = cloneString(p.CategoryID)
	if item.CategoryID != nil {
		item.CategoryName = r.db.categories[*item.CategoryID].Name
	}
	item.Derive()
	return item
}

func (r *productRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	item.ID = uuid.NewString()
	if err := r.checkProduct(item); err != nil {
		return err
	}
	stored := storedProduct{InventoryItem: *item, seq: r.db.nextSeq()}
	stored.CategoryID = cloneString(item.CategoryID)
	r.db.products[item.ID] = stored
	*item = r.view(stored)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("product", id)
	}
	item := r.view(p)
	return &item, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stored := sortedValues(r.db.products,
		func(p storedProduct) int64 { return p.seq },
		func(a, b storedProduct) int { return compareFold(a.Name, b.Name) })
	out := make([]domain.InventoryItem, 0, len(stored))
	for _, p := range stored {
		out = append(out, r.view(p))
	}
	return out, nil
}

func (r *productRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.products[item.ID]
	if !ok {
		return domain.NewNotFoundError("product", item.ID)
	}
	if err := r.checkProduct(item); err != nil {
		return err
	}
	item.CreatedAt = existing.CreatedAt
	existing.InventoryItem = *item
	existing.CategoryID = cloneString(item.CategoryID)
	r.db.products[item.ID] = existing
	*item = r.view(existing)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[id]; !ok {
		return domain.NewNotFoundError("product", id)
	}
	delete(r.db.products, id)
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
